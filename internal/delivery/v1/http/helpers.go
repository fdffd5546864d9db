package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/smartmart-io/go-backend/internal/usecase"
	"github.com/smartmart-io/go-backend/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse сопоставляет ошибку бизнес-слоя с HTTP-кодом и сообщением.
// Неизвестные ошибки схлопываются в 500 без деталей; структурные сбои разбора
// CSV (не-UTF-8, рваные строки, нечисловые значения) относятся именно к ним.
func ToHTTPResponse(err error) (int, string) {
	var inUse *e.CategoryInUseError
	if errors.As(err, &inUse) {
		return http.StatusBadRequest, inUse.Error()
	}

	switch {
	case errors.Is(err, e.ErrCsvFileRequired):
		return http.StatusBadRequest, e.ErrCsvFileRequired.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrFileFieldMissing):
		return http.StatusBadRequest, e.ErrFileFieldMissing.Error()
	case errors.Is(err, e.ErrCategoryNameTaken):
		return http.StatusBadRequest, e.ErrCategoryNameTaken.Error()
	case errors.Is(err, e.ErrCategoryNameEmpty):
		return http.StatusBadRequest, e.ErrCategoryNameEmpty.Error()
	case errors.Is(err, e.ErrProductNameEmpty):
		return http.StatusBadRequest, e.ErrProductNameEmpty.Error()
	case errors.Is(err, e.ErrPriceMustBePositive):
		return http.StatusBadRequest, e.ErrPriceMustBePositive.Error()
	case errors.Is(err, e.ErrCategoryNotExists):
		return http.StatusBadRequest, e.ErrCategoryNotExists.Error()
	case errors.Is(err, e.ErrInvalidID):
		return http.StatusBadRequest, e.ErrInvalidID.Error()
	case errors.Is(err, e.ErrInvalidQueryParam):
		return http.StatusBadRequest, e.ErrInvalidQueryParam.Error()
	case errors.Is(err, e.ErrInvalidRequestBody):
		return http.StatusBadRequest, e.ErrInvalidRequestBody.Error()
	case errors.Is(err, e.ErrCategoryNotFound):
		return http.StatusNotFound, e.ErrCategoryNotFound.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrSaleNotFound):
		return http.StatusNotFound, e.ErrSaleNotFound.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// parseIDParam извлекает числовой идентификатор из URL-параметра id.
func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), e.ErrInvalidID)
	}
	return id, nil
}

// decodeJSON разбирает тело запроса, отклоняя неизвестные поля.
func decodeJSON(r *http.Request, dest any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return e.Wrap(err.Error(), e.ErrInvalidRequestBody)
	}
	return nil
}

// readCSVUpload извлекает файл из multipart-поля file.
// Проверка расширения остаётся за бизнес-слоем.
func readCSVUpload(r *http.Request, maxMemory int64) (*usecase.ImportFileReq, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}

	src, fh, err := r.FormFile("file")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrFileFieldMissing)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewImportFileReq(fh.Filename, data), nil
}
