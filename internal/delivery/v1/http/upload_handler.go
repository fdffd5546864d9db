package http

import (
	"context"
	"net/http"

	"github.com/smartmart-io/go-backend/internal/usecase"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/smartmart-io/go-backend/pkg/logger"
)

// UploadHandler принимает CSV-файлы трёх сущностей.
// Наружу отдаётся только число вставленных строк; пропуски не перечисляются.
type UploadHandler struct {
	importUsecase usecase.ImportUC
	logger        logger.Logger
}

func NewUploadHandler(importUsecase usecase.ImportUC, logger logger.Logger) *UploadHandler {
	return &UploadHandler{importUsecase: importUsecase, logger: logger}
}

func (u *UploadHandler) uploadCategories(w http.ResponseWriter, r *http.Request) {
	u.handleUpload(w, r, u.importUsecase.ImportCategories)
}

func (u *UploadHandler) uploadProducts(w http.ResponseWriter, r *http.Request) {
	u.handleUpload(w, r, u.importUsecase.ImportProducts)
}

func (u *UploadHandler) uploadSales(w http.ResponseWriter, r *http.Request) {
	u.handleUpload(w, r, u.importUsecase.ImportSales)
}

func (u *UploadHandler) handleUpload(w http.ResponseWriter, r *http.Request,
	importFn func(context.Context, *usecase.ImportFileReq) (*usecase.ImportStats, error)) {
	const (
		maxTotalRequestSize = 50 << 20
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	req, err := readCSVUpload(r, maxMemory)
	if err != nil {
		u.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrExpectedMultipart.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	stats, err := importFn(r.Context(), req)
	if err != nil {
		u.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, &ImportResponse{Imported: stats.Inserted})
}
