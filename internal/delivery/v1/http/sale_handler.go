package http

import (
	"net/http"
	"strconv"

	"github.com/jimlawless/whereami"
	"github.com/smartmart-io/go-backend/internal/usecase"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/smartmart-io/go-backend/pkg/logger"
)

// SaleHandler отдаёт продажи только на чтение: записи создаются импортом CSV.
type SaleHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewSaleHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *SaleHandler {
	return &SaleHandler{catalogUsecase: catalogUsecase, logger: logger}
}

func (s *SaleHandler) listSales(w http.ResponseWriter, r *http.Request) {
	filter := &usecase.SaleFilter{}
	if v := r.URL.Query().Get("product_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			WriteError(w, e.Wrap(whereami.WhereAmI(), e.ErrInvalidQueryParam))
			return
		}
		filter.ProductID = &id
	}

	sales, err := s.catalogUsecase.ListSales(r.Context(), filter)
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSaleResponses(sales))
}

func (s *SaleHandler) getSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	sale, err := s.catalogUsecase.GetSale(r.Context(), id)
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSaleResponse(sale))
}
