package http

import (
	"net/http"

	"github.com/smartmart-io/go-backend/internal/usecase"
	"github.com/smartmart-io/go-backend/pkg/logger"
)

type AnalyticsHandler struct {
	analyticsUsecase usecase.AnalyticsUC
	logger           logger.Logger
}

func NewAnalyticsHandler(analyticsUsecase usecase.AnalyticsUC, logger logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUsecase: analyticsUsecase, logger: logger}
}

func (a *AnalyticsHandler) salesSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.analyticsUsecase.SalesSummary(r.Context())
	if err != nil {
		a.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSalesSummaryResponse(summary))
}

func (a *AnalyticsHandler) topProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.analyticsUsecase.TopProducts(r.Context())
	if err != nil {
		a.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductSalesResponses(products))
}

func (a *AnalyticsHandler) categorySales(w http.ResponseWriter, r *http.Request) {
	categories, err := a.analyticsUsecase.CategorySales(r.Context())
	if err != nil {
		a.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategorySalesResponses(categories))
}

func (a *AnalyticsHandler) monthlySales(w http.ResponseWriter, r *http.Request) {
	months, err := a.analyticsUsecase.MonthlySales(r.Context())
	if err != nil {
		a.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toMonthlySalesResponses(months))
}
