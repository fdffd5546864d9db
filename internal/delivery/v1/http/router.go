package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/smartmart-io/go-backend/internal/usecase"
	"github.com/smartmart-io/go-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(catalogUC usecase.CatalogUC, importUC usecase.ImportUC, analyticsUC usecase.AnalyticsUC) {
	registerUploadRoutes(r.router, NewUploadHandler(importUC, r.logger))
	registerCategoryRoutes(r.router, NewCategoryHandler(catalogUC, r.logger))
	registerProductRoutes(r.router, NewProductHandler(catalogUC, r.logger))
	registerSaleRoutes(r.router, NewSaleHandler(catalogUC, r.logger))
	registerAnalyticsRoutes(r.router, NewAnalyticsHandler(analyticsUC, r.logger))
}

func registerUploadRoutes(router chi.Router, h *UploadHandler) {
	router.Route("/upload", func(up chi.Router) {
		up.Post("/categories", h.uploadCategories)
		up.Post("/products", h.uploadProducts)
		up.Post("/sales", h.uploadSales)
	})
}

func registerCategoryRoutes(router chi.Router, h *CategoryHandler) {
	router.Route("/categories", func(cat chi.Router) {
		cat.Get("/", h.listCategories)
		cat.Post("/", h.createCategory)
		cat.Get("/{id}", h.getCategory)
		cat.Put("/{id}", h.updateCategory)
		cat.Delete("/{id}", h.deleteCategory)
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Post("/", h.createProduct)
		pr.Get("/{id}", h.getProduct)
		pr.Put("/{id}", h.updateProduct)
		pr.Delete("/{id}", h.deleteProduct)
	})
}

func registerSaleRoutes(router chi.Router, h *SaleHandler) {
	router.Route("/sales", func(sl chi.Router) {
		sl.Get("/", h.listSales)
		sl.Get("/{id}", h.getSale)
	})
}

func registerAnalyticsRoutes(router chi.Router, h *AnalyticsHandler) {
	router.Route("/analytics", func(an chi.Router) {
		an.Get("/sales", h.salesSummary)
		an.Get("/products", h.topProducts)
		an.Get("/categories", h.categorySales)
		an.Get("/monthly", h.monthlySales)
	})
}
