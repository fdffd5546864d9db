package http

import (
	"net/http"

	"github.com/smartmart-io/go-backend/internal/usecase"
	"github.com/smartmart-io/go-backend/pkg/logger"
)

type CategoryHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCategoryHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{catalogUsecase: catalogUsecase, logger: logger}
}

type categoryRequestBody struct {
	Name string `json:"name"`
}

func (c *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalogUsecase.ListCategories(r.Context())
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponses(categories))
}

func (c *CategoryHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	category, err := c.catalogUsecase.GetCategory(r.Context(), id)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

func (c *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryRequestBody
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	category, err := c.catalogUsecase.CreateCategory(r.Context(), &usecase.CategoryReq{Name: body.Name})
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toCategoryResponse(category))
}

func (c *CategoryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var body categoryRequestBody
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	category, err := c.catalogUsecase.UpdateCategory(r.Context(), id, &usecase.CategoryReq{Name: body.Name})
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

func (c *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := c.catalogUsecase.DeleteCategory(r.Context(), id); err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
