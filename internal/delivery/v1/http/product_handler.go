package http

import (
	"net/http"
	"strconv"

	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
	"github.com/smartmart-io/go-backend/internal/usecase"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/smartmart-io/go-backend/pkg/logger"
)

type ProductHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewProductHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{catalogUsecase: catalogUsecase, logger: logger}
}

type createProductBody struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID int64           `json:"category_id"`
}

type updateProductBody struct {
	Name       *string          `json:"name"`
	Price      *decimal.Decimal `json:"price"`
	CategoryID *int64           `json:"category_id"`
}

func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrInvalidQueryParam.Error(), err.Error())
		WriteError(w, err)
		return
	}

	products, err := p.catalogUsecase.ListProducts(r.Context(), filter)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.catalogUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body createProductBody
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.catalogUsecase.CreateProduct(r.Context(), &usecase.CreateProductReq{
		Name:       body.Name,
		Price:      body.Price,
		CategoryID: body.CategoryID,
	})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var body updateProductBody
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.catalogUsecase.UpdateProduct(r.Context(), id, &usecase.UpdateProductReq{
		Name:       body.Name,
		Price:      body.Price,
		CategoryID: body.CategoryID,
	})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.catalogUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseProductFilter собирает фильтр листинга из query-параметров.
// Отсутствующий параметр не накладывает условия.
func parseProductFilter(r *http.Request) (*usecase.ProductFilter, error) {
	q := r.URL.Query()
	filter := &usecase.ProductFilter{Search: q.Get("search")}

	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidQueryParam)
		}
		filter.CategoryID = &id
	}

	if v := q.Get("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidQueryParam)
		}
		filter.MinPrice = &d
	}

	if v := q.Get("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidQueryParam)
		}
		filter.MaxPrice = &d
	}

	return filter, nil
}
