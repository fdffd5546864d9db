package converter

import (
	"github.com/smartmart-io/go-backend/internal/domain"
)

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToModel(entity *domain.Category) *CategoryModel
	ToEntity(model *CategoryModel) *domain.Category
}

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// SaleConverter преобразует сущности Sale между domain и моделью PostgreSQL.
type SaleConverter interface {
	ToModel(entity *domain.Sale) *SaleModel
	ToEntity(model *SaleModel) *domain.Sale
}

type CategoryConverterImpl struct{}

func NewCategoryConverterImpl() *CategoryConverterImpl {
	return &CategoryConverterImpl{}
}

func (c *CategoryConverterImpl) ToModel(entity *domain.Category) *CategoryModel {
	if entity == nil {
		return nil
	}
	return &CategoryModel{
		ID:   entity.ID,
		Name: entity.Name,
	}
}

func (c *CategoryConverterImpl) ToEntity(model *CategoryModel) *domain.Category {
	if model == nil {
		return nil
	}
	return &domain.Category{
		ID:   model.ID,
		Name: model.Name,
	}
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (p *ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}
	return &ProductModel{
		ID:         entity.ID,
		Name:       entity.Name,
		Price:      entity.Price,
		CategoryID: entity.CategoryID,
	}
}

func (p *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}
	return &domain.Product{
		ID:         model.ID,
		Name:       model.Name,
		Price:      model.Price,
		CategoryID: model.CategoryID,
	}
}

type SaleConverterImpl struct{}

func NewSaleConverterImpl() *SaleConverterImpl {
	return &SaleConverterImpl{}
}

func (s *SaleConverterImpl) ToModel(entity *domain.Sale) *SaleModel {
	if entity == nil {
		return nil
	}
	return &SaleModel{
		ID:         entity.ID,
		ProductID:  entity.ProductID,
		Quantity:   entity.Quantity,
		TotalPrice: entity.TotalPrice,
		Date:       entity.Date,
	}
}

func (s *SaleConverterImpl) ToEntity(model *SaleModel) *domain.Sale {
	if model == nil {
		return nil
	}
	return &domain.Sale{
		ID:         model.ID,
		ProductID:  model.ProductID,
		Quantity:   model.Quantity,
		TotalPrice: model.TotalPrice,
		Date:       model.Date,
	}
}
