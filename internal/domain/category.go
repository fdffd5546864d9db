package domain

// Category описывает категорию продукта
type Category struct {
	ID   int64
	Name string
}

func NewCategory(name string) *Category {
	return &Category{
		Name: name,
	}
}
