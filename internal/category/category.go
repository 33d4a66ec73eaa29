package category

import (
	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewCategory(name string) *Category {
	return &Category{Name: name}
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:   c.ID,
		Name: c.Name,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:   c.ID,
		Name: c.Name,
	}
}
