package category

import (
	"errors"

	appErrors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
)

const MaxNameLength = 100

// Repository sentinels. The service maps them onto domain errors.
var (
	ErrDuplicateName      = errors.New("category name already exists")
	ErrCategoryReferenced = errors.New("category is referenced by expenses")
)

type CreateCategoryDTO struct {
	Name string `json:"name"`
}

// ParseCategory validates an untyped JSON object into a CreateCategoryDTO.
func ParseCategory(payload map[string]interface{}) (*CreateCategoryDTO, *appErrors.AppError) {
	raw := payload["name"]

	v := validation.NewValidator()
	v.Field("name", raw).
		Required(appErrors.ErrCodeInvalidName).
		String(appErrors.ErrCodeInvalidName).
		MaxLength(MaxNameLength, appErrors.ErrCodeInvalidName)

	if err := v.Validate(); err != nil {
		return nil, err
	}

	name, _ := validation.AsString(raw)
	return &CreateCategoryDTO{Name: name}, nil
}
