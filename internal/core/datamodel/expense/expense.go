package expense

import (
	"time"

	"github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
)

type Expense struct {
	ID          int64              `gorm:"primaryKey"`
	AmountCents int64              `gorm:"column:amount_cents;not null"`
	Description string             `gorm:"column:description;not null"`
	CategoryID  int64              `gorm:"column:category_id;not null;index"`
	Date        time.Time          `gorm:"column:date;not null;index"`
	Category    *category.Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

func (Expense) TableName() string {
	return "expenses"
}
