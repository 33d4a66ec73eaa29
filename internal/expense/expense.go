package expense

import (
	"time"

	"github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/core/money"
)

// Expense is the API view of a stored expense. Amount is in currency units;
// storage keeps integer cents.
type Expense struct {
	ID          int64        `json:"id"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
	CategoryID  int64        `json:"categoryId"`
	Date        time.Time    `json:"date"`
}

func FromDataModel(e *expense.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		Amount:      money.AmountFromCents(e.AmountCents),
		Description: e.Description,
		CategoryID:  e.CategoryID,
		Date:        e.Date.UTC(),
	}
}
