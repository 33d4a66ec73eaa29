package expense

import (
	"time"

	appErrors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
	"github.com/frahmantamala/expense-tracker/internal/core/money"
)

const MaxDescriptionLength = 500

type CreateExpenseDTO struct {
	AmountCents int64
	Description string
	CategoryID  int64
	Date        time.Time
}

// ParseExpense validates an untyped JSON object into a CreateExpenseDTO.
// Every failing field is reported, not just the first.
func ParseExpense(payload map[string]interface{}) (*CreateExpenseDTO, *appErrors.AppError) {
	v := validation.NewValidator()
	dto := &CreateExpenseDTO{}

	if raw, present := payload["amount"]; !present || raw == nil {
		v.Fail("amount", "amount is required", appErrors.ErrCodeInvalidAmount)
	} else if amount, ok := validation.AsDecimal(raw); !ok {
		v.Fail("amount", "amount must be a number", appErrors.ErrCodeInvalidAmount)
	} else if !amount.IsPositive() {
		v.Fail("amount", "amount must be greater than 0", appErrors.ErrCodeInvalidAmount)
	} else if cents, err := money.ToCents(amount); err != nil {
		v.Fail("amount", "amount is too large", appErrors.ErrCodeInvalidAmount)
	} else if cents < 1 {
		v.Fail("amount", "amount must be at least 0.01", appErrors.ErrCodeInvalidAmount)
	} else {
		dto.AmountCents = cents
	}

	description := payload["description"]
	v.Field("description", description).
		Required(appErrors.ErrCodeInvalidDescription).
		String(appErrors.ErrCodeInvalidDescription).
		MaxLength(MaxDescriptionLength, appErrors.ErrCodeInvalidDescription)
	dto.Description, _ = validation.AsString(description)

	if raw, present := payload["categoryId"]; !present || raw == nil {
		v.Fail("categoryId", "categoryId is required", appErrors.ErrCodeInvalidCategory)
	} else if id, ok := validation.AsPositiveInt(raw); !ok {
		v.Fail("categoryId", "categoryId must be a positive integer", appErrors.ErrCodeInvalidCategory)
	} else {
		dto.CategoryID = id
	}

	if raw, present := payload["date"]; !present || raw == nil {
		v.Fail("date", "date is required", appErrors.ErrCodeInvalidDate)
	} else if date, ok := validation.AsTimestamp(raw); !ok {
		v.Fail("date", "date must be an ISO-8601 timestamp or epoch milliseconds", appErrors.ErrCodeInvalidDate)
	} else {
		// Storage and month ranges work in whole milliseconds.
		dto.Date = date.Truncate(time.Millisecond)
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return dto, nil
}
