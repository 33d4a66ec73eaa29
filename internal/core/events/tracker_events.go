package events

import "time"

const (
	EventTypeCategoryCreated = "category.created"
	EventTypeCategoryDeleted = "category.deleted"
	EventTypeExpenseCreated  = "expense.created"
)

// Types lists every event the tracker emits.
var Types = []string{
	EventTypeCategoryCreated,
	EventTypeCategoryDeleted,
	EventTypeExpenseCreated,
}

type CategoryCreatedEvent struct {
	BaseEvent
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

func NewCategoryCreatedEvent(categoryID int64, name string) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseEvent: newBaseEvent(EventTypeCategoryCreated, map[string]interface{}{
			"category_id": categoryID,
			"name":        name,
		}),
		CategoryID: categoryID,
		Name:       name,
	}
}

type CategoryDeletedEvent struct {
	BaseEvent
	CategoryID int64 `json:"category_id"`
}

func NewCategoryDeletedEvent(categoryID int64) *CategoryDeletedEvent {
	return &CategoryDeletedEvent{
		BaseEvent: newBaseEvent(EventTypeCategoryDeleted, map[string]interface{}{
			"category_id": categoryID,
		}),
		CategoryID: categoryID,
	}
}

type ExpenseCreatedEvent struct {
	BaseEvent
	ExpenseID   int64     `json:"expense_id"`
	CategoryID  int64     `json:"category_id"`
	AmountCents int64     `json:"amount_cents"`
	Date        time.Time `json:"date"`
}

func NewExpenseCreatedEvent(expenseID, categoryID, amountCents int64, date time.Time) *ExpenseCreatedEvent {
	return &ExpenseCreatedEvent{
		BaseEvent: newBaseEvent(EventTypeExpenseCreated, map[string]interface{}{
			"expense_id":   expenseID,
			"category_id":  categoryID,
			"amount_cents": amountCents,
			"date":         date.UTC().Format(time.RFC3339Nano),
		}),
		ExpenseID:   expenseID,
		CategoryID:  categoryID,
		AmountCents: amountCents,
		Date:        date,
	}
}
