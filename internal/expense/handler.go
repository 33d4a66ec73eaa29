package expense

import (
	"context"
	"errors"
	"net/http"

	appErrors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/period"
	"github.com/frahmantamala/expense-tracker/internal/transport"
)

type ServiceAPI interface {
	ListExpenses(ctx context.Context) ([]*Expense, error)
	ListExpensesByMonth(ctx context.Context, m period.Month) ([]*Expense, error)
	CreateExpense(ctx context.Context, dto *CreateExpenseDTO) (*Expense, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetExpenses lists every expense, or only one month's when both year and
// month are given.
func (h *Handler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	month, err := period.FromQuery(r.URL.Query())
	if err != nil {
		h.WriteAppError(w, r, PeriodError(err))
		return
	}

	var expenses []*Expense
	if month == nil {
		expenses, err = h.Service.ListExpenses(r.Context())
	} else {
		expenses, err = h.Service.ListExpensesByMonth(r.Context(), *month)
	}
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expenses)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	payload, appErr := h.DecodeObject(r)
	if appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	dto, appErr := ParseExpense(payload)
	if appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	created, err := h.Service.CreateExpense(r.Context(), dto)
	if err != nil {
		// A missing category is a problem with the submitted body, not the URL.
		if errors.Is(err, appErrors.ErrCategoryNotFound) {
			err = appErrors.NewValidationError("Category not found", appErrors.ErrCodeCategoryNotFound).
				WithDetails(appErrors.ValidationErrors{Errors: []appErrors.ValidationError{{
					Field:   "categoryId",
					Message: "category does not exist",
					Code:    string(appErrors.ErrCodeCategoryNotFound),
				}}})
		}
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, created)
}

// PeriodError turns a year/month parse failure into a 400.
func PeriodError(err error) *appErrors.AppError {
	field := "year"
	switch {
	case errors.Is(err, period.ErrInvalidMonth):
		field = "month"
	case errors.Is(err, period.ErrIncomplete):
		field = "period"
	}
	return appErrors.NewValidationFieldError(field, err.Error(), appErrors.ErrCodeInvalidPeriod)
}
