package report

import (
	"context"
	"net/http"

	"github.com/frahmantamala/expense-tracker/internal/core/period"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/transport"
)

type ServiceAPI interface {
	MonthlySummary(ctx context.Context, m period.Month) (*MonthlySummary, error)
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

// GetMonthlySummary requires both year and month.
func (h *Handler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	month, err := period.FromQuery(r.URL.Query())
	if err == nil && month == nil {
		err = period.ErrIncomplete
	}
	if err != nil {
		h.WriteAppError(w, r, expense.PeriodError(err))
		return
	}

	summary, err := h.Service.MonthlySummary(r.Context(), *month)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}
