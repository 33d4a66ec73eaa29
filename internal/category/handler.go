package category

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	appErrors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/transport"
)

type ServiceAPI interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, dto *CreateCategoryDTO) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) error
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

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.ListCategories(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	payload, appErr := h.DecodeObject(r)
	if appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	dto, appErr := ParseCategory(payload)
	if appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	created, err := h.Service.CreateCategory(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, created)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteAppError(w, r, appErrors.NewValidationFieldError("id", "id must be a positive integer", appErrors.ErrCodeInvalidID))
		return
	}

	if err := h.Service.DeleteCategory(r.Context(), id); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
