package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	appErrors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
	// Debug exposes internal error detail in 500 responses.
	Debug bool
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger, debug bool) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg, Debug: debug}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteAppError maps err onto its HTTP response. Anything that is not an
// AppError is treated as internal. Internal errors are logged with their cause
// and answered with a generic message unless Debug is set.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := appErrors.IsAppError(err)
	if !ok {
		appErr = appErrors.NewInternalError("internal server error", err)
	}

	lg := logger.From(r.Context())
	if appErr.IsInternal() {
		lg.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", appErr.Code,
			"error", appErr.Error())

		public := &appErrors.AppError{
			Type:       appErr.Type,
			Code:       appErr.Code,
			Message:    "internal server error",
			StatusCode: appErr.StatusCode,
		}
		if h.Debug {
			public.Details = map[string]string{"cause": appErr.Error()}
		}
		appErr = public
	} else {
		lg.Debug("request rejected", "path", r.URL.Path, "code", appErr.Code, "status", appErr.StatusCode)
	}

	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// DecodeObject reads the request body as a JSON object. Numbers are kept as
// json.Number so amounts are not rounded through float64.
func (h *BaseHandler) DecodeObject(r *http.Request) (map[string]interface{}, *appErrors.AppError) {
	invalid := appErrors.NewValidationError("request body must be a JSON object", appErrors.ErrCodeInvalidBody)
	if r.Body == nil {
		return nil, invalid
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, invalid.WithCause(err)
	}
	if len(raw) > maxBodyBytes {
		return nil, appErrors.NewValidationError("request body too large", appErrors.ErrCodeInvalidBody)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil {
		return nil, invalid.WithCause(err)
	}
	if payload == nil {
		return nil, invalid
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, invalid
	}

	return payload, nil
}
