package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/expense-tracker/api"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/report"
	"github.com/frahmantamala/expense-tracker/internal/transport/middleware"
	"github.com/frahmantamala/expense-tracker/internal/transport/swagger"
)

// Handlers groups everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Category *category.Handler
	Expense  *expense.Handler
	Report   *report.Handler
	Health   *HealthHandler
}

type Options struct {
	Logger *slog.Logger
	// Debug echoes panic values in 500 responses.
	Debug bool
}

func RegisterAllRoutes(router chi.Router, handlers Handlers, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger, opts.Debug))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec())
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		if handlers.Health != nil {
			r.Get("/health", handlers.Health.healthCheckHandler)
			r.Get("/ping", handlers.Health.pingHandler)
		}

		if handlers.Category != nil {
			r.Route("/categories", func(cr chi.Router) {
				cr.Get("/", handlers.Category.GetCategories)
				cr.Post("/", handlers.Category.CreateCategory)
				cr.Delete("/{id}", handlers.Category.DeleteCategory)
			})
		}

		r.Route("/expenses", func(er chi.Router) {
			if handlers.Expense != nil {
				er.Get("/", handlers.Expense.GetExpenses)
				er.Post("/", handlers.Expense.CreateExpense)
			}
			if handlers.Report != nil {
				er.Get("/summary", handlers.Report.GetMonthlySummary)
			}
		})
	})
}
