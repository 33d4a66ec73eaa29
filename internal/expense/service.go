package expense

import (
	"context"
	"errors"
	"log/slog"
	"time"

	appErrors "github.com/frahmantamala/expense-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/core/dberr"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/core/period"
)

// ErrUnknownCategory is returned by repositories when the referenced category
// row does not exist at insert time.
var ErrUnknownCategory = errors.New("expense references a missing category")

// RepositoryAPI defines the data access methods for expenses
type RepositoryAPI interface {
	Create(ctx context.Context, expense *expenseDatamodel.Expense) error
	// GetAll returns every expense, newest date first.
	GetAll(ctx context.Context) ([]*expenseDatamodel.Expense, error)
	// GetByDateRange returns expenses whose date lies in [start, end], newest first.
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*expenseDatamodel.Expense, error)
}

// CategoryLookup is satisfied by the category service.
type CategoryLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo         RepositoryAPI
	categories   CategoryLookup
	publisher    events.Publisher
	logger       *slog.Logger
	queryTimeout time.Duration
}

func NewService(repo RepositoryAPI, categories CategoryLookup, publisher events.Publisher, logger *slog.Logger, queryTimeout time.Duration) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:         repo,
		categories:   categories,
		publisher:    publisher,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

func (s *Service) ListExpenses(ctx context.Context) ([]*Expense, error) {
	ctx, cancel := appErrors.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	records, err := s.repo.GetAll(ctx)
	if err != nil {
		dberr.LogFailure(ctx, s.logger, "failed to list expenses", err)
		return nil, appErrors.NewStorageError("failed to list expenses", err)
	}
	return fromDataModels(records), nil
}

// ListExpensesByMonth returns the expenses dated inside the calendar month m.
func (s *Service) ListExpensesByMonth(ctx context.Context, m period.Month) ([]*Expense, error) {
	ctx, cancel := appErrors.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start, end := m.Range()
	records, err := s.repo.GetByDateRange(ctx, start, end)
	if err != nil {
		dberr.LogFailure(ctx, s.logger, "failed to list expenses by month", err, "month", m.String())
		return nil, appErrors.NewStorageError("failed to list expenses", err)
	}
	return fromDataModels(records), nil
}

func (s *Service) CreateExpense(ctx context.Context, dto *CreateExpenseDTO) (*Expense, error) {
	ctx, cancel := appErrors.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	exists, err := s.categories.Exists(ctx, dto.CategoryID)
	if err != nil {
		dberr.LogFailure(ctx, s.logger, "failed to look up category", err, "category_id", dto.CategoryID)
		return nil, appErrors.NewStorageError("failed to create expense", err)
	}
	if !exists {
		return nil, appErrors.ErrCategoryNotFound
	}

	record := &expenseDatamodel.Expense{
		AmountCents: dto.AmountCents,
		Description: dto.Description,
		CategoryID:  dto.CategoryID,
		Date:        dto.Date.UTC(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		// The category can be deleted between the lookup and the insert.
		if errors.Is(err, ErrUnknownCategory) {
			return nil, appErrors.ErrCategoryNotFound
		}
		dberr.LogFailure(ctx, s.logger, "failed to create expense", err, "category_id", dto.CategoryID)
		return nil, appErrors.NewStorageError("failed to create expense", err)
	}

	created := FromDataModel(record)
	s.logger.Info("expense created",
		"expense_id", created.ID,
		"category_id", created.CategoryID,
		"amount_cents", record.AmountCents)

	event := events.NewExpenseCreatedEvent(created.ID, created.CategoryID, record.AmountCents, created.Date)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
	return created, nil
}

func fromDataModels(records []*expenseDatamodel.Expense) []*Expense {
	expenses := make([]*Expense, 0, len(records))
	for _, record := range records {
		expenses = append(expenses, FromDataModel(record))
	}
	return expenses
}
