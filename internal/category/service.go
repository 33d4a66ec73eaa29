package category

import (
	"context"
	"errors"
	"log/slog"
	"time"

	appErrors "github.com/frahmantamala/expense-tracker/internal"
	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	"github.com/frahmantamala/expense-tracker/internal/core/dberr"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	// Delete returns the number of rows removed.
	Delete(ctx context.Context, id int64) (int64, error)
	HasExpenses(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo         RepositoryAPI
	publisher    events.Publisher
	logger       *slog.Logger
	queryTimeout time.Duration
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger, queryTimeout time.Duration) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:         repo,
		publisher:    publisher,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	ctx, cancel := appErrors.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	dataCategories, err := s.repo.GetAll(ctx)
	if err != nil {
		dberr.LogFailure(ctx, s.logger, "failed to get categories from repository", err)
		return nil, appErrors.NewStorageError("failed to list categories", err)
	}

	categories := make([]*Category, 0, len(dataCategories))
	for _, dataCategory := range dataCategories {
		categories = append(categories, FromDataModel(dataCategory))
	}

	s.logger.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, dto *CreateCategoryDTO) (*Category, error) {
	ctx, cancel := appErrors.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		dberr.LogFailure(ctx, s.logger, "failed to look up category by name", err, "name", dto.Name)
		return nil, appErrors.NewStorageError("failed to create category", err)
	}
	if existing != nil {
		return nil, appErrors.ErrCategoryNameTaken
	}

	record := ToDataModel(NewCategory(dto.Name))
	if err := s.repo.Create(ctx, record); err != nil {
		// A concurrent insert can win between the lookup and the insert.
		if errors.Is(err, ErrDuplicateName) {
			return nil, appErrors.ErrCategoryNameTaken
		}
		dberr.LogFailure(ctx, s.logger, "failed to create category", err, "name", dto.Name)
		return nil, appErrors.NewStorageError("failed to create category", err)
	}

	created := FromDataModel(record)
	s.logger.Info("category created", "category_id", created.ID, "name", created.Name)
	s.publish(ctx, events.NewCategoryCreatedEvent(created.ID, created.Name))
	return created, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	ctx, cancel := appErrors.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		dberr.LogFailure(ctx, s.logger, "failed to look up category", err, "category_id", id)
		return appErrors.NewStorageError("failed to delete category", err)
	}
	if existing == nil {
		return appErrors.ErrCategoryNotFound
	}

	inUse, err := s.repo.HasExpenses(ctx, id)
	if err != nil {
		dberr.LogFailure(ctx, s.logger, "failed to check category usage", err, "category_id", id)
		return appErrors.NewStorageError("failed to delete category", err)
	}
	if inUse {
		return appErrors.ErrCategoryInUse
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCategoryReferenced) {
			return appErrors.ErrCategoryInUse
		}
		dberr.LogFailure(ctx, s.logger, "failed to delete category", err, "category_id", id)
		return appErrors.NewStorageError("failed to delete category", err)
	}
	if deleted == 0 {
		return appErrors.ErrCategoryNotFound
	}

	s.logger.Info("category deleted", "category_id", id)
	s.publish(ctx, events.NewCategoryDeletedEvent(id))
	return nil
}

// Exists reports whether a category with the given id is stored.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	cat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return cat != nil, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
