package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/core/dberr"
	"github.com/frahmantamala/expense-tracker/internal/expense"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expenseDatamodel.Expense) error {
	err := r.db.WithContext(ctx).Omit("Category").Create(e).Error
	if dberr.IsForeignKeyViolation(err) {
		return expense.ErrUnknownCategory
	}
	return err
}

func (r *ExpenseRepository) GetAll(ctx context.Context) ([]*expenseDatamodel.Expense, error) {
	var expenses []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Order("id DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*expenseDatamodel.Expense, error) {
	var expenses []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start.UTC(), end.UTC()).
		Order("date DESC").
		Order("id DESC").
		Find(&expenses).Error
	return expenses, err
}
