package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	appErrors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
)

// defaultCategories is the starter set offered to a fresh install.
var defaultCategories = []string{
	"Bills",
	"Entertainment",
	"Food",
	"Health",
	"Shopping",
	"Transport",
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with default categories",
	Long:  `Insert the default category set. Existing categories are left alone, so the command can be run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
			os.Exit(1)
		}
		defer deps.Close()

		ctx := context.Background()
		if clearData {
			if err := clearAll(ctx, deps.Gorm); err != nil {
				deps.Logger.Error("failed to clear data", "error", err)
				os.Exit(1)
			}
			deps.Logger.Info("cleared expenses and categories")
		}

		created, err := seedCategories(ctx, deps.CategoryService, defaultCategories, deps.Logger)
		if err != nil {
			deps.Logger.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		deps.Logger.Info("seeding complete", "created", created, "total", len(defaultCategories))
	},
}

type categoryCreator interface {
	CreateCategory(ctx context.Context, dto *category.CreateCategoryDTO) (*category.Category, error)
}

// seedCategories creates each missing category and returns how many were new.
func seedCategories(ctx context.Context, svc categoryCreator, names []string, lg *slog.Logger) (int, error) {
	created := 0
	for _, name := range names {
		dto, appErr := category.ParseCategory(map[string]interface{}{"name": name})
		if appErr != nil {
			return created, fmt.Errorf("seed category %q: %w", name, appErr)
		}

		_, err := svc.CreateCategory(ctx, dto)
		switch {
		case err == nil:
			created++
			lg.Info("seeded category", "name", name)
		case errors.Is(err, appErrors.ErrCategoryNameTaken):
			lg.Debug("category already present", "name", name)
		default:
			return created, fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	return created, nil
}

// clearAll removes expenses before categories so the foreign key holds.
func clearAll(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&expenseDatamodel.Expense{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&categoryDatamodel.Category{}).Error
	})
}
