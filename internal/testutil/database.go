// Package testutil opens throwaway databases for repository and handler tests.
package testutil

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
)

// In-memory SQLite with foreign keys enforced. A single connection keeps every
// query on the same memory database.
const sqliteDSN = "file::memory:?_foreign_keys=on"

// NewSQLiteDB returns a migrated gorm handle. Constraint errors are translated
// into gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func NewSQLiteDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(sqliteDSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&categoryDatamodel.Category{}, &expenseDatamodel.Expense{}); err != nil {
		return nil, err
	}
	return db, nil
}

// SQLX wraps the pool behind a gorm handle for raw query repositories.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return wrap(sqlDB), nil
}

func wrap(sqlDB *sql.DB) *sqlx.DB {
	return sqlx.NewDb(sqlDB, "sqlite3")
}

// Close releases the connection, dropping the memory database with it.
func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
