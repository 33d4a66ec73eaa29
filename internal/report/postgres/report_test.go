package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/core/period"
	"github.com/frahmantamala/expense-tracker/internal/report"
	reportPostgres "github.com/frahmantamala/expense-tracker/internal/report/postgres"
	"github.com/frahmantamala/expense-tracker/internal/testutil"
)

func TestReportRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ReportRepository Suite")
}

var _ = Describe("ReportRepository", func() {
	var (
		db   *gorm.DB
		repo report.RepositoryAPI
	)

	category := func(name string) int64 {
		c := &categoryDatamodel.Category{Name: name}
		Expect(db.Create(c).Error).To(Succeed())
		return c.ID
	}

	expense := func(categoryID, cents int64, date time.Time) {
		Expect(db.Create(&expenseDatamodel.Expense{
			AmountCents: cents,
			Description: "item",
			CategoryID:  categoryID,
			Date:        date,
		}).Error).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		db, err = testutil.NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(testutil.Close, db)

		sqlxDB, err := testutil.SQLX(db)
		Expect(err).NotTo(HaveOccurred())
		repo = reportPostgres.NewReportRepository(sqlxDB)
	})

	It("totals each category inside the month and keeps empty ones", func() {
		food := category("Food")
		rent := category("Rent")
		category("Travel")

		expense(food, 1250, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
		expense(food, 300, time.Date(2024, 3, 31, 23, 59, 59, 999000000, time.UTC))
		expense(food, 999, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
		expense(rent, 50000, time.Date(2024, 2, 29, 23, 59, 59, 999000000, time.UTC))

		march, _ := period.NewMonth(2024, 3)
		start, end := march.Range()
		rows, err := repo.CategoryTotals(context.Background(), start, end)
		Expect(err).NotTo(HaveOccurred())

		Expect(rows).To(Equal([]report.CategoryRow{
			{CategoryID: food, Name: "Food", TotalCents: 1550, ExpenseCount: 2},
			{CategoryID: rent, Name: "Rent", TotalCents: 0, ExpenseCount: 0},
			{CategoryID: rows[2].CategoryID, Name: "Travel", TotalCents: 0, ExpenseCount: 0},
		}))
	})

	It("returns an empty slice when there are no categories", func() {
		march, _ := period.NewMonth(2024, 3)
		start, end := march.Range()
		rows, err := repo.CategoryTotals(context.Background(), start, end)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())
	})
})
