package expense_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/expense-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/expense-tracker/internal/category/postgres"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	expensePostgres "github.com/frahmantamala/expense-tracker/internal/expense/postgres"
	"github.com/frahmantamala/expense-tracker/internal/testutil"
	"github.com/frahmantamala/expense-tracker/internal/transport"
)

var _ = Describe("Expense Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		food   *category.Category
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	post := func(amount, date string) *httptest.ResponseRecorder {
		body := `{"amount":` + amount + `,"description":"Lunch","categoryId":` + strconv.FormatInt(food.ID, 10) + `,"date":"` + date + `"}`
		return do(http.MethodPost, "/expenses", body)
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = testutil.NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(testutil.Close, db)

		categoryService := category.NewService(categoryPostgres.NewCategoryRepository(db), nil, slogger, time.Second)
		expenseService := expense.NewService(expensePostgres.NewExpenseRepository(db), categoryService, nil, slogger, time.Second)
		handler := expense.NewHandler(transport.NewBaseHandler(slogger, false), expenseService)

		router = chi.NewRouter()
		router.Get("/expenses", handler.GetExpenses)
		router.Post("/expenses", handler.CreateExpense)

		food, err = categoryService.CreateCategory(context.Background(), &category.CreateCategoryDTO{Name: "Food"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates an expense and echoes the amount as a decimal", func() {
		w := post("12.50", "2024-03-15T12:00:00.000Z")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"amount":12.50`))

		var created map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		Expect(created).To(HaveKey("id"))
		Expect(created).To(HaveKeyWithValue("categoryId", BeNumerically("==", food.ID)))
		Expect(created).To(HaveKeyWithValue("date", "2024-03-15T12:00:00Z"))

		var stored expenseDatamodel.Expense
		Expect(db.First(&stored).Error).To(Succeed())
		Expect(stored.AmountCents).To(Equal(int64(1250)))
	})

	It("accepts the amount as a decimal string", func() {
		w := post(`"7.25"`, "2024-03-15")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"amount":7.25`))
	})

	It("answers 400 CATEGORY_NOT_FOUND for an unknown category and inserts nothing", func() {
		w := do(http.MethodPost, "/expenses", `{"amount":5,"description":"Taxi","categoryId":999,"date":"2024-03-15"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("CATEGORY_NOT_FOUND"))

		var count int64
		Expect(db.Model(&expenseDatamodel.Expense{}).Count(&count).Error).To(Succeed())
		Expect(count).To(BeZero())
	})

	It("answers 400 with field errors for invalid payloads", func() {
		w := do(http.MethodPost, "/expenses", `{"amount":-1,"description":"","categoryId":"x","date":"soon"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body struct {
			Error struct {
				Details struct {
					Errors []struct {
						Field string `json:"field"`
					} `json:"errors"`
				} `json:"details"`
			} `json:"error"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Error.Details.Errors).To(HaveLen(4))
	})

	Describe("GET /expenses", func() {
		BeforeEach(func() {
			for _, date := range []string{
				"2024-02-29T23:59:59.999Z",
				"2024-03-01T00:00:00.000Z",
				"2024-03-31T23:59:59.999Z",
				"2024-04-01T00:00:00.000Z",
			} {
				Expect(post("1", date).Code).To(Equal(http.StatusOK))
			}
		})

		decode := func(w *httptest.ResponseRecorder) []expense.Expense {
			var out []expense.Expense
			Expect(json.Unmarshal(w.Body.Bytes(), &out)).To(Succeed())
			return out
		}

		It("lists everything without a filter", func() {
			w := do(http.MethodGet, "/expenses", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)).To(HaveLen(4))
		})

		It("filters by 1-indexed month with inclusive edges", func() {
			w := do(http.MethodGet, "/expenses?year=2024&month=3", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			march := decode(w)
			Expect(march).To(HaveLen(2))
			Expect(march[0].Date).To(BeTemporally("==", time.Date(2024, 3, 31, 23, 59, 59, 999000000, time.UTC)))
			Expect(march[1].Date).To(BeTemporally("==", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
		})

		It("includes the last millisecond of a leap February", func() {
			w := do(http.MethodGet, "/expenses?year=2024&month=2", "")
			Expect(decode(w)).To(HaveLen(1))
		})

		It("returns an empty array for a month without expenses", func() {
			w := do(http.MethodGet, "/expenses?year=2023&month=12", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(strings.TrimSpace(w.Body.String())).To(Equal("[]"))
		})

		DescribeTable("rejects bad filters",
			func(query string) {
				w := do(http.MethodGet, "/expenses?"+query, "")
				Expect(w.Code).To(Equal(http.StatusBadRequest))
				Expect(w.Body.String()).To(ContainSubstring("INVALID_PERIOD"))
			},
			Entry("year only", "year=2024"),
			Entry("month only", "month=3"),
			Entry("month 0", "year=2024&month=0"),
			Entry("month 13", "year=2024&month=13"),
			Entry("non-numeric year", "year=abc&month=3"),
		)
	})
})
