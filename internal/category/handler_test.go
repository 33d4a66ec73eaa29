package category_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/expense-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/expense-tracker/internal/category/postgres"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/testutil"
	"github.com/frahmantamala/expense-tracker/internal/transport"
)

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		service *category.Service
		router  *chi.Mux
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodeError := func(w *httptest.ResponseRecorder) errorBody {
		var body errorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = testutil.NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(testutil.Close, db)

		repo := categoryPostgres.NewCategoryRepository(db)
		service = category.NewService(repo, nil, slogger, time.Second)
		handler := category.NewHandler(transport.NewBaseHandler(slogger, false), service)

		router = chi.NewRouter()
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)
	})

	It("lists categories ordered by name", func() {
		Expect(do(http.MethodPost, "/categories", `{"name":"Transport"}`).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodPost, "/categories", `{"name":"Food"}`).Code).To(Equal(http.StatusOK))

		w := do(http.MethodGet, "/categories", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var categories []category.Category
		Expect(json.NewDecoder(w.Body).Decode(&categories)).To(Succeed())
		Expect(categories).To(HaveLen(2))
		Expect(categories[0].Name).To(Equal("Food"))
		Expect(categories[1].Name).To(Equal("Transport"))
	})

	It("returns an empty JSON array when there are no categories", func() {
		w := do(http.MethodGet, "/categories", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(strings.TrimSpace(w.Body.String())).To(Equal("[]"))
	})

	It("creates a category and returns it with its id", func() {
		w := do(http.MethodPost, "/categories", `{"name":"Food"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var created category.Category
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))
		Expect(created.Name).To(Equal("Food"))
	})

	It("answers 409 for a duplicate name and stores only one row", func() {
		Expect(do(http.MethodPost, "/categories", `{"name":"Food"}`).Code).To(Equal(http.StatusOK))

		w := do(http.MethodPost, "/categories", `{"name":"Food"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(decodeError(w).Error.Code).To(Equal("CATEGORY_NAME_TAKEN"))

		categories, err := service.ListCategories(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(categories).To(HaveLen(1))
	})

	It("answers 400 for an invalid body", func() {
		Expect(do(http.MethodPost, "/categories", `{"name":""}`).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPost, "/categories", `not json`).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPost, "/categories", `["Food"]`).Code).To(Equal(http.StatusBadRequest))

		w := do(http.MethodPost, "/categories", `{"name":42}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w).Error.Type).To(Equal("VALIDATION_ERROR"))
	})

	Describe("DELETE /categories/{id}", func() {
		var food category.Category

		BeforeEach(func() {
			w := do(http.MethodPost, "/categories", `{"name":"Food"}`)
			Expect(json.NewDecoder(w.Body).Decode(&food)).To(Succeed())
		})

		It("deletes an unreferenced category", func() {
			w := do(http.MethodDelete, "/categories/"+itoa(food.ID), "")
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(w.Body.Len()).To(BeZero())

			categories, _ := service.ListCategories(context.Background())
			Expect(categories).To(BeEmpty())
		})

		It("answers 404 for an unknown id", func() {
			w := do(http.MethodDelete, "/categories/999", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decodeError(w).Error.Code).To(Equal("CATEGORY_NOT_FOUND"))
		})

		It("answers 400 for a malformed id", func() {
			Expect(do(http.MethodDelete, "/categories/abc", "").Code).To(Equal(http.StatusBadRequest))
			Expect(do(http.MethodDelete, "/categories/0", "").Code).To(Equal(http.StatusBadRequest))
		})

		It("answers 409 while an expense references it", func() {
			Expect(db.Create(&expenseDatamodel.Expense{
				AmountCents: 1250,
				Description: "Lunch",
				CategoryID:  food.ID,
				Date:        time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			}).Error).To(Succeed())

			w := do(http.MethodDelete, "/categories/"+itoa(food.ID), "")
			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(decodeError(w).Error.Code).To(Equal("CATEGORY_IN_USE"))

			categories, _ := service.ListCategories(context.Background())
			Expect(categories).To(HaveLen(1))
		})
	})
})
