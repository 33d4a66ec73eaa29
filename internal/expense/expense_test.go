package expense_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense"
)

var _ = Describe("Expense wire format", func() {
	It("exposes decimal amounts and camelCase keys", func() {
		e := expense.FromDataModel(&expenseDatamodel.Expense{
			ID:          9,
			AmountCents: 1250,
			Description: "Lunch",
			CategoryID:  2,
			Date:        time.Date(2024, 3, 15, 12, 0, 0, 123000000, time.UTC),
		})

		raw, err := json.Marshal(e)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(MatchJSON(`{
			"id": 9,
			"amount": 12.50,
			"description": "Lunch",
			"categoryId": 2,
			"date": "2024-03-15T12:00:00.123Z"
		}`))
	})
})
