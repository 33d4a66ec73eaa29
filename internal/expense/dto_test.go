package expense_test

import (
	"encoding/json"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/period"
	"github.com/frahmantamala/expense-tracker/internal/expense"
)

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"amount":      json.Number("12.50"),
		"description": "Lunch",
		"categoryId":  json.Number("1"),
		"date":        "2024-03-15T12:30:00.000Z",
	}
}

func with(key string, value interface{}) map[string]interface{} {
	payload := validPayload()
	if value == nil {
		delete(payload, key)
	} else {
		payload[key] = value
	}
	return payload
}

func fieldErrors(err *appErrors.AppError) map[string]string {
	Expect(err).NotTo(BeNil())
	details, ok := err.Details.(appErrors.ValidationErrors)
	Expect(ok).To(BeTrue())
	return details.Fields()
}

var _ = Describe("ParseExpense", func() {
	It("converts a valid payload", func() {
		dto, err := expense.ParseExpense(validPayload())
		Expect(err).To(BeNil())
		Expect(dto.AmountCents).To(Equal(int64(1250)))
		Expect(dto.Description).To(Equal("Lunch"))
		Expect(dto.CategoryID).To(Equal(int64(1)))
		Expect(dto.Date).To(BeTemporally("==", time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)))
	})

	DescribeTable("amount coercion",
		func(raw interface{}, cents int64) {
			dto, err := expense.ParseExpense(with("amount", raw))
			Expect(err).To(BeNil())
			Expect(dto.AmountCents).To(Equal(cents))
		},
		Entry("decimal number", json.Number("12.5"), int64(1250)),
		Entry("integer number", json.Number("7"), int64(700)),
		Entry("decimal string", "12.50", int64(1250)),
		Entry("trailing dot", "3.", int64(300)),
		Entry("one cent", json.Number("0.01"), int64(1)),
		Entry("rounds half away from zero", json.Number("1.005"), int64(101)),
	)

	DescribeTable("rejects bad amounts",
		func(raw interface{}) {
			_, err := expense.ParseExpense(with("amount", raw))
			Expect(fieldErrors(err)).To(HaveKey("amount"))
		},
		Entry("missing", nil),
		Entry("zero", json.Number("0")),
		Entry("negative", json.Number("-5")),
		Entry("below a cent", json.Number("0.004")),
		Entry("signed string", "-1"),
		Entry("currency string", "$12"),
		Entry("thousands separator", "1,000"),
		Entry("boolean", true),
		Entry("too large", json.Number("1e30")),
		Entry("huge exponent", json.Number("1e2000000000")),
		Entry("tiny exponent", json.Number("1e-2000000000")),
		Entry("zero with tiny exponent", json.Number("0e-2000000000")),
	)

	DescribeTable("description rules",
		func(raw interface{}, valid bool) {
			_, err := expense.ParseExpense(with("description", raw))
			if valid {
				Expect(err).To(BeNil())
			} else {
				Expect(fieldErrors(err)).To(HaveKey("description"))
			}
		},
		Entry("missing", nil, false),
		Entry("blank", "   ", false),
		Entry("number", json.Number("3"), false),
		Entry("at the limit", strings.Repeat("x", expense.MaxDescriptionLength), true),
		Entry("over the limit", strings.Repeat("x", expense.MaxDescriptionLength+1), false),
	)

	DescribeTable("categoryId coercion",
		func(raw interface{}, id int64) {
			dto, err := expense.ParseExpense(with("categoryId", raw))
			if id == 0 {
				Expect(fieldErrors(err)).To(HaveKey("categoryId"))
				return
			}
			Expect(err).To(BeNil())
			Expect(dto.CategoryID).To(Equal(id))
		},
		Entry("number", json.Number("4"), int64(4)),
		Entry("digit string", "42", int64(42)),
		Entry("integral float", json.Number("3.0"), int64(3)),
		Entry("zero", json.Number("0"), int64(0)),
		Entry("negative", json.Number("-2"), int64(0)),
		Entry("fraction", json.Number("1.5"), int64(0)),
		Entry("word", "food", int64(0)),
		Entry("missing", nil, int64(0)),
		Entry("huge exponent", json.Number("1e2000000000"), int64(0)),
		Entry("tiny exponent", json.Number("1e-2000000000"), int64(0)),
		Entry("zero with tiny exponent", json.Number("0e-2000000000"), int64(0)),
	)

	DescribeTable("date formats",
		func(raw interface{}, want time.Time) {
			dto, err := expense.ParseExpense(with("date", raw))
			if want.IsZero() {
				Expect(fieldErrors(err)).To(HaveKey("date"))
				return
			}
			Expect(err).To(BeNil())
			Expect(dto.Date).To(BeTemporally("==", want))
			Expect(dto.Date.Location()).To(Equal(time.UTC))
		},
		Entry("RFC 3339 with millis", "2024-03-31T23:59:59.999Z", time.Date(2024, 3, 31, 23, 59, 59, 999000000, time.UTC)),
		Entry("RFC 3339 with offset", "2024-03-31T22:00:00-05:00", time.Date(2024, 4, 1, 3, 0, 0, 0, time.UTC)),
		Entry("no zone", "2024-03-15T08:00:00", time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)),
		Entry("calendar date", "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)),
		Entry("space separated", "2024-03-15 08:00:00", time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)),
		Entry("epoch millis", json.Number("1710505800000"), time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)),
		Entry("sub-millisecond precision", "2024-03-15T08:00:00.1234567Z", time.Date(2024, 3, 15, 8, 0, 0, 123000000, time.UTC)),
		Entry("garbage", "next tuesday", time.Time{}),
		Entry("impossible date", "2023-02-29", time.Time{}),
		Entry("missing", nil, time.Time{}),
	)

	It("keeps the last instant of a month inside that month", func() {
		dto, err := expense.ParseExpense(with("date", "2024-03-31T23:59:59.9995Z"))
		Expect(err).To(BeNil())

		march, _ := period.NewMonth(2024, 3)
		start, end := march.Range()
		Expect(dto.Date).To(BeTemporally(">=", start))
		Expect(dto.Date).To(BeTemporally("<=", end))
	})

	It("reports every failing field at once", func() {
		_, err := expense.ParseExpense(map[string]interface{}{
			"amount":      json.Number("0"),
			"description": "",
			"categoryId":  "x",
			"date":        "nope",
		})
		Expect(err.StatusCode).To(Equal(400))
		Expect(err.Code).To(Equal(appErrors.ErrCodeValidationFailed))
		Expect(fieldErrors(err)).To(HaveLen(4))
		Expect(fieldErrors(err)).To(HaveKey("amount"))
		Expect(fieldErrors(err)).To(HaveKey("description"))
		Expect(fieldErrors(err)).To(HaveKey("categoryId"))
		Expect(fieldErrors(err)).To(HaveKey("date"))
	})
})
