package category_test

import (
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
)

func fieldErrors(err *appErrors.AppError) map[string]string {
	Expect(err).NotTo(BeNil())
	details, ok := err.Details.(appErrors.ValidationErrors)
	Expect(ok).To(BeTrue())
	return details.Fields()
}

var _ = Describe("ParseCategory", func() {
	It("trims the name", func() {
		dto, err := category.ParseCategory(map[string]interface{}{"name": "  Food  "})
		Expect(err).To(BeNil())
		Expect(dto.Name).To(Equal("Food"))
	})

	DescribeTable("rejects invalid names",
		func(payload map[string]interface{}) {
			_, err := category.ParseCategory(payload)
			Expect(err.StatusCode).To(Equal(400))
			Expect(fieldErrors(err)).To(HaveKey("name"))
		},
		Entry("missing", map[string]interface{}{}),
		Entry("null", map[string]interface{}{"name": nil}),
		Entry("blank", map[string]interface{}{"name": "   "}),
		Entry("not a string", map[string]interface{}{"name": json.Number("12")}),
		Entry("too long", map[string]interface{}{"name": strings.Repeat("a", category.MaxNameLength+1)}),
	)

	It("accepts a name of exactly the maximum length", func() {
		_, err := category.ParseCategory(map[string]interface{}{"name": strings.Repeat("é", category.MaxNameLength)})
		Expect(err).To(BeNil())
	})
})
