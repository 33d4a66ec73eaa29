package category_test

import (
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal/category"
	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

var _ = Describe("Category mapping", func() {
	It("round-trips through the data model", func() {
		domain := category.FromDataModel(&categoryDatamodel.Category{ID: 3, Name: "Health"})
		Expect(domain).To(Equal(&category.Category{ID: 3, Name: "Health"}))
		Expect(category.ToDataModel(domain)).To(Equal(&categoryDatamodel.Category{ID: 3, Name: "Health"}))
	})
})
