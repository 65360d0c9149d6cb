package internal_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/egresosapp/egresos-api/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

var _ = Describe("Date", func() {
	Describe("ParseDate", func() {
		It("should parse the plain date form", func() {
			d, err := internal.ParseDate("2025-04-15")

			Expect(err).NotTo(HaveOccurred())
			Expect(d.String()).To(Equal("2025-04-15"))
		})

		It("should accept an RFC3339 timestamp and keep only the date", func() {
			d, err := internal.ParseDate("2025-04-15T18:30:00Z")

			Expect(err).NotTo(HaveOccurred())
			Expect(d.String()).To(Equal("2025-04-15"))
		})

		It("should reject other formats", func() {
			_, err := internal.ParseDate("15/04/2025")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("JSON", func() {
		It("should marshal as YYYY-MM-DD", func() {
			d := internal.NewDate(2025, time.April, 15)

			out, err := json.Marshal(d)

			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal(`"2025-04-15"`))
		})

		It("should marshal the zero value as null", func() {
			out, err := json.Marshal(internal.Date{})

			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal("null"))
		})

		It("should unmarshal null into the zero value", func() {
			var d internal.Date
			Expect(json.Unmarshal([]byte("null"), &d)).To(Succeed())
			Expect(d.IsZero()).To(BeTrue())
		})

		It("should round trip", func() {
			var d internal.Date
			Expect(json.Unmarshal([]byte(`"2025-12-31"`), &d)).To(Succeed())
			Expect(d.String()).To(Equal("2025-12-31"))
		})
	})

	Describe("Scan", func() {
		It("should accept a time.Time and truncate it", func() {
			var d internal.Date
			Expect(d.Scan(time.Date(2025, 4, 15, 18, 30, 0, 0, time.UTC))).To(Succeed())
			Expect(d.String()).To(Equal("2025-04-15"))
		})

		It("should accept driver datetime strings", func() {
			for _, s := range []string{
				"2025-04-15",
				"2025-04-15T00:00:00Z",
				"2025-04-15 00:00:00+00:00",
				"2025-04-15 00:00:00",
			} {
				var d internal.Date
				Expect(d.Scan(s)).To(Succeed(), s)
				Expect(d.String()).To(Equal("2025-04-15"), s)
			}
		})

		It("should accept nil", func() {
			var d internal.Date
			Expect(d.Scan(nil)).To(Succeed())
			Expect(d.IsZero()).To(BeTrue())
		})
	})
})
