package expense_test

import (
	"testing"
	"time"

	"github.com/egresosapp/egresos-api/internal"
	"github.com/egresosapp/egresos-api/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestExpenseService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Service Suite")
}

var _ = Describe("ScheduleDates", func() {
	date := func(y int, m time.Month, d int) internal.Date {
		return internal.NewDate(y, m, d)
	}

	Context("with a weekly frequency", func() {
		It("should generate one date per week, both ends inclusive", func() {
			dates, err := expense.ScheduleDates(date(2025, 1, 1), date(2025, 1, 22), expense.FrequencySemanal)

			Expect(err).NotTo(HaveOccurred())
			Expect(dates).To(HaveLen(4))
			Expect(dates[0].String()).To(Equal("2025-01-01"))
			Expect(dates[1].String()).To(Equal("2025-01-08"))
			Expect(dates[2].String()).To(Equal("2025-01-15"))
			Expect(dates[3].String()).To(Equal("2025-01-22"))
		})
	})

	Context("with a monthly frequency crossing a year boundary", func() {
		It("should roll into the next year", func() {
			dates, err := expense.ScheduleDates(date(2024, 12, 15), date(2025, 2, 15), expense.FrequencyMensual)

			Expect(err).NotTo(HaveOccurred())
			Expect(dates).To(HaveLen(3))
			Expect(dates[0].String()).To(Equal("2024-12-15"))
			Expect(dates[1].String()).To(Equal("2025-01-15"))
			Expect(dates[2].String()).To(Equal("2025-02-15"))
		})
	})

	Context("with a monthly frequency starting on the 31st", func() {
		It("should overflow into the following month when the target month is shorter", func() {
			dates, err := expense.ScheduleDates(date(2025, 1, 31), date(2025, 3, 31), expense.FrequencyMensual)

			Expect(err).NotTo(HaveOccurred())
			// Jan 31 + 1 month overflows past Feb into Mar 3.
			Expect(dates).To(HaveLen(2))
			Expect(dates[0].String()).To(Equal("2025-01-31"))
			Expect(dates[1].String()).To(Equal("2025-03-03"))
		})
	})

	Context("with a biweekly frequency", func() {
		It("should step fifteen days at a time", func() {
			dates, err := expense.ScheduleDates(date(2025, 3, 1), date(2025, 3, 31), expense.FrequencyQuincenal)

			Expect(err).NotTo(HaveOccurred())
			Expect(dates).To(HaveLen(3))
			Expect(dates[0].String()).To(Equal("2025-03-01"))
			Expect(dates[1].String()).To(Equal("2025-03-16"))
			Expect(dates[2].String()).To(Equal("2025-03-31"))
		})
	})

	Context("with a daily frequency", func() {
		It("should cover every day in the window", func() {
			dates, err := expense.ScheduleDates(date(2025, 5, 1), date(2025, 5, 5), expense.FrequencyDiario)

			Expect(err).NotTo(HaveOccurred())
			Expect(dates).To(HaveLen(5))
		})
	})

	Context("with an annual frequency", func() {
		It("should generate one date per year", func() {
			dates, err := expense.ScheduleDates(date(2023, 7, 1), date(2025, 7, 1), expense.FrequencyAnual)

			Expect(err).NotTo(HaveOccurred())
			Expect(dates).To(HaveLen(3))
			Expect(dates[2].String()).To(Equal("2025-07-01"))
		})
	})

	Context("when the start is after the end", func() {
		It("should yield no dates", func() {
			dates, err := expense.ScheduleDates(date(2025, 6, 1), date(2025, 5, 1), expense.FrequencyMensual)

			Expect(err).NotTo(HaveOccurred())
			Expect(dates).To(BeEmpty())
		})
	})

	Context("with an unknown frequency", func() {
		It("should return an invalid frequency error", func() {
			_, err := expense.ScheduleDates(date(2025, 1, 1), date(2025, 2, 1), expense.Frequency("catorcenal"))

			Expect(err).To(MatchError(internal.ErrInvalidFrequency))
		})
	})
})
