package expense_test

import (
	"log/slog"
	"os"
	"time"

	"github.com/egresosapp/egresos-api/internal"
	"github.com/egresosapp/egresos-api/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

// MockRepository implements expense.Repository for testing
type MockRepository struct {
	expenses  map[int64]*expense.Expense
	nextID    int64
	lastQuery *expense.ListQuery
	lastSplit *splitCall
	failErr   error
}

type splitCall struct {
	originalID int64
	paid       *expense.Expense
	pending    *expense.Expense
	notes      string
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		expenses: make(map[int64]*expense.Expense),
		nextID:   1,
	}
}

func (m *MockRepository) add(e *expense.Expense) *expense.Expense {
	e.ID = m.nextID
	m.nextID++
	m.expenses[e.ID] = e
	return e
}

func (m *MockRepository) CreateBatch(expenses []*expense.Expense) error {
	if m.failErr != nil {
		return m.failErr
	}
	for _, e := range expenses {
		m.add(e)
	}
	return nil
}

func (m *MockRepository) GetByID(id int64) (*expense.Expense, error) {
	if e, ok := m.expenses[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, internal.ErrExpenseNotFound
}

func (m *MockRepository) List(q expense.ListQuery) ([]*expense.ExpenseWithCategory, error) {
	m.lastQuery = &q
	return []*expense.ExpenseWithCategory{}, nil
}

func (m *MockRepository) ListForMonth(usuarioID int64, from, to internal.Date) ([]*expense.ExpenseWithCategory, error) {
	return []*expense.ExpenseWithCategory{}, nil
}

func (m *MockRepository) ListForYear(usuarioID int64, from, to internal.Date) ([]*expense.ExpenseWithCategory, error) {
	return []*expense.ExpenseWithCategory{}, nil
}

func (m *MockRepository) MonthlyStats(usuarioID int64, from, to internal.Date) ([]*expense.CategoryStats, error) {
	return []*expense.CategoryStats{}, nil
}

func (m *MockRepository) Update(id int64, changes map[string]interface{}) (*expense.Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return nil, internal.ErrExpenseNotFound
	}
	if estado, ok := changes["estado"].(string); ok {
		e.Estado = estado
	}
	if monto, ok := changes["monto"].(decimal.Decimal); ok {
		e.Monto = monto
	}
	copied := *e
	return &copied, nil
}

func (m *MockRepository) Delete(id int64) error {
	if _, ok := m.expenses[id]; !ok {
		return internal.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}

func (m *MockRepository) SplitPartialPayment(originalID int64, paid, pending *expense.Expense, notes string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.lastSplit = &splitCall{originalID: originalID, paid: paid, pending: pending, notes: notes}
	m.add(paid)
	m.add(pending)
	original := m.expenses[originalID]
	original.Estado = expense.StatusParcializado
	original.Notas = &notes
	return nil
}

func (m *MockRepository) SumForPeriod(usuarioID int64, from, to internal.Date) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

// MockCategoryChecker implements expense.CategoryChecker
type MockCategoryChecker struct {
	known map[int64]bool
}

func (m *MockCategoryChecker) Exists(id int64) (bool, error) {
	return m.known[id], nil
}

var _ = Describe("Expense Service", func() {
	var (
		repo    *MockRepository
		cats    *MockCategoryChecker
		service *expense.Service
	)

	money := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		Expect(err).NotTo(HaveOccurred())
		return d
	}

	BeforeEach(func() {
		repo = NewMockRepository()
		cats = &MockCategoryChecker{known: map[int64]bool{1: true, 2: true}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = expense.NewService(repo, cats, logger)
	})

	Describe("CreateExpense", func() {
		Context("with a one-off expense", func() {
			It("should create a single pending row", func() {
				// Given a valid non-periodic payload
				dto := expense.CreateExpenseDTO{
					Descripcion: "Mercado semanal",
					Monto:       money("150000"),
					Fecha:       internal.NewDate(2025, 4, 10),
					CategoriaID: 1,
				}

				// When creating the expense
				created, err := service.CreateExpense(7, dto)

				// Then exactly one pending row exists
				Expect(err).NotTo(HaveOccurred())
				Expect(created).To(HaveLen(1))
				Expect(created[0].Estado).To(Equal(expense.StatusPendiente))
				Expect(created[0].UsuarioID).To(Equal(int64(7)))
				Expect(created[0].Monto.Equal(money("150000"))).To(BeTrue())
			})
		})

		Context("with a weekly periodic expense", func() {
			It("should create one row per occurrence", func() {
				freq := string(expense.FrequencySemanal)
				inicio := internal.NewDate(2025, 1, 1)
				fin := internal.NewDate(2025, 1, 22)
				dto := expense.CreateExpenseDTO{
					Descripcion: "Clase de piano",
					Monto:       money("50"),
					Fecha:       inicio,
					CategoriaID: 1,
					EsPeriodico: true,
					Frecuencia:  &freq,
					FechaInicio: &inicio,
					FechaFin:    &fin,
				}

				created, err := service.CreateExpense(7, dto)

				Expect(err).NotTo(HaveOccurred())
				Expect(created).To(HaveLen(4))
				for _, e := range created {
					Expect(e.EsPeriodico).To(BeTrue())
					Expect(*e.Frecuencia).To(Equal(freq))
					Expect(e.Monto.Equal(money("50"))).To(BeTrue())
				}
				Expect(created[3].Fecha.String()).To(Equal("2025-01-22"))
			})
		})

		Context("with an unknown frequency", func() {
			It("should reject the request", func() {
				freq := "cada_luna_llena"
				inicio := internal.NewDate(2025, 1, 1)
				fin := internal.NewDate(2025, 2, 1)
				dto := expense.CreateExpenseDTO{
					Descripcion: "Suscripción",
					Monto:       money("10"),
					Fecha:       inicio,
					CategoriaID: 1,
					EsPeriodico: true,
					Frecuencia:  &freq,
					FechaInicio: &inicio,
					FechaFin:    &fin,
				}

				_, err := service.CreateExpense(7, dto)

				Expect(err).To(MatchError(internal.ErrInvalidFrequency))
			})
		})

		Context("with an unknown category", func() {
			It("should return a category not found error", func() {
				dto := expense.CreateExpenseDTO{
					Descripcion: "Algo",
					Monto:       money("10"),
					Fecha:       internal.NewDate(2025, 4, 10),
					CategoriaID: 99,
				}

				_, err := service.CreateExpense(7, dto)

				Expect(err).To(MatchError(internal.ErrCategoryNotFound))
			})
		})
	})

	Describe("PartialPayment", func() {
		var original *expense.Expense

		BeforeEach(func() {
			freq := string(expense.FrequencyMensual)
			inicio := internal.NewDate(2025, 1, 1)
			fin := internal.NewDate(2025, 12, 1)
			notas := "cuota ordinaria"
			original = repo.add(&expense.Expense{
				UsuarioID:   7,
				CategoriaID: 1,
				Descripcion: "Arriendo",
				Monto:       money("100"),
				Fecha:       internal.NewDate(2025, 4, 1),
				EsPeriodico: true,
				Frecuencia:  &freq,
				FechaInicio: &inicio,
				FechaFin:    &fin,
				Estado:      expense.StatusPendiente,
				Notas:       &notas,
			})
		})

		It("should split the expense into abono and saldo and mark the original", func() {
			// When paying 40 of 100
			updated, err := service.PartialPayment(original.ID, 7, expense.PartialPaymentDTO{Monto: money("40")})

			// Then the split was recorded atomically
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastSplit).NotTo(BeNil())

			paid := repo.lastSplit.paid
			Expect(paid.Descripcion).To(Equal("Arriendo (Abono)"))
			Expect(paid.Monto.Equal(money("40"))).To(BeTrue())
			Expect(paid.Estado).To(Equal(expense.StatusPagado))
			Expect(paid.EsPeriodico).To(BeFalse())
			Expect(paid.Frecuencia).To(BeNil())

			pending := repo.lastSplit.pending
			Expect(pending.Descripcion).To(Equal("Arriendo (Saldo pendiente)"))
			Expect(pending.Monto.Equal(money("60"))).To(BeTrue())
			Expect(pending.Estado).To(Equal(expense.StatusPendiente))
			Expect(pending.EsPeriodico).To(BeTrue())
			Expect(*pending.Frecuencia).To(Equal(string(expense.FrequencyMensual)))

			Expect(repo.lastSplit.notes).To(ContainSubstring("Parcializado - Abonado: 40, Saldo: 60."))
			Expect(repo.lastSplit.notes).To(ContainSubstring("cuota ordinaria"))

			Expect(updated.Estado).To(Equal(expense.StatusParcializado))
		})

		It("should reject a zero or negative payment", func() {
			_, err := service.PartialPayment(original.ID, 7, expense.PartialPaymentDTO{Monto: money("0")})
			Expect(err).To(MatchError(internal.ErrInvalidAmount))

			_, err = service.PartialPayment(original.ID, 7, expense.PartialPaymentDTO{Monto: money("-5")})
			Expect(err).To(MatchError(internal.ErrInvalidAmount))
		})

		It("should reject a payment equal to or above the total", func() {
			_, err := service.PartialPayment(original.ID, 7, expense.PartialPaymentDTO{Monto: money("100")})
			Expect(err).To(MatchError(internal.ErrInvalidAmount))

			_, err = service.PartialPayment(original.ID, 7, expense.PartialPaymentDTO{Monto: money("150")})
			Expect(err).To(MatchError(internal.ErrInvalidAmount))
		})

		It("should reject paying an expense that is not the caller's", func() {
			_, err := service.PartialPayment(original.ID, 8, expense.PartialPaymentDTO{Monto: money("40")})
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		})

		It("should reject paying an already settled expense", func() {
			original.Estado = expense.StatusPagado
			repo.expenses[original.ID] = original

			_, err := service.PartialPayment(original.ID, 7, expense.PartialPaymentDTO{Monto: money("40")})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateExpense", func() {
		var existing *expense.Expense

		BeforeEach(func() {
			existing = repo.add(&expense.Expense{
				UsuarioID:   7,
				CategoriaID: 1,
				Descripcion: "Internet",
				Monto:       money("80000"),
				Fecha:       internal.NewDate(2025, 4, 5),
				Estado:      expense.StatusPendiente,
			})
		})

		It("should apply a status change", func() {
			estado := expense.StatusPagado
			updated, err := service.UpdateExpense(existing.ID, 7, expense.UpdateExpenseDTO{Estado: &estado})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Estado).To(Equal(expense.StatusPagado))
		})

		It("should reject an empty update", func() {
			_, err := service.UpdateExpense(existing.ID, 7, expense.UpdateExpenseDTO{})
			Expect(err).To(MatchError(internal.ErrEmptyUpdate))
		})

		It("should reject an update by another user", func() {
			estado := expense.StatusPagado
			_, err := service.UpdateExpense(existing.ID, 8, expense.UpdateExpenseDTO{Estado: &estado})
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		})

		It("should reject an unknown status", func() {
			estado := "casi_pagado"
			_, err := service.UpdateExpense(existing.ID, 7, expense.UpdateExpenseDTO{Estado: &estado})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("List", func() {
		It("should pass through the estado and tipo filters", func() {
			_, err := service.List(7, expense.ListFilter{Estado: "pendiente", TipoEgresoID: "2"})

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastQuery.Estado).To(Equal("pendiente"))
			Expect(repo.lastQuery.TipoEgresoID).To(Equal(int64(2)))
			Expect(repo.lastQuery.From).To(BeNil())
		})

		It("should treat todos as no filter", func() {
			_, err := service.List(7, expense.ListFilter{Estado: "todos", TipoEgresoID: "todos", Periodo: "todos"})

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastQuery.Estado).To(BeEmpty())
			Expect(repo.lastQuery.TipoEgresoID).To(BeZero())
		})

		It("should resolve the proximos period to a seven day window", func() {
			_, err := service.List(7, expense.ListFilter{Periodo: "proximos"})

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastQuery.From).NotTo(BeNil())
			Expect(repo.lastQuery.To).NotTo(BeNil())
			Expect(repo.lastQuery.To.Sub(repo.lastQuery.From.Time)).To(Equal(7 * 24 * time.Hour))
		})

		It("should mark the vencidos period as overdue only", func() {
			_, err := service.List(7, expense.ListFilter{Periodo: "vencidos"})

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastQuery.OverdueOnly).To(BeTrue())
			Expect(repo.lastQuery.To).NotTo(BeNil())
		})

		It("should require mes and año for the personalizado period", func() {
			_, err := service.List(7, expense.ListFilter{Periodo: "personalizado"})
			Expect(err).To(HaveOccurred())

			_, err = service.List(7, expense.ListFilter{Periodo: "personalizado", Mes: 2, Anio: 2025})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastQuery.From.String()).To(Equal("2025-02-01"))
			Expect(repo.lastQuery.To.String()).To(Equal("2025-02-28"))
		})

		It("should reject an unknown estado", func() {
			_, err := service.List(7, expense.ListFilter{Estado: "quizas"})
			Expect(err).To(HaveOccurred())
		})
	})
})
