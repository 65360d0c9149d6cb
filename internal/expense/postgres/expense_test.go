package postgres_test

import (
	"testing"

	"github.com/egresosapp/egresos-api/internal"
	"github.com/egresosapp/egresos-api/internal/category"
	"github.com/egresosapp/egresos-api/internal/expense"
	expensePostgres "github.com/egresosapp/egresos-api/internal/expense/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func TestExpenseRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Repository Suite")
}

var _ = Describe("Expense Repository", func() {
	var (
		db   *gorm.DB
		repo expense.Repository
	)

	money := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		Expect(err).NotTo(HaveOccurred())
		return d
	}

	date := func(s string) internal.Date {
		d, err := internal.ParseDate(s)
		Expect(err).NotTo(HaveOccurred())
		return d
	}

	seed := func(descripcion string, monto, fecha, estado string, categoriaID int64) *expense.Expense {
		e := &expense.Expense{
			UsuarioID:   7,
			CategoriaID: categoriaID,
			Descripcion: descripcion,
			Monto:       money(monto),
			Fecha:       date(fecha),
			Estado:      estado,
		}
		Expect(db.Create(e).Error).NotTo(HaveOccurred())
		return e
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&category.TipoEgreso{}, &category.Categoria{}, &expense.Expense{})
		Expect(err).NotTo(HaveOccurred())

		tipoFijo := &category.TipoEgreso{Nombre: "Fijo"}
		tipoVariable := &category.TipoEgreso{Nombre: "Variable"}
		Expect(db.Create(tipoFijo).Error).NotTo(HaveOccurred())
		Expect(db.Create(tipoVariable).Error).NotTo(HaveOccurred())

		Expect(db.Create(&category.Categoria{Nombre: "Arriendo", TipoEgresoID: tipoFijo.ID, Color: "#EF4444", Icono: "home-outline"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&category.Categoria{Nombre: "Mercado", TipoEgresoID: tipoVariable.ID, Color: "#10B981", Icono: "cart-outline"}).Error).NotTo(HaveOccurred())

		repo = expensePostgres.NewExpenseRepository(db)
	})

	Describe("List", func() {
		BeforeEach(func() {
			seed("Arriendo abril", "1200000", "2025-04-01", expense.StatusPendiente, 1)
			seed("Mercado semana 1", "150000", "2025-04-03", expense.StatusPagado, 2)
			seed("Mercado semana 2", "180000", "2025-04-10", expense.StatusPendiente, 2)
		})

		It("should return only the user's rows with category names", func() {
			other := &expense.Expense{
				UsuarioID:   99,
				CategoriaID: 1,
				Descripcion: "Ajeno",
				Monto:       money("10"),
				Fecha:       date("2025-04-01"),
				Estado:      expense.StatusPendiente,
			}
			Expect(db.Create(other).Error).NotTo(HaveOccurred())

			rows, err := repo.List(expense.ListQuery{UsuarioID: 7})

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
			for _, r := range rows {
				Expect(r.UsuarioID).To(Equal(int64(7)))
				Expect(r.CategoriaNombre).NotTo(BeNil())
			}
		})

		It("should filter by estado", func() {
			rows, err := repo.List(expense.ListQuery{UsuarioID: 7, Estado: expense.StatusPagado})

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Descripcion).To(Equal("Mercado semana 1"))
		})

		It("should filter by tipo de egreso through the category join", func() {
			rows, err := repo.List(expense.ListQuery{UsuarioID: 7, TipoEgresoID: 2})

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})

		It("should exclude settled rows when listing overdue", func() {
			to := date("2025-04-05")
			rows, err := repo.List(expense.ListQuery{UsuarioID: 7, To: &to, OverdueOnly: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Descripcion).To(Equal("Arriendo abril"))
		})

		It("should bound by the date window", func() {
			from := date("2025-04-05")
			to := date("2025-04-30")
			rows, err := repo.List(expense.ListQuery{UsuarioID: 7, From: &from, To: &to})

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Descripcion).To(Equal("Mercado semana 2"))
		})
	})

	Describe("SplitPartialPayment", func() {
		It("should create both rows and mark the original in one go", func() {
			original := seed("Arriendo abril", "100", "2025-04-01", expense.StatusPendiente, 1)

			paid := &expense.Expense{
				UsuarioID:   7,
				CategoriaID: 1,
				Descripcion: "Arriendo abril (Abono)",
				Monto:       money("40"),
				Fecha:       original.Fecha,
				Estado:      expense.StatusPagado,
			}
			pending := &expense.Expense{
				UsuarioID:   7,
				CategoriaID: 1,
				Descripcion: "Arriendo abril (Saldo pendiente)",
				Monto:       money("60"),
				Fecha:       original.Fecha,
				Estado:      expense.StatusPendiente,
			}

			err := repo.SplitPartialPayment(original.ID, paid, pending, "Parcializado - Abonado: 40, Saldo: 60.")
			Expect(err).NotTo(HaveOccurred())

			var count int64
			Expect(db.Model(&expense.Expense{}).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(3)))

			reloaded, err := repo.GetByID(original.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.Estado).To(Equal(expense.StatusParcializado))
			Expect(*reloaded.Notas).To(ContainSubstring("Abonado: 40"))
		})

		It("should fail when the original does not exist", func() {
			paid := &expense.Expense{UsuarioID: 7, CategoriaID: 1, Descripcion: "x (Abono)", Monto: money("1"), Fecha: date("2025-04-01"), Estado: expense.StatusPagado}
			pending := &expense.Expense{UsuarioID: 7, CategoriaID: 1, Descripcion: "x (Saldo pendiente)", Monto: money("1"), Fecha: date("2025-04-01"), Estado: expense.StatusPendiente}

			err := repo.SplitPartialPayment(12345, paid, pending, "notas")

			Expect(err).To(MatchError(internal.ErrExpenseNotFound))

			// the inserts rolled back with the failed update
			var count int64
			Expect(db.Model(&expense.Expense{}).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})

	Describe("SumForPeriod", func() {
		It("should total the window excluding parcializado rows", func() {
			seed("Arriendo", "100", "2025-04-01", expense.StatusParcializado, 1)
			seed("Arriendo (Abono)", "40", "2025-04-01", expense.StatusPagado, 1)
			seed("Arriendo (Saldo pendiente)", "60", "2025-04-01", expense.StatusPendiente, 1)
			seed("Mercado", "50", "2025-05-01", expense.StatusPendiente, 2)

			total, err := repo.SumForPeriod(7, date("2025-04-01"), date("2025-04-30"))

			Expect(err).NotTo(HaveOccurred())
			Expect(total.Equal(money("100"))).To(BeTrue())
		})
	})

	Describe("ListForMonth", func() {
		It("should exclude parcializado rows and include type names", func() {
			seed("Arriendo", "100", "2025-04-01", expense.StatusParcializado, 1)
			seed("Arriendo (Abono)", "40", "2025-04-01", expense.StatusPagado, 1)

			rows, err := repo.ListForMonth(7, date("2025-04-01"), date("2025-04-30"))

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Descripcion).To(Equal("Arriendo (Abono)"))
			Expect(rows[0].TipoEgresoNombre).NotTo(BeNil())
			Expect(*rows[0].TipoEgresoNombre).To(Equal("Fijo"))
		})
	})

	Describe("MonthlyStats", func() {
		It("should aggregate per category over the month", func() {
			seed("Arriendo", "1000", "2025-04-01", expense.StatusPagado, 1)
			seed("Mercado 1", "100", "2025-04-03", expense.StatusPagado, 2)
			seed("Mercado 2", "200", "2025-04-10", expense.StatusPendiente, 2)
			seed("Fuera del mes", "999", "2025-05-01", expense.StatusPendiente, 2)

			stats, err := repo.MonthlyStats(7, date("2025-04-01"), date("2025-04-30"))

			Expect(err).NotTo(HaveOccurred())
			Expect(stats).To(HaveLen(2))

			// ordered by monto_total descending
			Expect(stats[0].CategoriaNombre).To(Equal("Arriendo"))
			Expect(stats[0].MontoTotal.Equal(money("1000"))).To(BeTrue())
			Expect(stats[0].CantidadPagados).To(Equal(int64(1)))

			Expect(stats[1].CategoriaNombre).To(Equal("Mercado"))
			Expect(stats[1].CantidadEgresos).To(Equal(int64(2)))
			Expect(stats[1].MontoPagado.Equal(money("100"))).To(BeTrue())
			Expect(stats[1].MontoPendiente.Equal(money("200"))).To(BeTrue())
		})
	})

	Describe("Update", func() {
		It("should apply only the given changes", func() {
			e := seed("Internet", "80000", "2025-04-05", expense.StatusPendiente, 1)

			updated, err := repo.Update(e.ID, map[string]interface{}{"estado": expense.StatusPagado})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Estado).To(Equal(expense.StatusPagado))
			Expect(updated.Descripcion).To(Equal("Internet"))
		})

		It("should report a missing row", func() {
			_, err := repo.Update(999, map[string]interface{}{"estado": expense.StatusPagado})
			Expect(err).To(MatchError(internal.ErrExpenseNotFound))
		})
	})

	Describe("Delete", func() {
		It("should remove the row", func() {
			e := seed("Internet", "80000", "2025-04-05", expense.StatusPendiente, 1)

			Expect(repo.Delete(e.ID)).To(Succeed())

			_, err := repo.GetByID(e.ID)
			Expect(err).To(MatchError(internal.ErrExpenseNotFound))
		})

		It("should report a missing row", func() {
			Expect(repo.Delete(999)).To(MatchError(internal.ErrExpenseNotFound))
		})
	})
})
