package budget

import (
	"errors"
	"log/slog"
	"time"

	"github.com/egresosapp/egresos-api/internal"
	"github.com/shopspring/decimal"
)

// ExpenseSummer totals a user's egresos in a date window. Implemented by
// the expense service.
type ExpenseSummer interface {
	SumForPeriod(usuarioID int64, from, to internal.Date) (decimal.Decimal, error)
}

// ErrBudgetNotFound signals that no explicit allocation exists for the
// month; callers fall back to the default allocation.
var ErrBudgetNotFound = errors.New("no budget for month")

type Service struct {
	repo              Repository
	expenses          ExpenseSummer
	defaultAllocation decimal.Decimal
	logger            *slog.Logger
}

func NewService(repo Repository, expenses ExpenseSummer, defaultAllocation decimal.Decimal, logger *slog.Logger) *Service {
	return &Service{
		repo:              repo,
		expenses:          expenses,
		defaultAllocation: defaultAllocation,
		logger:            logger,
	}
}

// MonthlySummary computes the budget view for a month. Without an explicit
// allocation row, the configured default applies.
func (s *Service) MonthlySummary(usuarioID int64, mes, anio int) (*Summary, error) {
	if mes < 1 || mes > 12 || anio == 0 {
		return nil, internal.NewValidationError("mes y año son requeridos", internal.ErrCodeInvalidPeriod)
	}

	asignado := s.defaultAllocation
	if b, err := s.repo.Get(usuarioID, mes, anio); err == nil {
		asignado = b.Asignado
	} else if !errors.Is(err, ErrBudgetNotFound) {
		s.logger.Error("failed to load budget", "error", err, "usuario_id", usuarioID)
		return nil, internal.NewInternalError("error al obtener el presupuesto", err)
	}

	from := internal.NewDate(anio, time.Month(mes), 1)
	to := internal.DateOf(from.AddDate(0, 1, -1))

	gastado, err := s.expenses.SumForPeriod(usuarioID, from, to)
	if err != nil {
		s.logger.Error("failed to sum expenses", "error", err, "usuario_id", usuarioID)
		return nil, internal.NewInternalError("error al calcular el gasto del mes", err)
	}

	porcentaje := 0.0
	if gastado.IsPositive() && asignado.IsPositive() {
		porcentaje, _ = gastado.Div(asignado).Mul(decimal.NewFromInt(100)).Float64()
	}

	return &Summary{
		Asignado:        asignado,
		TotalGastado:    gastado,
		SaldoDisponible: asignado.Sub(gastado),
		PorcentajeUsado: porcentaje,
		Mes:             mes,
		Anio:            anio,
	}, nil
}

// SetAllocation creates or replaces the month's allocation and returns the
// refreshed summary.
func (s *Service) SetAllocation(usuarioID int64, mes, anio int, asignado decimal.Decimal) (*Summary, error) {
	if mes < 1 || mes > 12 || anio == 0 {
		return nil, internal.NewValidationError("mes y año son requeridos", internal.ErrCodeInvalidPeriod)
	}
	if asignado.LessThanOrEqual(decimal.Zero) {
		return nil, internal.NewValidationError("el presupuesto asignado debe ser mayor a 0", internal.ErrCodeInvalidAmount)
	}

	if err := s.repo.Upsert(&MonthlyBudget{
		UsuarioID: usuarioID,
		Mes:       mes,
		Anio:      anio,
		Asignado:  asignado,
	}); err != nil {
		s.logger.Error("failed to save budget", "error", err, "usuario_id", usuarioID)
		return nil, internal.NewInternalError("error al guardar el presupuesto", err)
	}

	s.logger.Info("budget allocation saved",
		"usuario_id", usuarioID,
		"mes", mes,
		"anio", anio,
		"asignado", asignado.String())

	return s.MonthlySummary(usuarioID, mes, anio)
}
