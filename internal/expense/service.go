package expense

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/egresosapp/egresos-api/internal"
	"github.com/shopspring/decimal"
)

// CategoryChecker verifies that a category exists before an egreso is
// attached to it.
type CategoryChecker interface {
	Exists(id int64) (bool, error)
}

// Service handles egreso business logic
type Service struct {
	repo       Repository
	categories CategoryChecker
	logger     *slog.Logger
}

func NewService(repo Repository, categories CategoryChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		logger:     logger,
	}
}

// CreateExpense registers an egreso. A periodic one is expanded into one
// row per occurrence between fecha_inicio and fecha_fin.
func (s *Service) CreateExpense(usuarioID int64, dto CreateExpenseDTO) ([]*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err, "usuario_id", usuarioID)
		return nil, err
	}

	exists, err := s.categories.Exists(dto.CategoriaID)
	if err != nil {
		s.logger.Error("failed to check category", "error", err, "categoria_id", dto.CategoriaID)
		return nil, internal.NewInternalError("error al verificar la categoría", err)
	}
	if !exists {
		return nil, internal.ErrCategoryNotFound
	}

	dates := []internal.Date{dto.Fecha}
	if dto.EsPeriodico && dto.Frecuencia != nil && dto.FechaInicio != nil && dto.FechaFin != nil {
		dates, err = ScheduleDates(*dto.FechaInicio, *dto.FechaFin, Frequency(*dto.Frecuencia))
		if err != nil {
			return nil, err
		}
	}

	estado := dto.Estado
	if estado == "" {
		estado = StatusPendiente
	}

	now := time.Now()
	expenses := make([]*Expense, 0, len(dates))
	for _, fecha := range dates {
		expenses = append(expenses, &Expense{
			UsuarioID:   usuarioID,
			CategoriaID: dto.CategoriaID,
			Descripcion: dto.Descripcion,
			Monto:       dto.Monto,
			Fecha:       fecha,
			EsPeriodico: dto.EsPeriodico,
			Frecuencia:  dto.Frecuencia,
			FechaInicio: dto.FechaInicio,
			FechaFin:    dto.FechaFin,
			Estado:      estado,
			Notas:       dto.Notas,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if len(expenses) > 0 {
		if err := s.repo.CreateBatch(expenses); err != nil {
			s.logger.Error("failed to create expenses", "error", err, "usuario_id", usuarioID)
			return nil, internal.NewInternalError("error al registrar el egreso", err)
		}
	}

	s.logger.Info("expenses created",
		"usuario_id", usuarioID,
		"count", len(expenses),
		"es_periodico", dto.EsPeriodico)

	return expenses, nil
}

// List retrieves the user's egresos applying the estado, tipo de egreso
// and periodo filters. The "todos" sentinel disables a dimension.
func (s *Service) List(usuarioID int64, filter ListFilter) ([]*ExpenseWithCategory, error) {
	q := ListQuery{UsuarioID: usuarioID}

	if filter.Estado != "" && filter.Estado != FilterAll {
		if !isValidStatus(filter.Estado) {
			return nil, internal.NewValidationError("estado no reconocido", internal.ErrCodeInvalidStatus)
		}
		q.Estado = filter.Estado
	}

	if filter.TipoEgresoID != "" && filter.TipoEgresoID != FilterAll {
		id, err := parsePositiveID(filter.TipoEgresoID)
		if err != nil {
			return nil, internal.NewValidationError("tipoEgresoId debe ser un número válido", internal.ErrCodeValidationFailed)
		}
		q.TipoEgresoID = id
	}

	if filter.Periodo != "" && filter.Periodo != FilterAll {
		if err := s.applyPeriod(&q, filter); err != nil {
			return nil, err
		}
	}

	return s.repo.List(q)
}

func (s *Service) applyPeriod(q *ListQuery, filter ListFilter) error {
	today := internal.Today()

	switch filter.Periodo {
	case PeriodVencidos:
		to := today
		q.To = &to
		q.OverdueOnly = true
	case PeriodProximos:
		from := today
		to := internal.DateOf(today.AddDate(0, 0, 7))
		q.From = &from
		q.To = &to
	case PeriodMes:
		from, to := monthWindow(int(today.Month()), today.Year())
		q.From = &from
		q.To = &to
	case PeriodPersonalizado:
		if filter.Mes < 1 || filter.Mes > 12 || filter.Anio == 0 {
			return internal.NewValidationError("mes y año son requeridos para el período personalizado", internal.ErrCodeInvalidPeriod)
		}
		from, to := monthWindow(filter.Mes, filter.Anio)
		q.From = &from
		q.To = &to
	default:
		return internal.NewValidationError("período no reconocido", internal.ErrCodeInvalidPeriod)
	}

	return nil
}

// GetMonth returns the egresos of a calendar month, excluding parcializado
// rows so split originals are not double counted.
func (s *Service) GetMonth(usuarioID int64, mes, anio int) ([]*ExpenseWithCategory, error) {
	if mes < 1 || mes > 12 || anio == 0 {
		return nil, internal.NewValidationError("mes y año son requeridos", internal.ErrCodeInvalidPeriod)
	}

	from, to := monthWindow(mes, anio)
	return s.repo.ListForMonth(usuarioID, from, to)
}

// MonthlyStats aggregates the month per category.
func (s *Service) MonthlyStats(usuarioID int64, mes, anio int) ([]*CategoryStats, error) {
	if mes < 1 || mes > 12 || anio == 0 {
		return nil, internal.NewValidationError("mes y año son requeridos", internal.ErrCodeInvalidPeriod)
	}

	from, to := monthWindow(mes, anio)
	return s.repo.MonthlyStats(usuarioID, from, to)
}

// AnnualReport returns the year's egresos with category info, excluding
// parcializado rows.
func (s *Service) AnnualReport(usuarioID int64, anio int) ([]*ExpenseWithCategory, error) {
	if anio == 0 {
		return nil, internal.NewValidationError("año es requerido", internal.ErrCodeInvalidPeriod)
	}

	from := internal.NewDate(anio, time.January, 1)
	to := internal.NewDate(anio, time.December, 31)
	return s.repo.ListForYear(usuarioID, from, to)
}

// UpdateExpense applies a partial update after checking ownership.
func (s *Service) UpdateExpense(id, usuarioID int64, dto UpdateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changes := dto.Changes()
	if len(changes) == 0 {
		return nil, internal.ErrEmptyUpdate
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing.UsuarioID != usuarioID {
		s.logger.Warn("unauthorized expense update", "egreso_id", id, "usuario_id", usuarioID)
		return nil, internal.ErrUnauthorizedAccess
	}

	updated, err := s.repo.Update(id, changes)
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense updated", "egreso_id", id, "usuario_id", usuarioID)
	return updated, nil
}

// DeleteExpense removes an egreso after checking ownership.
func (s *Service) DeleteExpense(id, usuarioID int64) (*Expense, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing.UsuarioID != usuarioID {
		s.logger.Warn("unauthorized expense delete", "egreso_id", id, "usuario_id", usuarioID)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := s.repo.Delete(id); err != nil {
		return nil, err
	}

	s.logger.Info("expense deleted", "egreso_id", id, "usuario_id", usuarioID)
	return existing, nil
}

// PartialPayment splits an egreso: an abono row marked pagado for the paid
// amount, a saldo pendiente row for the remainder keeping the recurrence
// metadata, and the original marked parcializado. All three writes happen
// in one transaction.
func (s *Service) PartialPayment(id, usuarioID int64, dto PartialPaymentDTO) (*Expense, error) {
	original, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if original.UsuarioID != usuarioID {
		s.logger.Warn("unauthorized partial payment", "egreso_id", id, "usuario_id", usuarioID)
		return nil, internal.ErrUnauthorizedAccess
	}

	if original.Estado == StatusPagado || original.Estado == StatusParcializado {
		return nil, internal.NewValidationError("el egreso ya fue pagado o parcializado", internal.ErrCodeInvalidStatus)
	}

	paid := dto.Monto
	if paid.LessThanOrEqual(decimal.Zero) || paid.GreaterThanOrEqual(original.Monto) {
		return nil, internal.ErrInvalidAmount
	}

	remaining := original.Monto.Sub(paid)

	abonoNotas := fmt.Sprintf("Abono de pago parcial. Monto original: %s", original.Monto.String())
	abono := &Expense{
		UsuarioID:   original.UsuarioID,
		CategoriaID: original.CategoriaID,
		Descripcion: original.Descripcion + " (Abono)",
		Monto:       paid,
		Fecha:       original.Fecha,
		EsPeriodico: false,
		Estado:      StatusPagado,
		Notas:       &abonoNotas,
	}

	saldoNotas := fmt.Sprintf("Saldo pendiente de pago parcial. Monto original: %s, abonado: %s",
		original.Monto.String(), paid.String())
	saldo := &Expense{
		UsuarioID:   original.UsuarioID,
		CategoriaID: original.CategoriaID,
		Descripcion: original.Descripcion + " (Saldo pendiente)",
		Monto:       remaining,
		Fecha:       original.Fecha,
		EsPeriodico: original.EsPeriodico,
		Frecuencia:  original.Frecuencia,
		FechaInicio: original.FechaInicio,
		FechaFin:    original.FechaFin,
		Estado:      StatusPendiente,
		Notas:       &saldoNotas,
	}

	originalNotas := fmt.Sprintf("Parcializado - Abonado: %s, Saldo: %s.", paid.String(), remaining.String())
	if original.Notas != nil && *original.Notas != "" {
		originalNotas = originalNotas + " " + *original.Notas
	}

	if err := s.repo.SplitPartialPayment(id, abono, saldo, originalNotas); err != nil {
		s.logger.Error("partial payment failed", "error", err, "egreso_id", id)
		return nil, err
	}

	s.logger.Info("partial payment processed",
		"egreso_id", id,
		"usuario_id", usuarioID,
		"abonado", paid.String(),
		"saldo", remaining.String())

	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SumForPeriod totals the user's egresos in a date window, excluding
// parcializado rows. Used by the monthly budget computation.
func (s *Service) SumForPeriod(usuarioID int64, from, to internal.Date) (decimal.Decimal, error) {
	return s.repo.SumForPeriod(usuarioID, from, to)
}

func monthWindow(mes, anio int) (internal.Date, internal.Date) {
	from := internal.NewDate(anio, time.Month(mes), 1)
	to := internal.DateOf(from.AddDate(0, 1, -1))
	return from, to
}

func isValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func parsePositiveID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
