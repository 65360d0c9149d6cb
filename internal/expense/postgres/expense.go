package postgres

import (
	"errors"
	"time"

	"github.com/egresosapp/egresos-api/internal"
	"github.com/egresosapp/egresos-api/internal/expense"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseRepository implements the expense.Repository interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

// CreateBatch inserts all occurrence rows of an egreso in one transaction.
func (r *ExpenseRepository) CreateBatch(expenses []*expense.Expense) error {
	return r.db.Create(&expenses).Error
}

func (r *ExpenseRepository) GetByID(id int64) (*expense.Expense, error) {
	var exp expense.Expense
	err := r.db.Where("id = ?", id).First(&exp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrExpenseNotFound
		}
		return nil, err
	}
	return &exp, nil
}

// List applies the resolved filter. The tipo de egreso dimension joins
// through categorias.
func (r *ExpenseRepository) List(q expense.ListQuery) ([]*expense.ExpenseWithCategory, error) {
	tx := r.db.Table("egresos e").
		Select("e.*, c.nombre AS categoria_nombre").
		Joins("LEFT JOIN categorias c ON e.categoria_id = c.id").
		Where("e.usuario_id = ?", q.UsuarioID)

	if q.Estado != "" {
		tx = tx.Where("e.estado = ?", q.Estado)
	}
	if q.TipoEgresoID != 0 {
		tx = tx.Where("c.tipo_egreso_id = ?", q.TipoEgresoID)
	}

	if q.OverdueOnly {
		// overdue window: already past and not settled
		if q.To != nil {
			tx = tx.Where("e.fecha < ?", q.To.Time)
		}
		tx = tx.Where("e.estado != ?", expense.StatusPagado)
	} else {
		if q.From != nil {
			tx = tx.Where("e.fecha >= ?", q.From.Time)
		}
		if q.To != nil {
			tx = tx.Where("e.fecha <= ?", q.To.Time)
		}
	}

	var rows []*expense.ExpenseWithCategory
	err := tx.Order("e.fecha DESC").Find(&rows).Error
	return rows, err
}

func (r *ExpenseRepository) ListForMonth(usuarioID int64, from, to internal.Date) ([]*expense.ExpenseWithCategory, error) {
	return r.listWithTypes(usuarioID, from, to)
}

func (r *ExpenseRepository) ListForYear(usuarioID int64, from, to internal.Date) ([]*expense.ExpenseWithCategory, error) {
	return r.listWithTypes(usuarioID, from, to)
}

func (r *ExpenseRepository) listWithTypes(usuarioID int64, from, to internal.Date) ([]*expense.ExpenseWithCategory, error) {
	var rows []*expense.ExpenseWithCategory
	err := r.db.Table("egresos e").
		Select("e.*, c.nombre AS categoria_nombre, t.nombre AS tipo_egreso_nombre").
		Joins("LEFT JOIN categorias c ON e.categoria_id = c.id").
		Joins("LEFT JOIN tipo_egreso t ON c.tipo_egreso_id = t.id").
		Where("e.usuario_id = ?", usuarioID).
		Where("e.fecha >= ? AND e.fecha <= ?", from.Time, to.Time).
		Where("e.estado != ?", expense.StatusParcializado).
		Order("e.fecha DESC").
		Find(&rows).Error
	return rows, err
}

// MonthlyStats aggregates the month per category. Categories without
// egresos still appear with zeroed numbers.
func (r *ExpenseRepository) MonthlyStats(usuarioID int64, from, to internal.Date) ([]*expense.CategoryStats, error) {
	var stats []*expense.CategoryStats
	err := r.db.Raw(`
		SELECT
			c.id AS categoria_id,
			c.nombre AS categoria_nombre,
			c.color AS categoria_color,
			c.icono AS categoria_icono,
			t.id AS tipo_egreso_id,
			t.nombre AS tipo_egreso_nombre,
			COUNT(e.id) AS cantidad_egresos,
			COALESCE(SUM(e.monto), 0) AS monto_total,
			COALESCE(AVG(e.monto), 0) AS monto_promedio,
			COUNT(CASE WHEN e.estado = 'pagado' THEN 1 END) AS cantidad_pagados,
			COUNT(CASE WHEN e.estado = 'pendiente' THEN 1 END) AS cantidad_pendientes,
			COUNT(CASE WHEN e.estado = 'vencido' THEN 1 END) AS cantidad_vencidos,
			COALESCE(SUM(CASE WHEN e.estado = 'pagado' THEN e.monto ELSE 0 END), 0) AS monto_pagado,
			COALESCE(SUM(CASE WHEN e.estado = 'pendiente' THEN e.monto ELSE 0 END), 0) AS monto_pendiente,
			COALESCE(SUM(CASE WHEN e.estado = 'vencido' THEN e.monto ELSE 0 END), 0) AS monto_vencido
		FROM categorias c
		LEFT JOIN egresos e ON c.id = e.categoria_id
			AND e.usuario_id = ?
			AND e.fecha >= ?
			AND e.fecha <= ?
			AND e.estado != 'parcializado'
		LEFT JOIN tipo_egreso t ON c.tipo_egreso_id = t.id
		GROUP BY c.id, c.nombre, c.color, c.icono, t.id, t.nombre
		ORDER BY monto_total DESC`,
		usuarioID, from.Time, to.Time).
		Scan(&stats).Error
	return stats, err
}

func (r *ExpenseRepository) Update(id int64, changes map[string]interface{}) (*expense.Expense, error) {
	changes["updated_at"] = time.Now()

	result := r.db.Model(&expense.Expense{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, internal.ErrExpenseNotFound
	}

	return r.GetByID(id)
}

func (r *ExpenseRepository) Delete(id int64) error {
	result := r.db.Where("id = ?", id).Delete(&expense.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	return nil
}

// SplitPartialPayment atomically records a partial payment: the abono and
// saldo rows are inserted and the original is marked parcializado. If any
// step fails the whole split rolls back.
func (r *ExpenseRepository) SplitPartialPayment(originalID int64, paid, pending *expense.Expense, notes string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(paid).Error; err != nil {
			return err
		}
		if err := tx.Create(pending).Error; err != nil {
			return err
		}

		result := tx.Model(&expense.Expense{}).
			Where("id = ?", originalID).
			Updates(map[string]interface{}{
				"estado":     expense.StatusParcializado,
				"notas":      notes,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrExpenseNotFound
		}
		return nil
	})
}

// SumForPeriod totals egresos in a date window, excluding parcializado
// rows so split originals are not double counted against the budget.
func (r *ExpenseRepository) SumForPeriod(usuarioID int64, from, to internal.Date) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Table("egresos").
		Select("COALESCE(SUM(monto), 0)").
		Where("usuario_id = ?", usuarioID).
		Where("fecha >= ? AND fecha <= ?", from.Time, to.Time).
		Where("estado != ?", expense.StatusParcializado).
		Scan(&total).Error
	return total, err
}
