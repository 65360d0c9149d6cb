package postgres

import (
	"errors"
	"time"

	"github.com/egresosapp/egresos-api/internal/budget"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BudgetRepository implements budget.Repository using GORM
type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) budget.Repository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Get(usuarioID int64, mes, anio int) (*budget.MonthlyBudget, error) {
	var b budget.MonthlyBudget
	err := r.db.Where("usuario_id = ? AND mes = ? AND anio = ?", usuarioID, mes, anio).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, budget.ErrBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Upsert inserts or replaces the month's allocation in one statement.
func (r *BudgetRepository) Upsert(b *budget.MonthlyBudget) error {
	b.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "usuario_id"},
			{Name: "mes"},
			{Name: "anio"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"asignado", "updated_at"}),
	}).Create(b).Error
}
