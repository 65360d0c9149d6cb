package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyBudget is the per user allocation for a calendar month, persisted
// in presupuestos_mensuales.
type MonthlyBudget struct {
	ID        int64           `json:"id" gorm:"primaryKey;column:id"`
	UsuarioID int64           `json:"usuario_id" gorm:"column:usuario_id;uniqueIndex:idx_presupuesto_usuario_mes"`
	Mes       int             `json:"mes" gorm:"column:mes;uniqueIndex:idx_presupuesto_usuario_mes"`
	Anio      int             `json:"año" gorm:"column:anio;uniqueIndex:idx_presupuesto_usuario_mes"`
	Asignado  decimal.Decimal `json:"presupuesto_asignado" gorm:"column:asignado;type:decimal(14,2)"`
	CreatedAt time.Time       `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"column:updated_at"`
}

func (MonthlyBudget) TableName() string { return "presupuestos_mensuales" }

// Summary is the computed view of a month: allocation against what was
// actually spent.
type Summary struct {
	Asignado        decimal.Decimal `json:"presupuesto_asignado"`
	TotalGastado    decimal.Decimal `json:"total_gastado"`
	SaldoDisponible decimal.Decimal `json:"saldo_disponible"`
	PorcentajeUsado float64         `json:"porcentaje_usado"`
	Mes             int             `json:"mes"`
	Anio            int             `json:"año"`
}

type Repository interface {
	Get(usuarioID int64, mes, anio int) (*MonthlyBudget, error)
	Upsert(b *MonthlyBudget) error
}
