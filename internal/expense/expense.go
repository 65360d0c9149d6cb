package expense

import (
	"time"

	"github.com/egresosapp/egresos-api/internal"
	"github.com/shopspring/decimal"
)

// Expense statuses as stored in the egresos table.
const (
	StatusPendiente    = "pendiente"
	StatusPagado       = "pagado"
	StatusVencido      = "vencido"
	StatusParcializado = "parcializado"
)

// ValidStatuses lists the states an egreso can be set to through the API.
var ValidStatuses = []string{StatusPendiente, StatusPagado, StatusVencido, StatusParcializado}

// Period filters accepted by the list endpoint.
const (
	PeriodTodos         = "todos"
	PeriodVencidos      = "vencidos"
	PeriodProximos      = "proximos"
	PeriodMes           = "mes"
	PeriodPersonalizado = "personalizado"
)

var ValidPeriods = []string{PeriodTodos, PeriodVencidos, PeriodProximos, PeriodMes, PeriodPersonalizado}

// FilterAll is the sentinel meaning "do not filter on this dimension".
const FilterAll = "todos"

// Expense is the domain model for a single egreso row. A recurring expense
// is materialized as one row per occurrence, all sharing the recurrence
// metadata of the series.
type Expense struct {
	ID          int64           `json:"id" gorm:"primaryKey;column:id"`
	UsuarioID   int64           `json:"usuario_id" gorm:"column:usuario_id"`
	CategoriaID int64           `json:"categoria_id" gorm:"column:categoria_id"`
	Descripcion string          `json:"descripcion" gorm:"column:descripcion"`
	Monto       decimal.Decimal `json:"monto" gorm:"column:monto;type:decimal(14,2)"`
	Fecha       internal.Date   `json:"fecha" gorm:"column:fecha;type:date"`
	EsPeriodico bool            `json:"es_periodico" gorm:"column:es_periodico"`
	Frecuencia  *string         `json:"frecuencia,omitempty" gorm:"column:frecuencia"`
	FechaInicio *internal.Date  `json:"fecha_inicio,omitempty" gorm:"column:fecha_inicio;type:date"`
	FechaFin    *internal.Date  `json:"fecha_fin,omitempty" gorm:"column:fecha_fin;type:date"`
	Estado      string          `json:"estado" gorm:"column:estado;default:pendiente"`
	Notas       *string         `json:"notas,omitempty" gorm:"column:notas"`
	CreatedAt   time.Time       `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"column:updated_at"`
}

func (Expense) TableName() string { return "egresos" }

func (e *Expense) IsPaid() bool { return e.Estado == StatusPagado }

// ExpenseWithCategory is the list/report row shape, carrying the joined
// category and expense type names.
type ExpenseWithCategory struct {
	Expense
	CategoriaNombre  *string `json:"categoria_nombre" gorm:"column:categoria_nombre"`
	TipoEgresoNombre *string `json:"tipo_egreso_nombre,omitempty" gorm:"column:tipo_egreso_nombre"`
}

// ListFilter carries the raw query filters for the list endpoint. Zero or
// "todos" values mean the dimension is not filtered.
type ListFilter struct {
	Estado       string
	TipoEgresoID string
	Periodo      string
	Mes          int
	Anio         int
}

// ListQuery is the resolved filter the repository executes: explicit
// dimensions plus an optional date window.
type ListQuery struct {
	UsuarioID    int64
	Estado       string
	TipoEgresoID int64
	From         *internal.Date
	To           *internal.Date
	// OverdueOnly adds the vencidos condition: fecha < today and not pagado.
	OverdueOnly bool
}

// CategoryStats aggregates a month of egresos for one category.
type CategoryStats struct {
	CategoriaID        int64           `json:"categoria_id" gorm:"column:categoria_id"`
	CategoriaNombre    string          `json:"categoria_nombre" gorm:"column:categoria_nombre"`
	CategoriaColor     string          `json:"categoria_color" gorm:"column:categoria_color"`
	CategoriaIcono     string          `json:"categoria_icono" gorm:"column:categoria_icono"`
	TipoEgresoID       *int64          `json:"tipo_egreso_id" gorm:"column:tipo_egreso_id"`
	TipoEgresoNombre   *string         `json:"tipo_egreso_nombre" gorm:"column:tipo_egreso_nombre"`
	CantidadEgresos    int64           `json:"cantidad_egresos" gorm:"column:cantidad_egresos"`
	MontoTotal         decimal.Decimal `json:"monto_total" gorm:"column:monto_total"`
	MontoPromedio      decimal.Decimal `json:"monto_promedio" gorm:"column:monto_promedio"`
	CantidadPagados    int64           `json:"cantidad_pagados" gorm:"column:cantidad_pagados"`
	CantidadPendientes int64           `json:"cantidad_pendientes" gorm:"column:cantidad_pendientes"`
	CantidadVencidos   int64           `json:"cantidad_vencidos" gorm:"column:cantidad_vencidos"`
	MontoPagado        decimal.Decimal `json:"monto_pagado" gorm:"column:monto_pagado"`
	MontoPendiente     decimal.Decimal `json:"monto_pendiente" gorm:"column:monto_pendiente"`
	MontoVencido       decimal.Decimal `json:"monto_vencido" gorm:"column:monto_vencido"`
}

// Repository defines the data access methods for egresos.
type Repository interface {
	CreateBatch(expenses []*Expense) error
	GetByID(id int64) (*Expense, error)
	List(q ListQuery) ([]*ExpenseWithCategory, error)
	ListForMonth(usuarioID int64, from, to internal.Date) ([]*ExpenseWithCategory, error)
	ListForYear(usuarioID int64, from, to internal.Date) ([]*ExpenseWithCategory, error)
	MonthlyStats(usuarioID int64, from, to internal.Date) ([]*CategoryStats, error)
	Update(id int64, changes map[string]interface{}) (*Expense, error)
	Delete(id int64) error
	SplitPartialPayment(originalID int64, paid, pending *Expense, notes string) error
	SumForPeriod(usuarioID int64, from, to internal.Date) (decimal.Decimal, error)
}
