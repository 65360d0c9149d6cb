package expense

import (
	"github.com/egresosapp/egresos-api/internal"
	"github.com/egresosapp/egresos-api/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

// CreateExpenseDTO is the transport shape for registering an egreso. When
// EsPeriodico is set together with the recurrence fields, one row per
// occurrence is created.
type CreateExpenseDTO struct {
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"`
	Fecha       internal.Date   `json:"fecha"`
	CategoriaID int64           `json:"categoria_id"`
	EsPeriodico bool            `json:"es_periodico"`
	Frecuencia  *string         `json:"frecuencia,omitempty"`
	FechaInicio *internal.Date  `json:"fecha_inicio,omitempty"`
	FechaFin    *internal.Date  `json:"fecha_fin,omitempty"`
	Estado      string          `json:"estado,omitempty"`
	Notas       *string         `json:"notas,omitempty"`
}

func (d CreateExpenseDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("descripcion", d.Descripcion).Required().MaxLength(255)
	v.Field("monto", d.Monto).Required().Positive(internal.ErrCodeInvalidAmount)
	v.Field("categoria_id", d.CategoriaID).Required()
	v.Field("estado", d.Estado).OneOf(ValidStatuses, internal.ErrCodeInvalidStatus)
	if err := v.Validate(); err != nil {
		return err
	}

	if d.Fecha.IsZero() {
		return internal.NewValidationFieldError("fecha", "fecha es requerida", internal.ErrCodeInvalidDate)
	}

	if d.EsPeriodico {
		if d.Frecuencia == nil || *d.Frecuencia == "" {
			return internal.NewValidationFieldError("frecuencia", "frecuencia es requerida para egresos periódicos", internal.ErrCodeInvalidFrequency)
		}
		if !Frequency(*d.Frecuencia).IsValid() {
			return internal.ErrInvalidFrequency
		}
		if d.FechaInicio == nil || d.FechaFin == nil {
			return internal.NewValidationFieldError("fecha_inicio", "fecha_inicio y fecha_fin son requeridas para egresos periódicos", internal.ErrCodeInvalidDate)
		}
	}

	return nil
}

// UpdateExpenseDTO holds a partial update. Nil fields are left untouched.
type UpdateExpenseDTO struct {
	Estado      *string          `json:"estado,omitempty"`
	Descripcion *string          `json:"descripcion,omitempty"`
	Monto       *decimal.Decimal `json:"monto,omitempty"`
	Fecha       *internal.Date   `json:"fecha,omitempty"`
	CategoriaID *int64           `json:"categoria_id,omitempty"`
	Notas       *string          `json:"notas,omitempty"`
}

func (d UpdateExpenseDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Estado != nil {
		v.Field("estado", *d.Estado).Required().OneOf(ValidStatuses, internal.ErrCodeInvalidStatus)
	}
	if d.Descripcion != nil {
		v.Field("descripcion", *d.Descripcion).Required().MaxLength(255)
	}
	if d.Monto != nil {
		v.Field("monto", *d.Monto).Positive(internal.ErrCodeInvalidAmount)
	}
	return v.Validate()
}

// Changes maps the set fields to their column names for a parameterized
// update.
func (d UpdateExpenseDTO) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if d.Estado != nil {
		changes["estado"] = *d.Estado
	}
	if d.Descripcion != nil {
		changes["descripcion"] = *d.Descripcion
	}
	if d.Monto != nil {
		changes["monto"] = *d.Monto
	}
	if d.Fecha != nil {
		changes["fecha"] = d.Fecha.Time
	}
	if d.CategoriaID != nil {
		changes["categoria_id"] = *d.CategoriaID
	}
	if d.Notas != nil {
		changes["notas"] = *d.Notas
	}
	return changes
}

// PartialPaymentDTO carries the amount paid against an egreso.
type PartialPaymentDTO struct {
	Monto decimal.Decimal `json:"monto"`
}
