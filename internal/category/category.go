package category

import "time"

// TipoEgreso is a top level expense type (fijo, variable, ...). Categories
// hang off a type.
type TipoEgreso struct {
	ID          int64     `json:"id" gorm:"primaryKey;column:id"`
	Nombre      string    `json:"nombre" gorm:"column:nombre"`
	Descripcion *string   `json:"descripcion,omitempty" gorm:"column:descripcion"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

func (TipoEgreso) TableName() string { return "tipo_egreso" }

type Categoria struct {
	ID           int64     `json:"id" gorm:"primaryKey;column:id"`
	Nombre       string    `json:"nombre" gorm:"column:nombre"`
	TipoEgresoID int64     `json:"tipo_egreso_id" gorm:"column:tipo_egreso_id"`
	Color        string    `json:"color" gorm:"column:color;default:#3B82F6"`
	Icono        string    `json:"icono" gorm:"column:icono;default:receipt-outline"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Categoria) TableName() string { return "categorias" }

// TipoEgresoConCategorias is the nested shape returned by the
// tipos-egreso/con-categorias endpoint.
type TipoEgresoConCategorias struct {
	TipoEgreso
	Categorias []Categoria `json:"categorias"`
}
