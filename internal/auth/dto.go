package auth

import (
	apperrors "github.com/egresosapp/egresos-api/internal"
	"github.com/egresosapp/egresos-api/internal/core/common/validation"
)

// RegisterDTO is the transport shape for account creation.
type RegisterDTO struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Nombre   string  `json:"nombre"`
	Apellido string  `json:"apellido"`
	Telefono *string `json:"telefono,omitempty"`
}

func (d RegisterDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(6)
	v.Field("nombre", d.Nombre).Required().MinLength(2).MaxLength(100)
	v.Field("apellido", d.Apellido).Required().MinLength(2).MaxLength(100)
	v.Field("telefono", d.Telefono).Telefono()
	return v.Validate()
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshTokenDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	return v.Validate()
}

// UpdateProfileDTO updates name and phone. Nil fields are left untouched.
type UpdateProfileDTO struct {
	Nombre   *string `json:"nombre,omitempty"`
	Apellido *string `json:"apellido,omitempty"`
	Telefono *string `json:"telefono,omitempty"`
}

func (d UpdateProfileDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	if d.Nombre != nil {
		v.Field("nombre", *d.Nombre).Required().MinLength(2).MaxLength(100)
	}
	if d.Apellido != nil {
		v.Field("apellido", *d.Apellido).Required().MinLength(2).MaxLength(100)
	}
	v.Field("telefono", d.Telefono).Telefono()
	return v.Validate()
}

// Changes maps the set fields to their column names.
func (d UpdateProfileDTO) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if d.Nombre != nil {
		changes["nombre"] = *d.Nombre
	}
	if d.Apellido != nil {
		changes["apellido"] = *d.Apellido
	}
	if d.Telefono != nil {
		changes["telefono"] = *d.Telefono
	}
	return changes
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d ChangePasswordDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("current_password", d.CurrentPassword).Required()
	v.Field("new_password", d.NewPassword).Required().MinLength(6)
	return v.Validate()
}
