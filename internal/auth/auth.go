package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

// ContextUserKey is where AuthMiddleware stores the authenticated user.
const ContextUserKey ctxKey = "auth_user"

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// User is the account domain model, persisted in the usuarios table.
type User struct {
	ID           int64      `json:"id" gorm:"primaryKey;column:id"`
	Email        string     `json:"email" gorm:"column:email;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"column:password"`
	Nombre       string     `json:"nombre" gorm:"column:nombre"`
	Apellido     string     `json:"apellido" gorm:"column:apellido"`
	Telefono     *string    `json:"telefono,omitempty" gorm:"column:telefono"`
	Activo       bool       `json:"activo" gorm:"column:activo;default:true"`
	UltimoAcceso *time.Time `json:"ultimo_acceso,omitempty" gorm:"column:ultimo_acceso"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string { return "usuarios" }

// NombreCompleto joins first and last name for display.
func (u *User) NombreCompleto() string {
	if u.Apellido == "" {
		return u.Nombre
	}
	return u.Nombre + " " + u.Apellido
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Claims represents JWT token claims. TokenType distinguishes access from
// refresh tokens so one cannot be replayed as the other.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID int64, email string) (string, error)
	GenerateRefreshToken(userID int64, email string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	AccessTokenTTL() time.Duration
}

// UserFromContext returns the authenticated user placed by AuthMiddleware.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}
