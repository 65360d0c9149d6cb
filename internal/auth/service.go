package auth

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/egresosapp/egresos-api/internal"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	Create(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(id int64) (*User, error)
	Update(id int64, changes map[string]interface{}) error
	TouchLastAccess(id int64, at time.Time) error
}

// ServiceAPI is the surface the handler depends on.
type ServiceAPI interface {
	Register(dto RegisterDTO) (*User, AuthTokens, error)
	Authenticate(dto LoginDTO) (*User, AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUser(id int64) (*User, error)
	UpdateProfile(id int64, dto UpdateProfileDTO) (*User, error)
	ChangePassword(id int64, dto ChangePasswordDTO) error
}

type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = 12
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
	}
}

// Register creates an account and logs the user straight in.
func (s *Service) Register(dto RegisterDTO) (*User, AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, AuthTokens{}, err
	}

	if existing, err := s.userRepo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, AuthTokens{}, apperrors.ErrEmailRegistered
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, AuthTokens{}, apperrors.NewInternalError("error al procesar la contraseña", err)
	}

	user := &User{
		Email:        dto.Email,
		PasswordHash: hash,
		Nombre:       dto.Nombre,
		Apellido:     dto.Apellido,
		Telefono:     dto.Telefono,
		Activo:       true,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrEmailRegistered) {
			return nil, AuthTokens{}, apperrors.ErrEmailRegistered
		}
		return nil, AuthTokens{}, apperrors.NewInternalError("error al crear el usuario", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, AuthTokens{}, err
	}

	return user, tokens, nil
}

// Authenticate validates credentials and returns the user with fresh tokens.
func (s *Service) Authenticate(dto LoginDTO) (*User, AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, AuthTokens{}, err
	}

	user, err := s.userRepo.GetByEmail(dto.Email)
	if err != nil {
		return nil, AuthTokens{}, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, AuthTokens{}, apperrors.ErrInvalidCredentials
	}

	if !user.Activo {
		return nil, AuthTokens{}, apperrors.ErrUserInactive
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, AuthTokens{}, err
	}

	// best effort, login should not fail on this
	_ = s.userRepo.TouchLastAccess(user.ID, time.Now())

	return user, tokens, nil
}

// RefreshTokens validates a refresh token and rotates the pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return AuthTokens{}, apperrors.ErrInvalidToken
	}
	if !user.Activo {
		return AuthTokens{}, apperrors.ErrUserInactive
	}

	return s.issueTokens(user)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

func (s *Service) GetUser(id int64) (*User, error) {
	return s.userRepo.GetByID(id)
}

func (s *Service) UpdateProfile(id int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changes := dto.Changes()
	if len(changes) == 0 {
		return nil, apperrors.ErrEmptyUpdate
	}

	if err := s.userRepo.Update(id, changes); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(id)
}

func (s *Service) ChangePassword(id int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		return apperrors.NewValidationError("la contraseña actual es incorrecta", apperrors.ErrCodeInvalidCredentials)
	}

	hash, err := s.HashPassword(dto.NewPassword)
	if err != nil {
		return apperrors.NewInternalError("error al procesar la contraseña", err)
	}

	return s.userRepo.Update(id, map[string]interface{}{"password": hash})
}

func (s *Service) issueTokens(user *User) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return AuthTokens{}, apperrors.NewInternalError("error al generar el token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return AuthTokens{}, apperrors.NewInternalError("error al generar el token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenGenerator.AccessTokenTTL().Seconds()),
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type JWTTokenGenerator struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &JWTTokenGenerator{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (j *JWTTokenGenerator) AccessTokenTTL() time.Duration { return j.accessTTL }

func (j *JWTTokenGenerator) GenerateAccessToken(userID int64, email string) (string, error) {
	return j.sign(userID, email, TokenTypeAccess, j.accessSecret, j.accessTTL)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID int64, email string) (string, error) {
	return j.sign(userID, email, TokenTypeRefresh, j.refreshSecret, j.refreshTTL)
}

func (j *JWTTokenGenerator) sign(userID int64, email, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenTypeAccess, j.accessSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenTypeRefresh, j.refreshSecret)
}

func (j *JWTTokenGenerator) validate(tokenString, wantType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
