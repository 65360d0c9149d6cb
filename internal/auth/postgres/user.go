package postgres

import (
	"errors"
	"strings"
	"time"

	apperrors "github.com/egresosapp/egresos-api/internal"
	"github.com/egresosapp/egresos-api/internal/auth"
	"gorm.io/gorm"
)

// UserRepository implements the auth.UserRepository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) auth.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *auth.User) error {
	err := r.db.Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return apperrors.ErrEmailRegistered
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByEmail(email string) (*auth.User, error) {
	var user auth.User
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id int64) (*auth.User, error) {
	var user auth.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(id int64, changes map[string]interface{}) error {
	changes["updated_at"] = time.Now()
	result := r.db.Model(&auth.User{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastAccess(id int64, at time.Time) error {
	return r.db.Model(&auth.User{}).
		Where("id = ?", id).
		Update("ultimo_acceso", at).Error
}

// isUniqueViolation matches the postgres unique_violation SQLSTATE (23505)
// for drivers that do not translate it to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
