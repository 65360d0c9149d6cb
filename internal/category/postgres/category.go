package postgres

import (
	"github.com/egresosapp/egresos-api/internal/category"
	"gorm.io/gorm"
)

// CategoryRepository implements category.RepositoryAPI using GORM
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAllTipos() ([]*category.TipoEgreso, error) {
	var tipos []*category.TipoEgreso
	err := r.db.Order("id").Find(&tipos).Error
	return tipos, err
}

func (r *CategoryRepository) GetAllCategorias() ([]*category.Categoria, error) {
	var categorias []*category.Categoria
	err := r.db.Order("nombre").Find(&categorias).Error
	return categorias, err
}

func (r *CategoryRepository) CategoriaExists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&category.Categoria{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
