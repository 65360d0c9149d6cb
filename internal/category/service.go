package category

import "log/slog"

type RepositoryAPI interface {
	GetAllTipos() ([]*TipoEgreso, error)
	GetAllCategorias() ([]*Categoria, error)
	CategoriaExists(id int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetTipos() ([]*TipoEgreso, error) {
	tipos, err := s.repo.GetAllTipos()
	if err != nil {
		s.logger.Error("failed to get expense types", "error", err)
		return nil, err
	}
	return tipos, nil
}

// GetTiposConCategorias groups every category under its type.
func (s *Service) GetTiposConCategorias() ([]*TipoEgresoConCategorias, error) {
	tipos, err := s.repo.GetAllTipos()
	if err != nil {
		s.logger.Error("failed to get expense types", "error", err)
		return nil, err
	}

	categorias, err := s.repo.GetAllCategorias()
	if err != nil {
		s.logger.Error("failed to get categories", "error", err)
		return nil, err
	}

	byTipo := make(map[int64][]Categoria, len(tipos))
	for _, c := range categorias {
		byTipo[c.TipoEgresoID] = append(byTipo[c.TipoEgresoID], *c)
	}

	result := make([]*TipoEgresoConCategorias, 0, len(tipos))
	for _, t := range tipos {
		cats := byTipo[t.ID]
		if cats == nil {
			cats = []Categoria{}
		}
		result = append(result, &TipoEgresoConCategorias{
			TipoEgreso: *t,
			Categorias: cats,
		})
	}

	return result, nil
}

// Exists reports whether a category id is registered. Satisfies the
// expense package's CategoryChecker.
func (s *Service) Exists(id int64) (bool, error) {
	return s.repo.CategoriaExists(id)
}
