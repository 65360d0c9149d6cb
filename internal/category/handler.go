package category

import (
	"net/http"

	"github.com/egresosapp/egresos-api/internal/transport"
)

type ServiceAPI interface {
	GetTipos() ([]*TipoEgreso, error)
	GetTiposConCategorias() ([]*TipoEgresoConCategorias, error)
	Exists(id int64) (bool, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetTipos(w http.ResponseWriter, r *http.Request) {
	tipos, err := h.Service.GetTipos()
	if err != nil {
		h.Logger.Error("GetTipos: failed to get expense types", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "error al obtener tipos de egreso")
		return
	}

	h.WriteJSON(w, http.StatusOK, tipos)
}

func (h *Handler) GetTiposConCategorias(w http.ResponseWriter, r *http.Request) {
	tipos, err := h.Service.GetTiposConCategorias()
	if err != nil {
		h.Logger.Error("GetTiposConCategorias: failed to get expense types", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "error al obtener tipos de egreso")
		return
	}

	h.WriteJSON(w, http.StatusOK, tipos)
}
