package budget

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/egresosapp/egresos-api/internal/auth"
	"github.com/egresosapp/egresos-api/internal/transport"
	"github.com/shopspring/decimal"
)

type ServiceAPI interface {
	MonthlySummary(usuarioID int64, mes, anio int) (*Summary, error)
	SetAllocation(usuarioID int64, mes, anio int, asignado decimal.Decimal) (*Summary, error)
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

func (h *Handler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	summary, err := h.Service.MonthlySummary(user.ID, queryInt(r, "mes"), queryYear(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    summary,
	})
}

type setAllocationDTO struct {
	Mes      int             `json:"mes"`
	Anio     int             `json:"año"`
	Asignado decimal.Decimal `json:"presupuesto_asignado"`
}

func (h *Handler) SetMonthly(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	var dto setAllocationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.Service.SetAllocation(user.ID, dto.Mes, dto.Anio, dto.Asignado)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    summary,
	})
}

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

func queryYear(r *http.Request) int {
	if v := r.URL.Query().Get("año"); v != "" {
		n, _ := strconv.Atoi(v)
		return n
	}
	return queryInt(r, "anio")
}
