package expense

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/egresosapp/egresos-api/internal/auth"
	"github.com/egresosapp/egresos-api/internal/transport"
	"github.com/egresosapp/egresos-api/pkg/logger"
	"github.com/go-chi/chi"
)

// ServiceAPI is the surface the handler depends on.
type ServiceAPI interface {
	CreateExpense(usuarioID int64, dto CreateExpenseDTO) ([]*Expense, error)
	List(usuarioID int64, filter ListFilter) ([]*ExpenseWithCategory, error)
	GetMonth(usuarioID int64, mes, anio int) ([]*ExpenseWithCategory, error)
	MonthlyStats(usuarioID int64, mes, anio int) ([]*CategoryStats, error)
	AnnualReport(usuarioID int64, anio int) ([]*ExpenseWithCategory, error)
	UpdateExpense(id, usuarioID int64, dto UpdateExpenseDTO) (*Expense, error)
	DeleteExpense(id, usuarioID int64) (*Expense, error)
	PartialPayment(id, usuarioID int64, dto PartialPaymentDTO) (*Expense, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateExpense(user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"data":     created,
		"cantidad": len(created),
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	filter := ListFilter{
		Estado:       r.URL.Query().Get("estado"),
		TipoEgresoID: r.URL.Query().Get("tipoEgresoId"),
		Periodo:      r.URL.Query().Get("periodo"),
		Mes:          queryInt(r, "mes"),
		Anio:         queryYear(r),
	}

	rows, err := h.Service.List(user.ID, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	rows, err := h.Service.GetMonth(user.ID, queryInt(r, "mes"), queryYear(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	stats, err := h.Service.MonthlyStats(user.ID, queryInt(r, "mes"), queryYear(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) AnnualReport(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	rows, err := h.Service.AnnualReport(user.ID, queryYear(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var dto UpdateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.UpdateExpense(id, user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Egreso actualizado exitosamente",
		"data":    updated,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	deleted, err := h.Service.DeleteExpense(id, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Egreso eliminado exitosamente",
		"data": map[string]interface{}{
			"id":          deleted.ID,
			"descripcion": deleted.Descripcion,
			"monto":       deleted.Monto,
		},
	})
}

func (h *Handler) PartialPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var dto PartialPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.PartialPayment(id, user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Pago parcial procesado exitosamente",
		"data":    updated,
	})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

// queryYear accepts both "año" and its ASCII spelling "anio".
func queryYear(r *http.Request) int {
	if v := r.URL.Query().Get("año"); v != "" {
		n, _ := strconv.Atoi(v)
		return n
	}
	return queryInt(r, "anio")
}
