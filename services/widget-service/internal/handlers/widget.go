package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/elpoderosocode/Barberia/services/widget-service/internal/widget"
)

// Handler maps the widget API onto the controller. Responses are JSON
// snapshots; gated transitions come back 200 with unchanged state because
// they are defined as no-ops, not failures.
type Handler struct {
	ctrl   *widget.Controller
	logger *slog.Logger
}

func New(ctrl *widget.Controller, logger *slog.Logger) *Handler {
	return &Handler{ctrl: ctrl, logger: logger}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/widget/state", h.State)
	mux.HandleFunc("/api/v1/widget/services", h.Services)
	mux.HandleFunc("/api/v1/widget/staff", h.Staff)
	mux.HandleFunc("/api/v1/widget/cart/add", h.CartAdd)
	mux.HandleFunc("/api/v1/widget/cart/quantity", h.CartQuantity)
	mux.HandleFunc("/api/v1/widget/cart/remove", h.CartRemove)
	mux.HandleFunc("/api/v1/widget/advance", h.Advance)
	mux.HandleFunc("/api/v1/widget/back", h.Back)
	mux.HandleFunc("/api/v1/widget/select/staff", h.SelectStaff)
	mux.HandleFunc("/api/v1/widget/select/date", h.SelectDate)
	mux.HandleFunc("/api/v1/widget/select/slot", h.SelectSlot)
	mux.HandleFunc("/api/v1/widget/submit", h.Submit)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.State())
}

func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	page := 1
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		page = v
	}
	result := h.ctrl.BrowseServices(q.Get("search"), strings.TrimSpace(q.Get("category")), page)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Staff(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.StaffList())
}

type serviceRef struct {
	ServiceID string `json:"service_id"`
	Delta     int    `json:"delta"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) CartAdd(w http.ResponseWriter, r *http.Request) {
	var req serviceRef
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.AddToCart(strings.TrimSpace(req.ServiceID)))
}

func (h *Handler) CartQuantity(w http.ResponseWriter, r *http.Request) {
	var req serviceRef
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Delta == 0 {
		http.Error(w, "delta must be non-zero", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.ChangeQuantity(strings.TrimSpace(req.ServiceID), req.Delta))
}

func (h *Handler) CartRemove(w http.ResponseWriter, r *http.Request) {
	var req serviceRef
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.RemoveFromCart(strings.TrimSpace(req.ServiceID)))
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Advance())
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Back())
}

func (h *Handler) SelectStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID string `json:"staff_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	snap, err := h.ctrl.SelectStaff(r.Context(), strings.TrimSpace(req.StaffID))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	snap, err := h.ctrl.SelectDate(r.Context(), strings.TrimSpace(req.Date))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Time string `json:"time"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	snap, err := h.ctrl.SelectSlot(strings.TrimSpace(req.Time))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	outcome, err := h.ctrl.Submit(r.Context(), req.Name, req.Phone)
	if err != nil {
		h.writeError(w, err)
		return
	}
	// Both outcomes are data for the render surface, not transport errors.
	writeJSON(w, http.StatusOK, outcome)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *widget.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, widget.ErrBadDate):
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
	case errors.Is(err, widget.ErrUnknownStaff):
		http.Error(w, "unknown staff", http.StatusNotFound)
	case errors.Is(err, widget.ErrUnknownSlot):
		http.Error(w, "slot not available", http.StatusUnprocessableEntity)
	case errors.Is(err, widget.ErrWrongStep):
		http.Error(w, "operation not valid at this step", http.StatusConflict)
	default:
		h.logger.Error("widget handler error", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
