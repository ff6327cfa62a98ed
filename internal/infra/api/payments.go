package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/eywa-space/crm/internal/domain/payments"
)

type paymentJSON struct {
	ID              int64   `json:"id"`
	PublicID        string  `json:"public_id"`
	ClientID        *string `json:"client_id"`
	ClientName      *string `json:"client_name"`
	ClientPhone     *string `json:"client_phone"`
	ServiceID       *string `json:"service_id"`
	ServiceName     string  `json:"service_name"`
	ServiceCategory *string `json:"service_category"`
	TotalAmount     int     `json:"total_amount"`
	CashAmount      int     `json:"cash_amount"`
	TransferAmount  int     `json:"transfer_amount"`
	Quantity        int     `json:"quantity"`
	Hours           *int    `json:"hours"`
	Comment         *string `json:"comment"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toPaymentJSON(p payments.Payment) paymentJSON {
	return paymentJSON{
		ID:              p.ID,
		PublicID:        p.PublicID,
		ClientID:        p.ClientID,
		ClientName:      p.ClientName,
		ClientPhone:     p.ClientPhone,
		ServiceID:       p.ServiceID,
		ServiceName:     p.ServiceName,
		ServiceCategory: p.ServiceCategory,
		TotalAmount:     p.TotalAmount,
		CashAmount:      p.CashAmount,
		TransferAmount:  p.TransferAmount,
		Quantity:        p.Quantity,
		Hours:           p.Hours,
		Comment:         p.Comment,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	list, err := h.payments.List(r.Context(), r.URL.Query().Get("service_name"), r.URL.Query().Get("client_id"))
	if err != nil {
		h.log.Error("list payments failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	out := make([]paymentJSON, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentJSON(p))
	}
	h.writeJSON(w, http.StatusOK, out)
}

type paymentCreateRequest struct {
	ClientID        *string `json:"client_id"`
	ClientName      *string `json:"client_name"`
	ClientPhone     *string `json:"client_phone"`
	ServiceID       *string `json:"service_id"`
	ServiceName     string  `json:"service_name"`
	ServiceCategory *string `json:"service_category"`
	TotalAmount     int     `json:"total_amount"`
	CashAmount      int     `json:"cash_amount"`
	TransferAmount  int     `json:"transfer_amount"`
	Quantity        int     `json:"quantity"`
	Hours           *int    `json:"hours"`
	Comment         *string `json:"comment"`
	Status          string  `json:"status"`
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ServiceName == "" {
		h.writeError(w, http.StatusBadRequest, "service_name is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	p, err := h.payments.Create(r.Context(), payments.Payment{
		ClientID:        req.ClientID,
		ClientName:      req.ClientName,
		ClientPhone:     req.ClientPhone,
		ServiceID:       req.ServiceID,
		ServiceName:     req.ServiceName,
		ServiceCategory: req.ServiceCategory,
		TotalAmount:     req.TotalAmount,
		CashAmount:      req.CashAmount,
		TransferAmount:  req.TransferAmount,
		Quantity:        req.Quantity,
		Hours:           req.Hours,
		Comment:         req.Comment,
		Status:          payments.Status(req.Status),
	})
	if err != nil {
		h.log.Error("create payment failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create payment")
		return
	}
	h.writeJSON(w, http.StatusCreated, toPaymentJSON(*p))
}

type paymentUpdateRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("id")

	var req paymentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == nil {
		h.writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	p, err := h.payments.UpdateQuantity(r.Context(), publicID, *req.Quantity)
	if err != nil {
		if err == payments.ErrNegativeQuantity {
			h.writeError(w, http.StatusBadRequest, "quantity must not be negative")
			return
		}
		h.log.Error("update payment failed", "public_id", publicID, "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update payment")
		return
	}
	if p == nil {
		h.writeError(w, http.StatusNotFound, "payment not found")
		return
	}
	h.writeJSON(w, http.StatusOK, toPaymentJSON(*p))
}

type visitRequest struct {
	Date string `json:"date"`
}

func (h *Handler) addClientVisit(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")

	var req visitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	visitedAt, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	if err := h.clients.AddVisit(r.Context(), clientID, visitedAt); err != nil {
		h.log.Error("add visit failed", "client_id", clientID, "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to add visit")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listClientVisits(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")

	visits, err := h.clients.ListVisits(r.Context(), clientID)
	if err != nil {
		h.log.Error("list visits failed", "client_id", clientID, "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list visits")
		return
	}
	type visitJSON struct {
		Date string `json:"date"`
	}
	out := make([]visitJSON, 0, len(visits))
	for _, v := range visits {
		out = append(out, visitJSON{Date: v.VisitedAt.Format("2006-01-02")})
	}
	h.writeJSON(w, http.StatusOK, out)
}
