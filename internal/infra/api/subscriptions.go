package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/eywa-space/crm/internal/domain/subscriptions"
	"github.com/eywa-space/crm/internal/reports"
)

type subscriptionJSON struct {
	ID          string `json:"id"`
	Client      string `json:"client"`
	ClientID    string `json:"client_id,omitempty"`
	Type        string `json:"type"`
	Left        int    `json:"left"`
	Total       int    `json:"total"`
	PurchasedAt string `json:"purchased_at"`
	PaymentID   string `json:"payment_id"`
	Band        string `json:"band"`
	BandColor   string `json:"band_color"`
}

func toSubscriptionJSON(r subscriptions.Row) subscriptionJSON {
	band := subscriptions.BalanceBand(r.Left, r.Total)
	return subscriptionJSON{
		ID:          r.ID,
		Client:      r.Client,
		ClientID:    r.ClientID,
		Type:        r.Type,
		Left:        r.Left,
		Total:       r.Total,
		PurchasedAt: r.PurchasedAt.Format(time.RFC3339),
		PaymentID:   r.PaymentID,
		Band:        string(band),
		BandColor:   band.Color(),
	}
}

func (h *Handler) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.subs.Rows(r.Context())
	if err != nil {
		h.log.Error("build subscription rows failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load subscriptions")
		return
	}
	out := make([]subscriptionJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSubscriptionJSON(row))
	}
	h.writeJSON(w, http.StatusOK, out)
}

type subscriptionRowRequest struct {
	ID          string `json:"id"`
	Client      string `json:"client"`
	ClientID    string `json:"client_id"`
	Type        string `json:"type"`
	Left        int    `json:"left"`
	Total       int    `json:"total"`
	PurchasedAt string `json:"purchased_at"`
	PaymentID   string `json:"payment_id"`
}

func (r subscriptionRowRequest) toRow() subscriptions.Row {
	purchasedAt, _ := time.Parse(time.RFC3339, r.PurchasedAt)
	return subscriptions.Row{
		ID:          r.ID,
		Client:      r.Client,
		ClientID:    r.ClientID,
		Type:        r.Type,
		Left:        r.Left,
		Total:       r.Total,
		PurchasedAt: purchasedAt,
		PaymentID:   r.PaymentID,
	}
}

func (h *Handler) deductSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rows, err := h.subs.Deduct(r.Context(), req.toRow())
	if err != nil {
		switch err {
		case subscriptions.ErrNothingToDeduct:
			h.writeError(w, http.StatusConflict, "нельзя списать: занятий не осталось")
		case subscriptions.ErrDeductInFlight:
			h.writeError(w, http.StatusConflict, "списание уже выполняется")
		default:
			h.log.Error("deduct failed", "row_id", req.ID, "err", err)
			h.writeError(w, http.StatusInternalServerError, "не удалось списать занятие")
		}
		return
	}

	out := make([]subscriptionJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSubscriptionJSON(row))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) extendSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	url, err := h.subs.ExtendURL(req.toRow())
	if err != nil {
		if err == subscriptions.ErrMissingClientID {
			h.writeError(w, http.StatusBadRequest, "не удалось продлить: отсутствует ID клиента")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "failed to build extension url")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) exportSubscriptions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.subs.Rows(r.Context())
	if err != nil {
		h.log.Error("export subscriptions failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load subscriptions")
		return
	}

	data, fileName, err := reports.SubscriptionsXLSX(rows)
	if err != nil {
		h.log.Error("build xlsx failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
