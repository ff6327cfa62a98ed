// Package api — JSON-обработчики CRM поверх доменных сервисов.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/eywa-space/crm/internal/assistant"
	"github.com/eywa-space/crm/internal/domain/clients"
	"github.com/eywa-space/crm/internal/domain/payments"
	"github.com/eywa-space/crm/internal/domain/services"
	"github.com/eywa-space/crm/internal/domain/subscriptions"
	"github.com/eywa-space/crm/internal/infra/tts"
)

type Handler struct {
	log      *slog.Logger
	payments *payments.Repo
	clients  *clients.Repo
	services *services.Repo
	subs     *subscriptions.Service
	sessions *assistant.Sessions
	tts      *tts.Client
}

func NewHandler(log *slog.Logger, paymentsRepo *payments.Repo, clientsRepo *clients.Repo,
	servicesRepo *services.Repo, subs *subscriptions.Service,
	sessions *assistant.Sessions, ttsClient *tts.Client) *Handler {

	return &Handler{
		log:      log,
		payments: paymentsRepo,
		clients:  clientsRepo,
		services: servicesRepo,
		subs:     subs,
		sessions: sessions,
		tts:      ttsClient,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/payments", h.listPayments)
	mux.HandleFunc("POST /api/payments", h.createPayment)
	mux.HandleFunc("PATCH /api/payments/{id}", h.updatePayment)

	mux.HandleFunc("GET /api/subscriptions", h.listSubscriptions)
	mux.HandleFunc("POST /api/subscriptions/deduct", h.deductSubscription)
	mux.HandleFunc("POST /api/subscriptions/extend", h.extendSubscription)
	mux.HandleFunc("GET /api/subscriptions/export", h.exportSubscriptions)

	mux.HandleFunc("GET /api/payment-services/categories", h.listServiceCategories)
	mux.HandleFunc("POST /api/payment-services/categories", h.createServiceCategory)
	mux.HandleFunc("GET /api/payment-services", h.listServices)
	mux.HandleFunc("POST /api/payment-services", h.createService)

	mux.HandleFunc("POST /api/clients/{id}/visits", h.addClientVisit)
	mux.HandleFunc("GET /api/clients/{id}/visits", h.listClientVisits)

	mux.HandleFunc("POST /api/ai-assistant/chat", h.assistantChat)
	mux.HandleFunc("GET /api/ai-assistant/history", h.assistantHistory)
	mux.HandleFunc("POST /api/ai-assistant/clear", h.assistantClear)
	mux.HandleFunc("POST /api/text-to-speech", h.textToSpeech)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("write response failed", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"detail": msg})
}
