package api

import (
	"encoding/json"
	"net/http"
	"time"
)

func sessionID(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	return "default"
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Message string `json:"message"`
}

func (h *Handler) assistantChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		h.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	orch := h.sessions.Get(sessionID(r))
	reply, err := orch.Send(r.Context(), req.Message)
	if err != nil {
		// Оркестратор уже положил дежурный ответ в историю —
		// отдаём его с кодом ошибки, диалог остаётся рабочим.
		h.writeJSON(w, http.StatusBadGateway, chatResponse{Message: reply.Content})
		return
	}
	h.writeJSON(w, http.StatusOK, chatResponse{Message: reply.Content})
}

type messageJSON struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func (h *Handler) assistantHistory(w http.ResponseWriter, r *http.Request) {
	orch := h.sessions.Get(sessionID(r))
	msgs, err := orch.History(r.Context())
	if err != nil {
		h.log.Error("load history failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	out := make([]messageJSON, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageJSON{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) assistantClear(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := h.sessions.Get(id).Clear(r.Context()); err != nil {
		h.log.Error("clear history failed", "session_id", id, "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	h.sessions.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

type ttsRequest struct {
	Text string `json:"text"`
}

func (h *Handler) textToSpeech(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		h.writeError(w, http.StatusBadRequest, "текст не может быть пустым")
		return
	}

	if !h.tts.Configured() {
		// Клиент по 503 переключается на встроенный синтез браузера.
		h.writeError(w, http.StatusServiceUnavailable, "TTS не настроен")
		return
	}

	audio, err := h.tts.Synthesize(r.Context(), req.Text)
	if err != nil {
		h.log.Error("tts synthesize failed", "err", err)
		h.writeError(w, http.StatusBadGateway, "ошибка синтеза речи")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", "inline; filename=speech.mp3")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}
