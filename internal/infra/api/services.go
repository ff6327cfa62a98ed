package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/eywa-space/crm/internal/domain/services"
)

type categoryJSON struct {
	ID          int64   `json:"id"`
	PublicID    string  `json:"public_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Accent      string  `json:"accent"`
}

func toCategoryJSON(c services.Category) categoryJSON {
	return categoryJSON{
		ID:          c.ID,
		PublicID:    c.PublicID,
		Name:        c.Name,
		Description: c.Description,
		Accent:      c.Accent,
	}
}

type serviceJSON struct {
	ID          int64   `json:"id"`
	PublicID    string  `json:"public_id"`
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Price       int     `json:"price"`
	PriceLabel  string  `json:"price_label"`
	Billing     string  `json:"billing"`
	Hint        *string `json:"hint"`
	Description *string `json:"description"`
	Duration    *string `json:"duration"`
	Trainer     *string `json:"trainer"`
}

func toServiceJSON(s services.Service) serviceJSON {
	return serviceJSON{
		ID:          s.ID,
		PublicID:    s.PublicID,
		CategoryID:  s.CategoryID,
		Name:        s.Name,
		Price:       s.Price,
		PriceLabel:  s.PriceLabel,
		Billing:     string(s.Billing),
		Hint:        s.Hint,
		Description: s.Description,
		Duration:    s.Duration,
		Trainer:     s.Trainer,
	}
}

func (h *Handler) listServiceCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.services.ListCategories(r.Context())
	if err != nil {
		h.log.Error("list service categories failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	out := make([]categoryJSON, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryJSON(c))
	}
	h.writeJSON(w, http.StatusOK, out)
}

type categoryCreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Accent      string  `json:"accent"`
}

func (h *Handler) createServiceCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	c, err := h.services.CreateCategory(r.Context(), req.Name, req.Description, req.Accent)
	if err != nil {
		h.log.Error("create service category failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	h.writeJSON(w, http.StatusCreated, toCategoryJSON(*c))
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	var categoryID int64
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "category_id must be a number")
			return
		}
		categoryID = id
	}

	list, err := h.services.ListServices(r.Context(), categoryID)
	if err != nil {
		h.log.Error("list services failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list services")
		return
	}
	out := make([]serviceJSON, 0, len(list))
	for _, s := range list {
		out = append(out, toServiceJSON(s))
	}
	h.writeJSON(w, http.StatusOK, out)
}

type serviceCreateRequest struct {
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Price       int     `json:"price"`
	PriceLabel  string  `json:"price_label"`
	Billing     string  `json:"billing"`
	Hint        *string `json:"hint"`
	Description *string `json:"description"`
	Duration    *string `json:"duration"`
	Trainer     *string `json:"trainer"`
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	var req serviceCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.CategoryID == 0 {
		h.writeError(w, http.StatusBadRequest, "name and category_id are required")
		return
	}

	s, err := h.services.CreateService(r.Context(), services.Service{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Price:       req.Price,
		PriceLabel:  req.PriceLabel,
		Billing:     services.Billing(req.Billing),
		Hint:        req.Hint,
		Description: req.Description,
		Duration:    req.Duration,
		Trainer:     req.Trainer,
	})
	if err != nil {
		h.log.Error("create service failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create service")
		return
	}
	h.writeJSON(w, http.StatusCreated, toServiceJSON(*s))
}
