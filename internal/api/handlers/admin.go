package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilbhutani/chatbot-backend/internal/company"
	"github.com/nikhilbhutani/chatbot-backend/internal/models"
)

// Enqueuer schedules background assistant syncs. Nil means sync stays manual.
type Enqueuer interface {
	EnqueueAssistantSync(siteID string) error
}

// AdminHandler is the tenant configuration CRUD surface.
type AdminHandler struct {
	store company.Store
	queue Enqueuer
}

func NewAdminHandler(store company.Store, queue Enqueuer) *AdminHandler {
	return &AdminHandler{store: store, queue: queue}
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if v := r.URL.Query().Get("active_only"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			activeOnly = b
		}
	}

	companies, err := h.store.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}

	docs := make([]*models.CompanyDoc, 0, len(companies))
	for _, c := range companies {
		docs = append(docs, c.Doc())
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Get(r.Context(), chi.URLParam(r, "site_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Doc())
}

func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params company.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if params.SiteID == "" || params.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "site_id and name required"})
		return
	}

	c, err := h.store.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c.Doc())
}

func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "site_id")

	var patch company.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	c, err := h.store.Update(r.Context(), siteID, &patch)
	if err != nil {
		writeError(w, err)
		return
	}

	if patch.TouchesAssistant() {
		h.scheduleSync(siteID)
	}
	writeJSON(w, http.StatusOK, c.Doc())
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "site_id")
	permanent := r.URL.Query().Get("permanent") == "true"

	if err := h.store.Delete(r.Context(), siteID, permanent); err != nil {
		writeError(w, err)
		return
	}

	if permanent {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Company '" + siteID + "' permanently deleted",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Company '" + siteID + "' deactivated",
	})
}

func (h *AdminHandler) Activate(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "site_id")

	c, err := h.store.Activate(r.Context(), siteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Company '" + siteID + "' activated",
		"company": c.Doc(),
	})
}

type knowledgeUpdate struct {
	KnowledgeBase *string `json:"knowledge_base"`
}

func (h *AdminHandler) UpdateKnowledge(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "site_id")

	var body knowledgeUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.KnowledgeBase == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "knowledge_base required"})
		return
	}

	c, err := h.store.UpdateKnowledge(r.Context(), siteID, *body.KnowledgeBase)
	if err != nil {
		writeError(w, err)
		return
	}

	h.scheduleSync(siteID)
	writeJSON(w, http.StatusOK, c.Doc())
}

func (h *AdminHandler) scheduleSync(siteID string) {
	if h.queue == nil {
		return
	}
	if err := h.queue.EnqueueAssistantSync(siteID); err != nil {
		slog.Warn("assistant sync enqueue failed", "site_id", siteID, "error", err)
	}
}
