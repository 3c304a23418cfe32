package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the catalog read endpoints and tax-agent selection.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Post("/reload", h.reload)         // POST   /api/v1/catalog/reload
		r.Get("/categories", h.categories)  // GET    /api/v1/catalog/categories
		r.Get("/items", h.items)            // GET    /api/v1/catalog/items
		r.Get("/agents", h.agents)          // GET    /api/v1/catalog/agents
		r.Get("/agents/chosen", h.chosen)   // GET    /api/v1/catalog/agents/chosen
		r.Post("/agents/chosen", h.choose)  // POST   /api/v1/catalog/agents/chosen
		r.Delete("/agents/chosen", h.clear) // DELETE /api/v1/catalog/agents/chosen
	})
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Load(r.Context()); err != nil {
		respond(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "catalog loaded"})
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Categories())
}

func (h *Handler) items(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Items())
}

func (h *Handler) agents(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Agents())
}

func (h *Handler) chosen(w http.ResponseWriter, r *http.Request) {
	agent := h.service.ChosenAgent()
	if agent == nil {
		respond(w, http.StatusNoContent, nil)
		return
	}
	respond(w, http.StatusOK, agent)
}

type chooseAgentRequest struct {
	AgentID *int64   `json:"agent_id,omitempty"`
	TVARate *float64 `json:"tva_rate,omitempty"`
}

func (h *Handler) choose(w http.ResponseWriter, r *http.Request) {
	var req chooseAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	switch {
	case req.AgentID != nil:
		if err := h.service.ChooseAgent(*req.AgentID); err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, ErrAgentNotFound) {
				code = http.StatusNotFound
			}
			respond(w, code, map[string]string{"error": err.Error()})
			return
		}
	case req.TVARate != nil:
		h.service.ChooseCustomRate(*req.TVARate)
	default:
		respond(w, http.StatusBadRequest, map[string]string{"error": "agent_id or tva_rate is required"})
		return
	}

	respond(w, http.StatusOK, h.service.ChosenAgent())
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	h.service.ClearAgent()
	respond(w, http.StatusOK, map[string]string{"status": "agent cleared"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}
