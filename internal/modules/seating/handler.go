package seating

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler exposes the seating hierarchy to the UI shell.
type Handler struct {
	store    *Store
	validate *validator.Validate
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store, validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/seating", func(r chi.Router) {
		r.Get("/floors", h.floors)                        // GET    /api/v1/seating/floors
		r.Post("/floors/{id}/select", h.selectFloor)      // POST   /api/v1/seating/floors/{id}/select
		r.Post("/floors/selected/areas", h.addArea)       // POST   /api/v1/seating/floors/selected/areas
		r.Get("/areas", h.areas)                          // GET    /api/v1/seating/areas
		r.Post("/areas/{id}/select", h.selectArea)        // POST   /api/v1/seating/areas/{id}/select
		r.Get("/tables", h.tables)                        // GET    /api/v1/seating/tables
		r.Post("/tables", h.addTable)                     // POST   /api/v1/seating/tables
		r.Get("/tables/modified", h.modifiedTables)       // GET    /api/v1/seating/tables/modified
		r.Get("/tables/selected/location", h.location)    // GET    /api/v1/seating/tables/selected/location
		r.Delete("/tables/selection", h.clearSelection)   // DELETE /api/v1/seating/tables/selection
		r.Get("/tables/{id}", h.tableByID)                // GET    /api/v1/seating/tables/{id}
		r.Patch("/tables/{id}", h.updateTable)            // PATCH  /api/v1/seating/tables/{id}
		r.Patch("/tables/{id}/status", h.updateStatus)    // PATCH  /api/v1/seating/tables/{id}/status
		r.Post("/tables/{id}/select", h.selectTable)      // POST   /api/v1/seating/tables/{id}/select
	})
}

func (h *Handler) floors(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.store.Floors())
}

func (h *Handler) selectFloor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.store.SelectFloor(id)
	respond(w, http.StatusOK, h.store.AreasForSelectedFloor())
}

func (h *Handler) areas(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.store.AreasForSelectedFloor())
}

func (h *Handler) selectArea(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.store.SelectArea(id)
	respond(w, http.StatusOK, h.store.TablesForSelectedArea())
}

func (h *Handler) tables(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.store.TablesForSelectedArea())
}

type addTableRequest struct {
	ID       int64       `json:"id" validate:"required"`
	Number   int         `json:"number" validate:"required"`
	Chairs   int         `json:"chairs" validate:"min=0"`
	Geometry Geometry    `json:"geometry"`
	Status   TableStatus `json:"status"`
}

func (h *Handler) addTable(w http.ResponseWriter, r *http.Request) {
	var req addTableRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	if _, err := h.store.TableByID(req.ID); err == nil {
		respond(w, http.StatusConflict, map[string]string{"error": "table id already in use"})
		return
	}
	status := req.Status
	if status == "" {
		status = StatusFree
	}
	h.store.AddTable(Table{
		ID:       req.ID,
		Number:   req.Number,
		Chairs:   req.Chairs,
		Geometry: req.Geometry,
		Status:   status,
	})
	respond(w, http.StatusCreated, h.store.TablesForSelectedArea())
}

func (h *Handler) updateTable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch TablePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.store.UpdateTable(id, patch)
	respond(w, http.StatusOK, h.store.TablesForSelectedArea())
}

type updateStatusRequest struct {
	Status TableStatus `json:"status" validate:"required"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	h.store.UpdateTableStatus(id, req.Status)
	respond(w, http.StatusOK, h.store.TablesForSelectedArea())
}

type addAreaRequest struct {
	ID   int64  `json:"id" validate:"required"`
	Ref  string `json:"ref" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func (h *Handler) addArea(w http.ResponseWriter, r *http.Request) {
	var req addAreaRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	h.store.AddArea(Area{ID: req.ID, Ref: req.Ref, Name: req.Name, Tables: []Table{}})
	respond(w, http.StatusCreated, h.store.AreasForSelectedFloor())
}

func (h *Handler) modifiedTables(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.store.ModifiedTables())
}

func (h *Handler) tableByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	table, err := h.store.TableByID(id)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, table)
}

func (h *Handler) selectTable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.store.SelectTable(id)
	respond(w, http.StatusOK, map[string]string{"status": "table selected"})
}

func (h *Handler) clearSelection(w http.ResponseWriter, r *http.Request) {
	h.store.ClearTableSelection()
	respond(w, http.StatusOK, map[string]string{"status": "selection cleared"})
}

func (h *Handler) location(w http.ResponseWriter, r *http.Request) {
	loc, err := h.store.LocationOfSelectedTable()
	if err != nil {
		code := http.StatusNotFound
		if errors.Is(err, ErrNoTableSelected) {
			code = http.StatusConflict
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, loc)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return err
	}
	if err := h.validate.Struct(dst); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return err
	}
	return nil
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
