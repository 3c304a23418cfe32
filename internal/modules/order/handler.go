package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/foodiespos/terminal/internal/format"
	"github.com/foodiespos/terminal/internal/modules/catalog"
)

// Handler exposes the order mutations to the UI shell.
type Handler struct {
	store    *Store
	catalog  catalog.Service
	validate *validator.Validate
}

func NewHandler(store *Store, catalogService catalog.Service) *Handler {
	return &Handler{
		store:    store,
		catalog:  catalogService,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/order", func(r chi.Router) {
		r.Get("/", h.getOrder)                              // GET    /api/v1/order
		r.Post("/items", h.addItem)                         // POST   /api/v1/order/items
		r.Post("/items/customized", h.addCustomizedItem)    // POST   /api/v1/order/items/customized
		r.Delete("/items/selected", h.removeSelected)       // DELETE /api/v1/order/items/selected
		r.Post("/items/{line_id}/select", h.toggleSelect)   // POST   /api/v1/order/items/{line_id}/select
		r.Patch("/items/selected/price", h.setPrice)        // PATCH  /api/v1/order/items/selected/price
		r.Patch("/items/selected/quantity", h.setQuantity)  // PATCH  /api/v1/order/items/selected/quantity
		r.Patch("/discount", h.setDiscount)                 // PATCH  /api/v1/order/discount
		r.Post("/reset", h.reset)                           // POST   /api/v1/order/reset
	})
}

// envelope is the order view returned to the UI: the snapshot plus the
// tax breakdown derived from the chosen agent, computed on read.
type envelope struct {
	Order          Order    `json:"order"`
	TaxAmount      float64  `json:"tax_amount"`
	TotalWithTax   float64  `json:"total_with_tax"`
	TotalFormatted string   `json:"total_formatted"`
	TVARate        *float64 `json:"tva_rate,omitempty"`
}

func (h *Handler) view(o Order) envelope {
	env := envelope{
		Order:          o,
		TotalWithTax:   o.Total,
		TotalFormatted: format.Amount(o.Total),
	}
	if agent := h.catalog.ChosenAgent(); agent != nil {
		env.TaxAmount = Tax(o.Total, agent.TVARate)
		env.TotalWithTax = TotalWithTax(o.Total, agent.TVARate)
		rate := agent.TVARate
		env.TVARate = &rate
	}
	return env
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.view(h.store.Snapshot()))
}

type addItemRequest struct {
	ItemID int64 `json:"item_id" validate:"required"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	item, err := h.catalog.ItemByID(req.ItemID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrItemNotFound) {
			code = http.StatusNotFound
		} else if errors.Is(err, catalog.ErrNotLoaded) {
			code = http.StatusConflict
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, h.view(h.store.AddItem(item)))
}

type addCustomizedRequest struct {
	ItemID int64           `json:"item_id" validate:"required"`
	Added  []Customization `json:"added" validate:"dive"`
}

func (h *Handler) addCustomizedItem(w http.ResponseWriter, r *http.Request) {
	var req addCustomizedRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	item, err := h.catalog.ItemByID(req.ItemID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrItemNotFound) {
			code = http.StatusNotFound
		} else if errors.Is(err, catalog.ErrNotLoaded) {
			code = http.StatusConflict
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, h.view(h.store.AddCustomizedItem(item, req.Added)))
}

func (h *Handler) removeSelected(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.view(h.store.RemoveSelected()))
}

func (h *Handler) toggleSelect(w http.ResponseWriter, r *http.Request) {
	lineID, err := uuid.Parse(chi.URLParam(r, "line_id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid line id"})
		return
	}
	respond(w, http.StatusOK, h.view(h.store.ToggleSelection(lineID)))
}

type setPriceRequest struct {
	Price float64 `json:"price"`
}

func (h *Handler) setPrice(w http.ResponseWriter, r *http.Request) {
	var req setPriceRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	o, err := h.store.SetSelectedPrice(req.Price)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, h.view(o))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	o, err := h.store.SetSelectedQuantity(req.Quantity)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, h.view(o))
}

type setDiscountRequest struct {
	Discount float64      `json:"discount"`
	Type     DiscountType `json:"type" validate:"required"`
}

func (h *Handler) setDiscount(w http.ResponseWriter, r *http.Request) {
	var req setDiscountRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	o, err := h.store.SetDiscount(req.Discount, req.Type)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, h.view(o))
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.view(h.store.Reset()))
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

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
