package pos

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foodiespos/terminal/internal/modules/order"
)

// Handler exposes the sitting-level operations to the UI shell.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/pos", func(r chi.Router) {
		r.Post("/submit", h.submit)                  // POST /api/v1/pos/submit
		r.Post("/payments", h.pay)                   // POST /api/v1/pos/payments
		r.Post("/payments/preview", h.preview)       // POST /api/v1/pos/payments/preview
		r.Post("/bill/print", h.printBill)           // POST /api/v1/pos/bill/print
		r.Patch("/guests", h.setGuests)              // PATCH /api/v1/pos/guests
		r.Post("/detach", h.detach)                  // POST /api/v1/pos/detach
		r.Post("/tables/sync", h.syncTables)         // POST /api/v1/pos/tables/sync
		r.Post("/keypad", h.keypad)                  // POST /api/v1/pos/keypad
		r.Get("/transferable", h.transferable)       // GET  /api/v1/pos/transferable
	})
}

type submitRequest struct {
	OrderType OrderType `json:"order_type" validate:"required"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	id, err := h.service.SubmitOrder(r.Context(), req.OrderType)
	if err != nil {
		if errors.Is(err, ErrPrintFailed) {
			// The order exists remotely; the shell should surface the
			// print failure but keep the assigned id.
			respond(w, http.StatusAccepted, map[string]interface{}{"order_id": id, "warning": err.Error()})
			return
		}
		respond(w, h.statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, map[string]int64{"order_id": id})
}

type payRequest struct {
	Splits []PaymentSplit `json:"splits" validate:"required,min=1,dive"`
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	summary, err := h.service.Pay(r.Context(), req.Splits)
	if err != nil {
		if errors.Is(err, ErrPrintFailed) {
			respond(w, http.StatusAccepted, map[string]interface{}{"summary": summary, "warning": err.Error()})
			return
		}
		respond(w, h.statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, summary)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, h.service.Preview(req.Splits))
}

func (h *Handler) printBill(w http.ResponseWriter, r *http.Request) {
	if err := h.service.PrintBill(r.Context()); err != nil {
		respond(w, h.statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "bill printed"})
}

type guestsRequest struct {
	Guests int `json:"guests"`
}

func (h *Handler) setGuests(w http.ResponseWriter, r *http.Request) {
	var req guestsRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	if err := h.service.SetGuests(r.Context(), req.Guests); err != nil {
		respond(w, h.statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]int{"guests": req.Guests})
}

func (h *Handler) detach(w http.ResponseWriter, r *http.Request) {
	h.service.DetachTable()
	respond(w, http.StatusOK, map[string]string{"status": "table detached"})
}

func (h *Handler) syncTables(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SyncTables(r.Context()); err != nil {
		respond(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "tables synced"})
}

type keypadRequest struct {
	Action KeypadAction `json:"action" validate:"required"`
	Value  float64      `json:"value"`
}

func (h *Handler) keypad(w http.ResponseWriter, r *http.Request) {
	var req keypadRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	if err := h.service.ApplyKeypad(req.Action, req.Value); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "applied"})
}

func (h *Handler) transferable(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]bool{"transferable": h.service.Transferable()})
}

func (h *Handler) statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrNoTableSelected),
		errors.Is(err, ErrOrderNotPersisted):
		return http.StatusConflict
	case errors.Is(err, ErrNoPayments),
		errors.Is(err, ErrUnknownOrderType),
		errors.Is(err, ErrUnknownMethod),
		errors.Is(err, ErrUnknownAction),
		errors.Is(err, order.ErrInvalidGuests):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
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
