package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler exposes session sign-in and the manager override check.
type Handler struct {
	service  *Service
	session  *Session
	validate *validator.Validate
}

func NewHandler(service *Service, session *Session) *Handler {
	return &Handler{
		service:  service,
		session:  session,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/", h.current)              // GET  /api/v1/session
		r.Post("/sign-in", h.signIn)       // POST /api/v1/session/sign-in
		r.Post("/sign-out", h.signOut)     // POST /api/v1/session/sign-out
		r.Post("/override", h.override)    // POST /api/v1/session/override
	})
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	user, ok := h.session.User()
	if !ok || !h.session.Authenticated() {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "no active session"})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"user":               user,
		"can_apply_discount": h.service.CanApplyDiscount(),
	})
}

type signInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}
	user, err := h.service.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, ErrInvalidCredentials) {
			code = http.StatusUnauthorized
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, user)
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	h.service.SignOut()
	respond(w, http.StatusOK, map[string]string{"status": "signed out"})
}

type overrideRequest struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	PIN      string `json:"pin,omitempty"`
}

func (h *Handler) override(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := h.decode(w, r, &req); err != nil {
		return
	}

	var err error
	if req.PIN != "" {
		err = h.service.OverrideWithPIN(req.PIN)
	} else {
		err = h.service.Override(r.Context(), req.Username, req.Password)
	}
	if err != nil {
		code := http.StatusBadGateway
		switch {
		case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrNotManager):
			code = http.StatusForbidden
		case errors.Is(err, ErrNoOverridePIN):
			code = http.StatusConflict
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "override granted"})
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
