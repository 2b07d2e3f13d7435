// Package httpbind exposes a bound form session over HTTP: the schema as
// JSON for clients that render their own UI, and a submit endpoint that
// returns a field-keyed error bag on validation failure.
package httpbind

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formflow/pkg/session"
)

// ErrorBag mirrors the {"errors": {field: [messages]}} payload convention.
type ErrorBag struct {
	Errors map[string][]string `json:"errors"`
	Focus  string              `json:"focus,omitempty"`
}

// Handler routes form requests onto a session.
type Handler struct {
	sess *session.Session
}

// NewHandler wraps a session.
func NewHandler(sess *session.Session) *Handler {
	return &Handler{sess: sess}
}

// Routes builds the chi router: GET / serves the form definition, POST
// /submit validates and submits.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.getForm)
	r.Post("/submit", h.postSubmit)
	return r
}

func (h *Handler) getForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sess.Form())
}

func (h *Handler) postSubmit(w http.ResponseWriter, r *http.Request) {
	values, err := decodeValues(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	for name, value := range values {
		if err := h.sess.Input(name, value); err != nil {
			// Unknown fields are dropped rather than failing the request;
			// the page may post controls the definition does not declare.
			continue
		}
	}

	result, err := h.sess.Submit(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, result)
	case errors.Is(err, session.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, h.errorBag())
	case errors.Is(err, session.ErrSubmissionInFlight):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "submission already in flight"})
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "submission rejected",
			"message": h.sess.FormMessage(),
		})
	}
}

func (h *Handler) errorBag() ErrorBag {
	bag := ErrorBag{Errors: make(map[string][]string)}
	for _, name := range h.sess.Form().FieldNames() {
		state, ok := h.sess.State(name)
		if !ok || state.Valid {
			continue
		}
		bag.Errors[name] = append(bag.Errors[name], state.LastError)
	}
	if focus, ok := h.sess.FirstInvalid(); ok {
		bag.Focus = focus
	}
	return bag
}

func decodeValues(r *http.Request) (map[string]string, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		out := make(map[string]string)
		if err := json.NewDecoder(r.Body).Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(r.PostForm))
	for name := range r.PostForm {
		out[name] = r.PostForm.Get(name)
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
