// Package api exposes the effect catalog to a parameter-entry UI over JSON.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vk/beatfx/internal/effects"
	"github.com/vk/beatfx/internal/session"
)

// maxBodyBytes caps request bodies; a value set is a handful of integers.
const maxBodyBytes = 64 << 10

type effectView struct {
	*effects.Definition
	Defaults map[string]int `json:"defaults"`
}

type validationView struct {
	Error *string `json:"error"`
}

type errorView struct {
	Error string `json:"error"`
}

// Handler serves the catalog endpoints and the per-user selection sessions.
type Handler struct {
	logger   *slog.Logger
	mux      *http.ServeMux
	sessions *session.Store
}

// NewHandler builds the routing table.
func NewHandler(logger *slog.Logger) *Handler {
	h := &Handler{logger: logger, mux: http.NewServeMux(), sessions: session.NewStore()}
	h.mux.HandleFunc("GET /health", h.health)
	h.mux.HandleFunc("GET /effects", h.listEffects)
	h.mux.HandleFunc("GET /effects/{id}/defaults", h.defaults)
	h.mux.HandleFunc("POST /effects/{id}/validate", h.validate)
	h.mux.HandleFunc("POST /effects/{id}/serialize", h.serialize)
	h.mux.HandleFunc("POST /sessions", h.openSession)
	h.mux.HandleFunc("GET /sessions/{sid}", h.getSession)
	h.mux.HandleFunc("DELETE /sessions/{sid}", h.closeSession)
	h.mux.HandleFunc("PUT /sessions/{sid}/effect", h.selectEffect)
	h.mux.HandleFunc("PATCH /sessions/{sid}/values", h.updateValues)
	h.mux.HandleFunc("GET /sessions/{sid}/payload", h.sessionPayload)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("API request.", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (h *Handler) listEffects(w http.ResponseWriter, _ *http.Request) {
	defs := effects.List()
	out := make([]effectView, 0, len(defs))
	for _, def := range defs {
		out = append(out, effectView{Definition: def, Defaults: def.DefaultMap()})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) defaults(w http.ResponseWriter, r *http.Request) {
	def, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, def.DefaultMap())
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	def, ok := h.lookup(w, r)
	if !ok {
		return
	}
	values, ok := h.decodeValues(w, r, def)
	if !ok {
		return
	}

	var view validationView
	if err := effects.Validate(def, values); err != nil {
		msg := err.Error()
		view.Error = &msg
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) serialize(w http.ResponseWriter, r *http.Request) {
	def, ok := h.lookup(w, r)
	if !ok {
		return
	}
	values, ok := h.decodeValues(w, r, def)
	if !ok {
		return
	}

	err := effects.CheckBounds(values)
	if err == nil {
		err = effects.Validate(def, values)
	}
	if err != nil {
		h.writeJSON(w, http.StatusUnprocessableEntity, errorView{Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, effects.Payload{Type: def.ID, Params: effects.Serialize(def, values)})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*effects.Definition, bool) {
	id := r.PathValue("id")
	def, ok := effects.Lookup(id)
	if !ok {
		h.writeJSON(w, http.StatusNotFound, errorView{Error: fmt.Sprintf("%v: '%s'", effects.ErrUnknownEffect, id)})
	}
	return def, ok
}

func (h *Handler) decodeValues(w http.ResponseWriter, r *http.Request, def *effects.Definition) (effects.Values, bool) {
	var raw map[string]int
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorView{Error: "invalid JSON body: " + err.Error()})
		return effects.Values{}, false
	}

	values, err := effects.NewValues(def, raw)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, effects.ErrIncomplete) && !errors.Is(err, effects.ErrUnknownParam) {
			status = http.StatusInternalServerError
		}
		h.writeJSON(w, status, errorView{Error: err.Error()})
		return effects.Values{}, false
	}
	return values, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to write API response.", "error", err)
	}
}
