package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vk/beatfx/internal/effects"
	"github.com/vk/beatfx/internal/session"
)

type sessionView struct {
	ID     string         `json:"id"`
	Effect effects.ID     `json:"effect"`
	Values map[string]int `json:"values"`
	Error  *string        `json:"error"`
}

type selectRequest struct {
	Effect string `json:"effect"`
}

func newSessionView(id string, s *session.Selector) sessionView {
	st := s.State()
	view := sessionView{ID: id, Effect: st.Effect, Values: st.Values}
	if st.Err != nil {
		msg := st.Err.Error()
		view.Error = &msg
	}
	return view
}

func (h *Handler) openSession(w http.ResponseWriter, _ *http.Request) {
	id, s := h.sessions.Open()
	h.logger.Debug("Session opened.", "session", id)
	h.writeJSON(w, http.StatusCreated, newSessionView(id, s))
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, newSessionView(id, s))
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("sid")
	if err := h.sessions.Close(id); err != nil {
		h.writeJSON(w, http.StatusNotFound, errorView{Error: err.Error()})
		return
	}
	h.logger.Debug("Session closed.", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

// selectEffect switches the session's effect; the values restart from the
// new effect's defaults.
func (h *Handler) selectEffect(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if err := s.Select(req.Effect); err != nil {
		h.writeJSON(w, http.StatusNotFound, errorView{Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, newSessionView(id, s))
}

func (h *Handler) updateValues(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	var values map[string]int
	if !h.decodeBody(w, r, &values) {
		return
	}
	if err := s.Update(values); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorView{Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, newSessionView(id, s))
}

func (h *Handler) sessionPayload(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	payload, err := s.Payload()
	if err != nil {
		h.writeJSON(w, http.StatusUnprocessableEntity, errorView{Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, *session.Selector, bool) {
	id := r.PathValue("sid")
	s, err := h.sessions.Get(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrNotFound) {
			status = http.StatusNotFound
		}
		h.writeJSON(w, status, errorView{Error: err.Error()})
		return "", nil, false
	}
	return id, s, true
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorView{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}
