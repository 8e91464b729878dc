package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lambda-feedback/warden/internal/session"
)

type loginRequest struct {
	Session   string `json:"session"`
	Autostart *bool  `json:"autostart,omitempty"`
}

type logoutRequest struct {
	Session string `json:"session"`
}

// SessionHandler receives login and logout events of the host
// application.
type SessionHandler struct {
	login    LoginTrigger
	sessions session.Store
	log      *zap.Logger
}

func NewSessionHandler(login LoginTrigger, sessions session.Store, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		login:    login,
		sessions: sessions,
		log:      log.Named("handler.session"),
	}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.log)
		return
	}

	if req.Session == "" {
		writeError(w, http.StatusBadRequest, "session is required", h.log)
		return
	}

	if req.Autostart != nil {
		if err := session.SetAutostart(h.sessions, req.Session, *req.Autostart); err != nil {
			h.log.Error("failed to store autostart preference", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to store preference", h.log)
			return
		}
	}

	writeJSON(w, http.StatusOK, h.login.OnLogin(r.Context(), req.Session), h.log)
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := decodeJSON(r, &req); err != nil || req.Session == "" {
		writeError(w, http.StatusBadRequest, "session is required", h.log)
		return
	}

	if err := h.sessions.Clear(req.Session); err != nil {
		h.log.Error("failed to clear session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to clear session", h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
