package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lambda-feedback/warden/internal/notify"
	"github.com/lambda-feedback/warden/internal/settings"
)

// SettingsHandler reads and, for writable providers, updates the gateway
// settings.
type SettingsHandler struct {
	provider settings.Provider
	log      *zap.Logger
}

func NewSettingsHandler(provider settings.Provider, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		provider: provider,
		log:      log.Named("handler.settings"),
	}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.provider.Settings()
	if err != nil {
		h.log.Warn("failed to read settings", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error(), h.log)
		return
	}

	writeJSON(w, http.StatusOK, s, h.log)
}

func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	updater, ok := h.provider.(settings.Updater)
	if !ok {
		writeError(w, http.StatusMethodNotAllowed, settings.ErrReadOnly.Error(), h.log)
		return
	}

	var s settings.Settings
	if err := decodeJSON(r, &s); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.log)
		return
	}

	if err := updater.Update(s); err != nil {
		h.log.Error("failed to update settings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error(), h.log)
		return
	}

	h.log.Info("settings updated",
		zap.Bool("enable_service", s.EnableService),
		zap.String("executable_path", s.ExecutablePath))

	writeJSON(w, http.StatusOK, s, h.log)
}

// NotificationHandler lists recent notifications, oldest first.
type NotificationHandler struct {
	feed NotificationFeed
	log  *zap.Logger
}

func NewNotificationHandler(feed NotificationFeed, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		feed: feed,
		log:  log.Named("handler.notifications"),
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	recent := h.feed.Recent()
	if recent == nil {
		recent = []notify.Notification{}
	}

	writeJSON(w, http.StatusOK, recent, h.log)
}
