package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/lambda-feedback/warden/internal/notify"
	"github.com/lambda-feedback/warden/internal/supervisor"
	"github.com/lambda-feedback/warden/internal/trigger"
)

// Gateway is the supervisor as seen by the HTTP surface.
type Gateway interface {
	CurrentStatus() supervisor.Status
	StartIfEnabled(ctx context.Context) supervisor.Status
	Restart(ctx context.Context) supervisor.Status
	Stop()
	Info() (supervisor.Info, bool)
}

var _ Gateway = (*supervisor.Supervisor)(nil)

// LoginTrigger runs the post-authentication trigger.
type LoginTrigger interface {
	OnLogin(ctx context.Context, sessionID string) trigger.Result
}

// NotificationFeed holds recently delivered notifications.
type NotificationFeed interface {
	Recent() []notify.Notification
}

type statusResponse struct {
	supervisor.Status
	Process *supervisor.Info `json:"process,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// RequireKey rejects requests whose api-key header does not match key.
// An empty key disables the check.
func RequireKey(key string, next http.Handler, log *zap.Logger) http.Handler {
	if key == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subtle.ConstantTimeCompare([]byte(r.Header.Get("api-key")), []byte(key)) != 1 {
			log.Debug("unauthorized request",
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method))
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any, log *zap.Logger) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to encode response", zap.Error(err))
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(body); err != nil {
		log.Debug("failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string, log *zap.Logger) {
	writeJSON(w, status, errorResponse{Error: msg}, log)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
