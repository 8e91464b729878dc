package handler

import (
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/warden/config"
	"github.com/lambda-feedback/warden/internal/metrics"
	"github.com/lambda-feedback/warden/internal/server"
)

type APIRouteParams struct {
	fx.In

	Config        config.Config
	Gateway       *GatewayHandler
	Session       *SessionHandler
	Settings      *SettingsHandler
	Notifications *NotificationHandler
	Log           *zap.Logger
}

// NewAPIMux registers the /api routes.
func NewAPIMux(params APIRouteParams) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/gateway/status", params.Gateway.Status)
	mux.HandleFunc("POST /api/gateway/start", params.Gateway.Start)
	mux.HandleFunc("POST /api/gateway/stop", params.Gateway.Stop)
	mux.HandleFunc("POST /api/gateway/restart", params.Gateway.Restart)

	mux.HandleFunc("POST /api/session/login", params.Session.Login)
	mux.HandleFunc("POST /api/session/logout", params.Session.Logout)

	mux.HandleFunc("GET /api/settings", params.Settings.Get)
	mux.HandleFunc("PUT /api/settings", params.Settings.Put)

	mux.HandleFunc("GET /api/notifications", params.Notifications.List)

	return RequireKey(params.Config.Auth.Key, mux, params.Log.Named("handler.auth"))
}

func NewAPIRoute(params APIRouteParams) server.HttpHandlerResult {
	return server.AsHttpHandler("/api/", NewAPIMux(params))
}

func NewMetricsRoute(m *metrics.Metrics) server.HttpHandlerResult {
	return server.AsHttpHandler("GET /metrics", m.Handler())
}

func NewHealthRoute() server.HttpHandlerResult {
	return server.AsHttpHandler("GET /health", http.HandlerFunc(HealthHandler))
}
