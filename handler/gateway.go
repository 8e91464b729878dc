package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lambda-feedback/warden/internal/supervisor"
)

// GatewayHandler exposes status and manual control of the gateway.
type GatewayHandler struct {
	gateway Gateway
	log     *zap.Logger
}

func NewGatewayHandler(gateway Gateway, log *zap.Logger) *GatewayHandler {
	return &GatewayHandler{
		gateway: gateway,
		log:     log.Named("handler.gateway"),
	}
}

func (h *GatewayHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.gateway.CurrentStatus())
}

func (h *GatewayHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.gateway.StartIfEnabled(r.Context()))
}

func (h *GatewayHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.gateway.Stop()
	h.respond(w, h.gateway.CurrentStatus())
}

func (h *GatewayHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.gateway.Restart(r.Context()))
}

func (h *GatewayHandler) respond(w http.ResponseWriter, status supervisor.Status) {
	res := statusResponse{Status: status}

	if info, ok := h.gateway.Info(); ok && status.Running {
		res.Process = &info
	}

	writeJSON(w, http.StatusOK, res, h.log)
}
