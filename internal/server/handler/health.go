package handler

import (
	"log/slog"
	"net/http"
	"time"
)

// Integrations reports which external collaborators have credentials.
type Integrations struct {
	OneInch bool `json:"oneinch"`
	Pendle  bool `json:"pendle"`
	Octav   bool `json:"octav"`
}

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	integrations Integrations
	chains       []int
	logger       *slog.Logger
}

// NewHealthHandler creates a HealthHandler reporting the given integration
// state and supported chains.
func NewHealthHandler(integrations Integrations, chains []int, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{integrations: integrations, chains: chains, logger: logger}
}

type healthResponse struct {
	Status       string       `json:"status"`
	Timestamp    string       `json:"timestamp"`
	Integrations Integrations `json:"integrations"`
	Chains       []int        `json:"chains"`
}

// HealthCheck responds with liveness and integration status.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	chains := h.chains
	if chains == nil {
		chains = []int{}
	}
	writeSuccess(w, healthResponse{
		Status:       "ok",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Integrations: h.integrations,
		Chains:       chains,
	})
}
