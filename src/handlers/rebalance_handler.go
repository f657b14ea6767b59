package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/stockfolio/src/logger"
	"github.com/username/stockfolio/src/services"
	"github.com/username/stockfolio/src/utils"
)

type RebalanceHandler struct {
	positionService  services.PositionService
	rebalanceService services.RebalanceService
}

func NewRebalanceHandler(positionService services.PositionService, rebalanceService services.RebalanceService) *RebalanceHandler {
	return &RebalanceHandler{
		positionService:  positionService,
		rebalanceService: rebalanceService,
	}
}

// rebalanceRequest carries the target ratios for this computation only.
// Ratios are never persisted; each rebalance call supplies its own.
type rebalanceRequest struct {
	Ratios map[string]float64 `json:"ratios"`
}

func (h *RebalanceHandler) HandleRebalance(w http.ResponseWriter, r *http.Request) {
	var req rebalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	for stock, ratio := range req.Ratios {
		if ratio < 0 || ratio > 1 {
			utils.SendJSONError(w, "Target ratio for "+stock+" must be in [0,1]", http.StatusBadRequest)
			return
		}
	}

	positions, err := h.positionService.List(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list positions for rebalance", "error", err)
		utils.SendJSONError(w, "Failed to list positions", http.StatusInternalServerError)
		return
	}
	if len(positions) == 0 {
		utils.SendJSONError(w, "No stocks in the portfolio to rebalance", http.StatusBadRequest)
		return
	}

	plan := h.rebalanceService.ComputePlan(r.Context(), positions, req.Ratios)
	utils.SendJSON(w, plan, http.StatusOK)
}
