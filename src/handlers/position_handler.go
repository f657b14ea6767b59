package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/username/stockfolio/src/logger"
	"github.com/username/stockfolio/src/models"
	"github.com/username/stockfolio/src/services"
	"github.com/username/stockfolio/src/utils"
)

type PositionHandler struct {
	positionService services.PositionService
}

func NewPositionHandler(positionService services.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

// addStocksRequest carries the raw token list exactly as typed into the
// form: symbols separated by whitespace.
type addStocksRequest struct {
	Symbols string `json:"symbols"`
}

func (h *PositionHandler) HandleAddStocks(w http.ResponseWriter, r *http.Request) {
	var req addStocksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	symbols := strings.Fields(req.Symbols)
	if len(symbols) == 0 {
		utils.SendJSONError(w, "No stock symbols provided", http.StatusBadRequest)
		return
	}

	accepted, rejected, err := h.positionService.Register(r.Context(), symbols)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to register stock symbols", "error", err)
		utils.SendJSONError(w, "Failed to register stock symbols", http.StatusInternalServerError)
		return
	}

	if accepted == nil {
		accepted = []string{}
	}
	if rejected == nil {
		rejected = []string{}
	}
	utils.SendJSON(w, map[string][]string{
		"accepted": accepted,
		"rejected": rejected,
	}, http.StatusOK)
}

func (h *PositionHandler) HandleListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.positionService.List(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list positions", "error", err)
		utils.SendJSONError(w, "Failed to list positions", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, positions, http.StatusOK)
}

func (h *PositionHandler) HandleRemovePosition(w http.ResponseWriter, r *http.Request) {
	stock := chi.URLParam(r, "stock")
	if stock == "" {
		utils.SendJSONError(w, "Stock symbol is required", http.StatusBadRequest)
		return
	}
	force := r.URL.Query().Get("force") == "true"

	err := h.positionService.Remove(r.Context(), stock, force)
	if errors.Is(err, models.ErrPositionHasLots) {
		utils.SendJSONError(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to remove position", "stock", stock, "error", err)
		utils.SendJSONError(w, "Failed to remove position", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
