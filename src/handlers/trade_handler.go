package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/stockfolio/src/logger"
	"github.com/username/stockfolio/src/models"
	"github.com/username/stockfolio/src/services"
	"github.com/username/stockfolio/src/utils"
)

type TradeHandler struct {
	tradeService services.TradeService
}

func NewTradeHandler(tradeService services.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

type buyRequest struct {
	Stock string  `json:"stock"`
	Lots  float64 `json:"lots"`
}

func (h *TradeHandler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Stock == "" {
		utils.SendJSONError(w, "Stock symbol is required", http.StatusBadRequest)
		return
	}

	result, err := h.tradeService.Buy(r.Context(), req.Stock, req.Lots)
	switch {
	case errors.Is(err, models.ErrInvalidLots):
		utils.SendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, models.ErrPriceUnavailable):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, models.ErrInsufficientFunds):
		utils.SendJSONError(w, err.Error(), http.StatusPaymentRequired)
		return
	case errors.Is(err, models.ErrUnknownPosition):
		utils.SendJSONError(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		logger.FromContext(r.Context()).Error("Buy failed", "stock", req.Stock, "error", err)
		utils.SendJSONError(w, "Failed to execute buy", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, result, http.StatusOK)
}
