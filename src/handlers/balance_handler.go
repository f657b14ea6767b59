package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/stockfolio/src/logger"
	"github.com/username/stockfolio/src/services"
	"github.com/username/stockfolio/src/utils"
)

type BalanceHandler struct {
	ledgerService services.LedgerService
}

func NewBalanceHandler(ledgerService services.LedgerService) *BalanceHandler {
	return &BalanceHandler{
		ledgerService: ledgerService,
	}
}

type addBalanceRequest struct {
	Amount float64 `json:"amount"`
}

func (h *BalanceHandler) HandleAddBalance(w http.ResponseWriter, r *http.Request) {
	var req addBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Amount < 0 {
		utils.SendJSONError(w, "Amount to add must not be negative", http.StatusBadRequest)
		return
	}

	newBalance, err := h.ledgerService.AdjustBalance(r.Context(), req.Amount)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to adjust balance", "error", err)
		utils.SendJSONError(w, "Failed to adjust balance", http.StatusInternalServerError)
		return
	}

	logger.FromContext(r.Context()).Info("Balance adjusted", "amount", req.Amount, "newBalance", newBalance)
	utils.SendJSON(w, map[string]float64{"balance": newBalance}, http.StatusOK)
}

func (h *BalanceHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerService.GetBalance(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to read balance", "error", err)
		utils.SendJSONError(w, "Failed to read balance", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, map[string]float64{"balance": balance}, http.StatusOK)
}
