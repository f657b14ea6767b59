package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/stockfolio/src/config"
	"github.com/username/stockfolio/src/logger"
	"github.com/username/stockfolio/src/models"
	"github.com/username/stockfolio/src/services"
	"github.com/username/stockfolio/src/utils"
)

type PriceHandler struct {
	priceService services.PriceService
}

func NewPriceHandler(priceService services.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

func (h *PriceHandler) HandleGetLatestPrice(w http.ResponseWriter, r *http.Request) {
	stock := chi.URLParam(r, "stock")
	if stock == "" {
		utils.SendJSONError(w, "Stock symbol is required", http.StatusBadRequest)
		return
	}

	price, err := h.priceService.LatestPrice(r.Context(), stock)
	if errors.Is(err, models.ErrPriceUnavailable) {
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to read latest price", "stock", stock, "error", err)
		utils.SendJSONError(w, "Failed to read latest price", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, map[string]interface{}{"stock": stock, "price": price}, http.StatusOK)
}

// HandleImportPrices loads a CSV body of stock,date,close rows into the
// price catalog. The body size is capped by MAX_IMPORT_SIZE_BYTES.
func (h *PriceHandler) HandleImportPrices(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxImportSizeBytes)

	imported, err := h.priceService.ImportCSV(r.Context(), r.Body)
	if err != nil {
		logger.FromContext(r.Context()).Error("Price import failed", "error", err)
		utils.SendJSONError(w, "Price import failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	utils.SendJSON(w, map[string]int{"imported": imported}, http.StatusOK)
}
