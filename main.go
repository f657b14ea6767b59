package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/stockfolio/src/config"
	"github.com/username/stockfolio/src/database"
	"github.com/username/stockfolio/src/handlers"
	"github.com/username/stockfolio/src/logger"
	"github.com/username/stockfolio/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == config.Cfg.FrontendBaseURL {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Stockfolio backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	priceCache := cache.New(config.Cfg.PriceCacheTTL, services.CacheCleanupInterval)

	priceService := services.NewPriceService(database.DB, priceCache)
	ledgerService := services.NewLedgerService(database.DB)
	positionService := services.NewPositionService(database.DB, priceService)
	tradeService := services.NewTradeService(database.DB, priceService)
	rebalanceService := services.NewRebalanceService(priceService)

	balanceHandler := handlers.NewBalanceHandler(ledgerService)
	positionHandler := handlers.NewPositionHandler(positionService)
	priceHandler := handlers.NewPriceHandler(priceService)
	tradeHandler := handlers.NewTradeHandler(tradeService)
	rebalanceHandler := handlers.NewRebalanceHandler(positionService, rebalanceService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Stockfolio Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/balance", balanceHandler.HandleAddBalance)
		r.Get("/balance", balanceHandler.HandleGetBalance)

		r.Get("/positions", positionHandler.HandleListPositions)
		r.Post("/positions", positionHandler.HandleAddStocks)
		r.Delete("/positions/{stock}", positionHandler.HandleRemovePosition)

		r.Get("/prices/{stock}", priceHandler.HandleGetLatestPrice)
		r.Post("/prices/import", priceHandler.HandleImportPrices)

		r.Post("/trades/buy", tradeHandler.HandleBuy)

		r.Post("/rebalance", rebalanceHandler.HandleRebalance)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
