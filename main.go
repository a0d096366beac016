package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/foliolens/backend/src/config"
	"github.com/username/foliolens/backend/src/database"
	"github.com/username/foliolens/backend/src/handlers"
	"github.com/username/foliolens/backend/src/logger"
	"github.com/username/foliolens/backend/src/services"
	"github.com/username/foliolens/backend/src/subscriptions"
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
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With")
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

	logger.L.Info("foliolens backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	resultCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)
	priceCache := cache.New(config.Cfg.PriceCacheTTL, 2*config.Cfg.PriceCacheTTL)

	priceService := services.NewPriceService(priceCache)

	thresholds := subscriptions.DefaultThresholds()
	thresholds.AmountToleranceUnits = config.Cfg.SubscriptionAmountTolerance
	detector := subscriptions.NewDetector(thresholds)

	uploadStore := database.NewUploadStore(database.DB)
	importService := services.NewImportService(uploadStore, priceService, detector, resultCache, nil)

	uploadHandler := handlers.NewUploadHandler(importService)
	uploadsHandler := handlers.NewUploadsHandler(importService)
	portfolioHandler := handlers.NewPortfolioHandler(importService)
	subscriptionHandler := handlers.NewSubscriptionHandler(importService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(handlers.RequestLoggingMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "foliolens backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", uploadHandler.HandleUpload)

		r.Get("/uploads", uploadsHandler.HandleList)
		r.Get("/uploads/{id}", uploadsHandler.HandleGet)
		r.Delete("/uploads/{id}", uploadsHandler.HandleDelete)

		r.Get("/uploads/{id}/stats", uploadsHandler.HandleBankStats)
		r.Get("/uploads/{id}/portfolio-value", portfolioHandler.HandleValueSeries)
		r.Get("/uploads/{id}/cashflow", portfolioHandler.HandleCashFlowStats)
		r.Get("/uploads/{id}/subscriptions", subscriptionHandler.HandleSubscriptions)
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
