package main

import (
	"net/http"
	"os"

	"gratifpanel/internal/config"
	"gratifpanel/internal/handler"
	"gratifpanel/internal/middleware"
	"gratifpanel/internal/repository"
	"gratifpanel/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.NewLogger().Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	// --- Database ---
	db, err := repository.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL")

	// --- Repositories ---
	gratRepo := repository.NewGratificacaoRepository(db)
	logRepo := repository.NewImportacaoLogRepository(db)

	// --- Services ---
	importService := service.NewImportService(gratRepo, logRepo, logger)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg)
	importHandler := handler.NewImportHandler(importService)

	// --- Router ---
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	authHandler.RegisterRoutes(mux)
	importHandler.RegisterRoutes(mux)

	// --- Static front-end (production) ---
	// Serve the upload UI from web/ if it exists.
	staticDir := "web"
	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		fs := http.FileServer(http.Dir(staticDir))
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			path := staticDir + r.URL.Path
			if _, err := os.Stat(path); err == nil {
				fs.ServeHTTP(w, r)
				return
			}
			http.ServeFile(w, r, staticDir+"/index.html")
		})
		logger.WithField("dir", staticDir).Info("serving front-end")
	}

	// --- Server ---
	addr := ":" + cfg.Port
	logger.WithField("addr", addr).Info("GratifPanel server starting")

	wrappedMux := middleware.CORS(mux)
	if err := http.ListenAndServe(addr, wrappedMux); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
