package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feuilletemps/internal/config"
	"feuilletemps/internal/gateway"
	"feuilletemps/internal/handler"
	"feuilletemps/internal/i18n"
	"feuilletemps/internal/service"
	"feuilletemps/internal/state"
	"feuilletemps/internal/store"
)

func main() {
	cfg := config.Load()
	i18n.Init(cfg.DefaultLocale)

	// Remote store client. All persistence and auth go through it.
	gw := gateway.NewClient(cfg.StoreURL, cfg.StoreAnonKey)

	// Stores
	profileStore := store.NewProfileStore(gw)
	timesheetStore := store.NewTimesheetStore(gw)
	catalogStore := store.NewCatalogStore(gw)

	// Services
	timesheetSvc := service.NewTimesheetService(profileStore, timesheetStore)
	catalogSvc := service.NewCatalogService(catalogStore, profileStore)
	analysisSvc := service.NewAnalysisService()

	sessions := state.NewManager()

	// Routes
	mux := http.NewServeMux()
	handler.NewAuthHandler(gw, sessions, timesheetSvc, catalogSvc).RegisterRoutes(mux)
	handler.NewTimesheetHandler(timesheetSvc, sessions).RegisterRoutes(mux)
	handler.NewCatalogHandler(catalogSvc, sessions).RegisterRoutes(mux)
	handler.NewAnalysisHandler(analysisSvc, sessions).RegisterRoutes(mux)
	handler.NewExportHandler(analysisSvc, sessions).RegisterRoutes(mux)
	handler.NewSettingsHandler(cfg, sessions).RegisterRoutes(mux)

	// Health checks
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.LoggingMiddleware(handler.LocaleMiddleware(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Timesheet service started on :%s (env: %s, store: %s)", cfg.Port, cfg.Env, cfg.StoreURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}
