package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	billStore "github.com/MrJamesThe3rd/sharemal/internal/bill/store"
	"github.com/MrJamesThe3rd/sharemal/internal/config"
	"github.com/MrJamesThe3rd/sharemal/internal/database"
	sharemalHttp "github.com/MrJamesThe3rd/sharemal/internal/http"
	billHandler "github.com/MrJamesThe3rd/sharemal/internal/http/bill"
	importHandler "github.com/MrJamesThe3rd/sharemal/internal/http/importcsv"
	"github.com/MrJamesThe3rd/sharemal/internal/importer"
	"github.com/MrJamesThe3rd/sharemal/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	db, err := database.New(cfg.DB.Driver, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db, cfg.DB.Driver); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var (
		billService   = bill.NewService(billStore.New(db, cfg.DB.Driver))
		importService = importer.NewService()
	)

	var (
		billH   = billHandler.NewHandler(billService)
		importH = importHandler.NewHandler(importService, billService)
	)

	router := sharemalHttp.New(sharemalHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
		DB:             db,
	}, billH, importH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "driver", cfg.DB.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}

	slog.Info("server stopped")
}
