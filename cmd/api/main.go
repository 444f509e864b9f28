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

	"github.com/MrJamesThe3rd/pocketbook/internal/account"
	accountStore "github.com/MrJamesThe3rd/pocketbook/internal/account/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	categoryStore "github.com/MrJamesThe3rd/pocketbook/internal/category/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/config"
	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/export"
	pocketbookHttp "github.com/MrJamesThe3rd/pocketbook/internal/http"
	accountHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/account"
	categoryHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/category"
	exportHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/importfile"
	txHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/transaction"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
	txStore "github.com/MrJamesThe3rd/pocketbook/internal/transaction/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(cfg.ConnectionString()); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.New(cfg.ConnectionString(), database.WithPool(database.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}))
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	defaultKind, err := category.ParseKind(cfg.Import.DefaultKind)
	if err != nil {
		slog.Error("invalid IMPORT_DEFAULT_KIND", "error", err)
		os.Exit(1)
	}

	var (
		categoryService    = category.NewService(categoryStore.New(db))
		transactionService = transaction.NewService(txStore.New(db))
		accountService     = account.NewService(accountStore.New(db))
		exportService      = export.NewService(transactionService)
		importService      = importer.NewService(categoryService, transactionService)
	)

	var (
		categoryH    = categoryHandler.NewHandler(categoryService)
		transactionH = txHandler.NewHandler(transactionService, cfg.Budget.Monthly)
		accountH     = accountHandler.NewHandler(accountService)
		exportH      = exportHandler.NewHandler(exportService)
		importH      = importHandler.NewHandler(importService, importHandler.Defaults{
			MaxUploadBytes:          cfg.Import.MaxUploadBytes,
			DateFormat:              cfg.Import.DateFormat,
			CreateMissingCategories: cfg.Import.CreateMissingCategories,
			DefaultKind:             defaultKind,
		})
	)

	router := pocketbookHttp.New(categoryH, transactionH, accountH, exportH, importH, pocketbookHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
