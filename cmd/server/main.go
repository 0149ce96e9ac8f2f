// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

// Command server runs the form submission gateway: a public HTTP API that
// validates portal form submissions, maps them into stored enterprise
// records with child tables, and attaches uploaded files.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/enjaz-platform/formgate/internal/api"
	"github.com/enjaz-platform/formgate/internal/audit"
	"github.com/enjaz-platform/formgate/internal/config"
	"github.com/enjaz-platform/formgate/internal/files"
	"github.com/enjaz-platform/formgate/internal/forms"
	"github.com/enjaz-platform/formgate/internal/logging"
	"github.com/enjaz-platform/formgate/internal/session"
	"github.com/enjaz-platform/formgate/internal/store"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logging.Info().
		Str("version", api.Version).
		Int("port", cfg.Server.Port).
		Msg("Starting form submission gateway")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Document store. Audit events share the same BadgerDB instance.
	st, err := store.Open(cfg.Storage.Path, cfg.Storage.InMemory)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}()

	var auditLogger *audit.Logger
	if cfg.Audit.Enabled {
		auditCfg := audit.DefaultConfig()
		auditCfg.BufferSize = cfg.Audit.BufferSize
		auditCfg.RetentionDays = cfg.Audit.RetentionDays

		auditLogger = audit.NewLogger(audit.NewBadgerStore(st.DB()), auditCfg)
		defer func() {
			if err := auditLogger.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing audit logger")
			}
		}()
		auditLogger.StartCleanupRoutine(ctx)
		logging.Info().Int("retention_days", cfg.Audit.RetentionDays).Msg("Audit logging initialized")
	}

	fileManager := files.NewManager(st)
	service := forms.NewService(st, fileManager, auditLogger, cfg.Token.MinLength)
	sessions := session.NewManager(cfg.Token.SessionTTL, api.NewSessionResolver(service))

	handler := api.NewHandler(service, sessions, auditLogger, st, cfg)
	router := api.NewRouter(handler, api.NewChiMiddlewareConfig(cfg))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("Forced shutdown after timeout")
		if cerr := server.Close(); cerr != nil {
			logging.Error().Err(cerr).Msg("Error closing server")
		}
	}

	logging.Info().Msg("Gateway stopped gracefully")
	return nil
}
