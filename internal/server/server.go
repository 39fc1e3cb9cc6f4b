// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires configuration, storage, services and routes
// into the running HTTP server.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/mailsafe/internal/auth"
	"codeberg.org/oliverandrich/mailsafe/internal/config"
	"codeberg.org/oliverandrich/mailsafe/internal/database"
	"codeberg.org/oliverandrich/mailsafe/internal/handlers"
	"codeberg.org/oliverandrich/mailsafe/internal/repository"
	"codeberg.org/oliverandrich/mailsafe/internal/services/email"
	"codeberg.org/oliverandrich/mailsafe/internal/services/links"
	"codeberg.org/oliverandrich/mailsafe/internal/services/mailing"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// Repository
	repo := repository.New(db)

	// Token verifier
	verifier, err := buildVerifier(cfg)
	if err != nil {
		return err
	}

	// Services
	linkService := links.NewService(repo, links.Config{
		LinkTTL:        cfg.Links.LinkTTL,
		OTPTTL:         cfg.Links.OTPTTL,
		OTPLength:      cfg.Links.OTPLength,
		OTPMaxAttempts: int64(cfg.Links.OTPMaxAttempts),
		OTPLockout:     cfg.Links.OTPLockout,
	})
	sender := buildSender(cfg)
	mailer := mailing.NewOrchestrator(repo, linkService, sender, cfg.Server.BaseURL)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = jsonErrorHandler

	// Middleware
	setupMiddleware(e, cfg, verifier)

	// Routes
	setupRoutes(e, handlers.New(repo, linkService, mailer))

	// Start server
	return startWithGracefulShutdown(ctx, e, cfg)
}

// buildVerifier selects the token verifier. The static table is for
// test doubles only and loudly refuses to stay quiet about it.
func buildVerifier(cfg *config.Config) (auth.Verifier, error) {
	if cfg.Auth.Testing {
		slog.Warn("auth testing mode active, static token table in use")
		return auth.NewStaticVerifier(), nil
	}
	verifier, err := auth.NewJWTVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to build token verifier: %w", err)
	}
	return verifier, nil
}

// buildSender returns the SMTP sender, or a disabled one when SMTP is
// not configured so the rest of the API keeps working.
func buildSender(cfg *config.Config) email.Sender {
	if cfg.Mail.Host == "" {
		slog.Warn("SMTP not configured, document mailing disabled")
		return email.Disabled{}
	}
	sender, err := email.NewSMTPSender(&cfg.Mail)
	if err != nil {
		slog.Warn("SMTP misconfigured, document mailing disabled", "error", err)
		return email.Disabled{}
	}
	return sender
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers) {
	e.GET("/health", h.Health)

	// Current user
	e.POST("/user", h.Register)
	e.GET("/user", h.CurrentUser)
	e.PUT("/user", h.UpdateCurrentUser)
	e.DELETE("/user", h.DeleteCurrentUser)

	// Contacts
	e.GET("/user/contacts", h.ListContacts)
	e.POST("/user/contacts", h.CreateContact)
	e.DELETE("/user/contacts", h.DeleteContacts)
	e.GET("/user/contacts/:id", h.GetContact)
	e.PUT("/user/contacts/:id", h.UpdateContact)
	e.DELETE("/user/contacts/:id", h.DeleteContact)

	// Documents
	e.GET("/user/docs", h.ListDocuments)
	e.POST("/user/docs", h.CreateDocument)
	e.DELETE("/user/docs", h.DeleteDocuments)
	e.GET("/user/docs/:id", h.GetDocument)
	e.PUT("/user/docs/:id", h.UpdateDocument)
	e.DELETE("/user/docs/:id", h.DeleteDocument)

	// Mailing
	e.POST("/user/mail", h.SendDocument)

	// Administration
	e.GET("/admin/users", h.AdminListUsers)
	e.DELETE("/admin/users", h.AdminDeleteAllUsers)
	e.GET("/admin/users/:id", h.AdminGetUser)
	e.PUT("/admin/users/:id", h.AdminUpdateUser)
	e.DELETE("/admin/users/:id", h.AdminDeleteUser)

	// Redemption, no auth: the link id is the capability
	e.POST("/links/:id", h.RedeemLink)
}

// jsonErrorHandler renders every error as {"error": code}.
func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal_error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			message = s
		} else {
			message = http.StatusText(code)
		}
	}

	if jsonErr := c.JSON(code, map[string]string{"error": message}); jsonErr != nil {
		slog.Error("failed to write error response", "error", jsonErr)
	}
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	// Setup TLS
	tlsResult, err := SetupTLS(cfg)
	if err != nil {
		return fmt.Errorf("TLS setup failed: %w", err)
	}

	// Channel for server errors
	errChan := make(chan error, 2)

	// HTTP redirect server for ACME mode
	var httpServer *http.Server

	switch tlsResult.Mode {
	case TLSModeOff:
		// Plain HTTP on configured port
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeACME:
		// HTTPS on :443
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, ":443", tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		// HTTP challenge/redirect server on :80
		httpServer = &http.Server{
			Addr:              ":80",
			Handler:           tlsResult.HTTPHandler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("HTTP->HTTPS redirect active", "addr", ":80")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeManual:
		// HTTPS on configured port
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, addr, tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()
	}

	// Wait for interrupt signal, context cancellation or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("shutting down server", "reason", ctx.Err())
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown main server
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown main server", "error", err)
	}

	// Shutdown HTTP redirect server if running
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown HTTP redirect server", "error", err)
		}
	}

	slog.Info("server stopped")
	return nil
}

// startTLSServer starts the Echo server with a custom TLS configuration.
func startTLSServer(e *echo.Echo, addr string, tlsConfig *tls.Config) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	e.TLSListener = tls.NewListener(ln, tlsConfig)
	e.TLSServer.TLSConfig = tlsConfig
	return e.Server.Serve(e.TLSListener)
}
