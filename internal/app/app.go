package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sharetube/town/internal/controller"
	"github.com/sharetube/town/internal/remote"
	"github.com/sharetube/town/internal/town"
	"github.com/sharetube/town/pkg/ctxlogger"
)

type AppConfig struct {
	ServerURL        string        `json:"server_url"`
	Host             string        `json:"host"`
	Port             int           `json:"port"`
	LogLevel         string        `json:"log_level"`
	HandshakeTimeout time.Duration `json:"handshake_timeout"`
	ReconnectDelay   time.Duration `json:"reconnect_delay"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.ServerURL == "" {
		return errors.New("server url must not be empty")
	}
	if !strings.HasPrefix(cfg.ServerURL, "ws://") && !strings.HasPrefix(cfg.ServerURL, "wss://") {
		return fmt.Errorf("server url must use ws or wss scheme: %s", cfg.ServerURL)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if cfg.HandshakeTimeout <= 0 {
		return fmt.Errorf("handshake timeout must be greater than 0")
	}
	if cfg.ReconnectDelay <= 0 {
		return fmt.Errorf("reconnect delay must be greater than 0")
	}
	return nil
}

func NewLogger(level string) (*slog.Logger, error) {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(h), nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	t := town.New(logger)
	watchAreas(t, logger)
	go t.Run(ctx)

	client := remote.NewClient(t, &remote.Config{
		ServerURL:        cfg.ServerURL,
		HandshakeTimeout: cfg.HandshakeTimeout,
		ReconnectDelay:   cfg.ReconnectDelay,
	}, logger)
	clientDone := make(chan error, 1)
	go func() {
		clientDone <- client.Run(ctx)
	}()

	c := controller.NewController(t, client, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: c.Mux()}

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting server", "address", server.Addr, "session_id", client.SessionID())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
	}

	// graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	select {
	case <-clientDone:
	case <-shutdownCtx.Done():
		return errors.New("graceful shutdown timed out")
	}

	logger.Info("server stopped")
	return nil
}
