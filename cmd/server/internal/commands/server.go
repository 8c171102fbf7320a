package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/wolfeidau/awsorg/internal/awsclient"
	httpmiddleware "github.com/wolfeidau/awsorg/internal/http"
	"github.com/wolfeidau/awsorg/internal/logger"
	"github.com/wolfeidau/awsorg/internal/orgs"
	"github.com/wolfeidau/awsorg/internal/server"
)

type ServerCmd struct {
	Listen   string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"AWSORG_LISTEN"`
	Region   string `help:"AWS region" env:"AWS_REGION"`
	Endpoint string `help:"Override the AWS endpoint, e.g. for LocalStack" env:"AWSORG_ENDPOINT"`
	LogFile  string `help:"Also write logs to this rotating file" env:"AWSORG_LOG_FILE"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"*" env:"AWSORG_CORS_ORIGINS"`

	// Account-creation poll configuration
	PollInterval time.Duration `help:"delay between account creation status checks" default:"20s" env:"AWSORG_POLL_INTERVAL"`
	PollTimeout  time.Duration `help:"give up waiting for account creation after this long" default:"15m" env:"AWSORG_POLL_TIMEOUT"`
}

func (c *ServerCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(logger.Config{Debug: globals.Debug, File: c.LogFile})
	ctx = log.WithContext(ctx)

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	client, err := awsclient.New(ctx, awsclient.Config{
		Region:   c.Region,
		Endpoint: c.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to create AWS client: %w", err)
	}

	svc := orgs.New(client.Organizations(), orgs.Config{
		PollInterval: c.PollInterval,
		PollTimeout:  c.PollTimeout,
	})

	handler := httpmiddleware.RequestLogger(log)(server.New(svc).Handler())
	handler = withCORS(c.CORSOrigins, handler)

	httpServer := configureHTTPServer(c.Listen, handler, c.PollTimeout)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", c.Listen).Str("region", client.Region()).Msg("Starting HTTP server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}

func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{httpmiddleware.RequestIDHeader},
	})
	return middleware.Handler(h)
}
