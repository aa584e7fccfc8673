package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Hardrivetech/wavebeat/internal/server"
	"github.com/Hardrivetech/wavebeat/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the artist metadata proxy until the process is interrupted.
//
// The proxy is the trusted holder of the provider key, so it refuses to
// start without one.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd.String("config"))

	apiKey := r.config.Credentials.Lastfm.APIKey
	if apiKey == "" {
		return fmt.Errorf("%w: set credentials.lastfm.api_key or LASTFM_API_KEY", shared.ErrMissingCredentials)
	}

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(server.NewArtistHandler("", apiKey, r.httpClient, r.logger))

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	r.logger.Info("proxy listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("proxy server failed: %w", err)
	}

	return nil
}
