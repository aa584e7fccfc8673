package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Artist resolves artist metadata through the configured gateway strategy
// and prints it as JSON. An unavailable artist is not an error; the gateway
// collapses "not found" and "fetch failed" into one outcome.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd.String("config"))

	gateway, err := r.gateway()
	if err != nil {
		return fmt.Errorf("failed to build gateway: %w", err)
	}

	name := cmd.String("name")
	r.logger.Info("looking up artist", "artist", name, "strategy", gateway.Name())

	info := gateway.GetArtistInfo(ctx, name)
	if info == nil {
		return r.writePlainln("artist info unavailable for %q", name)
	}

	return r.writeJSON(info, cmd.Bool("pretty"))
}
