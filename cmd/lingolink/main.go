// Command lingolink serves the audio translation API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/lingolink/bootstrap"
	"github.com/kbukum/lingolink/config"
	"github.com/kbukum/lingolink/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, config.WithEnvAlias("server.port", "PORT")); err != nil {
		return err
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Stage instruments are bound at construction, so telemetry is up before
	// any component is built.
	telemetry := observability.NewComponent(cfg.Observability, app.Name, app.Version, cfg.Environment, app.Logger)
	if err := telemetry.Start(ctx); err != nil {
		return err
	}
	if err := wire(app, telemetry.Metrics()); err != nil {
		_ = telemetry.Stop(ctx)
		return err
	}
	app.OnStop(telemetry.Stop)
	return app.Run(ctx)
}
