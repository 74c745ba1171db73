// Command task-api serves the task REST API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sngm3741/survey-services/api/internal/config"
	mongodoc "github.com/sngm3741/survey-services/api/internal/infrastructure/mongo"
	"github.com/sngm3741/survey-services/api/internal/logging"
	"github.com/sngm3741/survey-services/api/internal/server"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "task-api",
		Short:        "Run the task REST API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file (defaults to $CONFIG_PATH or ./config.yaml)")
	return cmd
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(config.AppTask, configPath)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	client, err := mongodoc.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	if err != nil {
		return err
	}

	app, err := server.New(cfg, client, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return err
	}
	return app.Run()
}
