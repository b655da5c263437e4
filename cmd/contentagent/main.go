package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"contentagent/config"
	"contentagent/internal/telemetry"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "contentagent",
		Short: "Turn videos, pages, and documents into finished content",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(chatCMD(&configPath), mcpCMD(&configPath))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads environment, configuration, and telemetry shared by every
// subcommand.
func setup(configPath string) (*config.Config, *telemetry.Telemetry, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := log.New(os.Stderr, "contentagent ", log.LstdFlags)
	tel := telemetry.New(cfg.Telemetry, logger)
	if cfg.Telemetry.Enabled {
		go func() {
			if err := tel.Serve(); err != nil {
				logger.Printf("metrics server: %v", err)
			}
		}()
	}
	return cfg, tel, nil
}
