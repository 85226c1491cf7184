package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/gaze-network/near-indexer/internal/config"
	"github.com/gaze-network/near-indexer/pkg/logger"
	"github.com/gaze-network/near-indexer/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:          "near-indexer",
	Long:         `NEAR NFT marketplace indexer`,
	SilenceUsage: true,
}

func init() {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g.  `./config.yaml`")
	flags.String("network", "mainnet", "network to index, E.g. `mainnet` or `testnet`")

	// Bind flags to configuration
	config.BindPFlag("near.network", flags.Lookup("network"))

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		// Initialize configuration
		config := config.Parse(configFile)

		// Initialize logger
		if err := logger.Init(config.Logger); err != nil {
			logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})
}

func Execute(ctx context.Context) {
	// Register sub-commands
	cmd.AddCommand(
		NewVersionCommand(),
		NewRunCommand(),
		NewMigrateCommand(),
	)

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to execute command", err)
		os.Exit(1)
	}
}
