package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmynk/lessmo/internal/config"
	"github.com/mmynk/lessmo/internal/server"
	"github.com/mmynk/lessmo/internal/storage/sqlite"
	"github.com/mmynk/lessmo/pkg/logging"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect API server",
		Long: `Run the LedgerService and AuthService over Connect (HTTP/1.1 and h2c).
Settings come from the config file, then DB_PATH, LOG_LEVEL, JWT_SECRET and
LESSMO_ADDR from the environment.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().StringP("config", "c", "", "Path to a TOML config file")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if _, err := logging.ParseLevel(level); err != nil {
			return err
		}
		cfg.Log.Level = level
	}

	logger := logging.Setup(cfg.Log.Level)
	if cfg.InsecureSecret() {
		logger.Warn("Using the built-in JWT secret; set JWT_SECRET in production")
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.Database.Path)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, store, logger).Run(ctx)
}
