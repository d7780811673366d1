package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"promptlab-content-service/internal/bootstrap"
	"promptlab-content-service/internal/config"
	"promptlab-content-service/internal/infra/postgres"
	"promptlab-content-service/internal/logger"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "contentctl",
	Short: "Operate the content mirror",
	Long: `contentctl manages the PostgreSQL content mirror outside the API process.

Example usage:
  contentctl migrate              # Apply pending schema migrations
  contentctl migrate rollback     # Roll back the last migration
  contentctl sync                 # Sync every upstream CMS into the mirror
  contentctl sync notion --force  # Sync one source without taking the lock
  contentctl sources              # Show mirrored item counts
  contentctl cache clear          # Drop cached listing candidates`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initConfig()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func initConfig() error {
	var err error

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}

	log, err = bootstrap.Logger(cfg)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	return nil
}

// openMirror connects to the mirror database. The caller closes it.
func openMirror(ctx context.Context) (*gorm.DB, error) {
	db, err := bootstrap.Database(ctx, cfg, log.Named("db"))
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	log.Debug("connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name),
	)

	return db, nil
}

func closeMirror(db *gorm.DB) {
	if err := postgres.Close(db); err != nil {
		log.Warn("closing database", zap.Error(err))
	}
}
