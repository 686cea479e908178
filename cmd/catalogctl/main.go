// Command catalogctl runs maintenance tasks against the configured catalog data source.
package main

import (
	"os"

	"github.com/moementrabelsi/mma/internal/metrics"
	"github.com/moementrabelsi/mma/internal/store"
	"github.com/moementrabelsi/mma/pkg/config"
	"github.com/moementrabelsi/mma/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once configuration is loaded
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Maintenance tasks for the MMA catalog data source",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.InitLogger(&logger.LogConfig{
				Level:       cfg.Log.Level,
				Environment: cfg.Server.Env,
				ServiceName: "catalogctl",
				File:        cfg.Log.File,
			})
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.AddCommand(
		a.migrateCmd(),
		a.checkCmd(),
		a.clearProductsCmd(),
		a.clearAllCmd(),
		a.browseCmd(),
	)
	return root
}

// openStore opens the configured store without the fixture fallback, so that
// maintenance never silently runs against built-in data
func (a *app) openStore() (store.Store, error) {
	cfg := *a.cfg
	cfg.Data.FallbackToFixtures = false
	return store.Open(&cfg, a.log, metrics.NewNop())
}
