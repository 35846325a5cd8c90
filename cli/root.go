// ABOUTME: Root cobra command with shared flags, configuration, and store wiring
// ABOUTME: Every subcommand opens its record store and service through App
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/harperreed/crmboard/config"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/db"
	"github.com/harperreed/crmboard/kvstore"
	"github.com/harperreed/crmboard/logging"
	"github.com/harperreed/crmboard/memstore"
	"github.com/harperreed/crmboard/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// App carries the configuration shared by every subcommand.
type App struct {
	version string
	viper   *viper.Viper
	cfgFile string
}

// Runtime is an opened service plus the pieces commands need around it.
type Runtime struct {
	Config  config.AppConfig
	Logger  *zap.Logger
	Metrics *metrics.Collector
	Service *crm.Service
	store   crm.Store
}

func (r *Runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.Logger.Warn("failed to close record store", zap.Error(err))
	}
	_ = r.Logger.Sync()
}

// NewRootCommand builds the full command tree.
func NewRootCommand(version string) *cobra.Command {
	app := &App{version: version, viper: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:           "crmboard",
		Short:         "Sales pipeline CRM with a kanban board, dashboard, and MCP server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initConfig()
		},
	}

	app.setupFlags(rootCmd)

	rootCmd.AddCommand(
		newMCPCommand(app),
		newServeCommand(app),
		newBoardCommand(app),
		newDashboardCommand(app),
		newSeedCommand(app),
		newDealCommand(app),
		newLeadCommand(app),
		newContactCommand(app),
		newCompanyCommand(app),
		newTaskCommand(app),
		newActivityCommand(app),
		newVizCommand(app),
	)
	return rootCmd
}

func (a *App) setupFlags(cmd *cobra.Command) {
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("db-path", "", "Record store path (default: $XDG_DATA_HOME/crm/crmboard.db)")
	cmd.PersistentFlags().String("driver", defaults.GetString("store.driver"), "Record store driver (sqlite, badger, memory)")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")

	a.bindFlag(cmd, "store.path", "db-path")
	a.bindFlag(cmd, "store.driver", "driver")
	a.bindFlag(cmd, "log.level", "log-level")
}

func (a *App) bindFlag(cmd *cobra.Command, key, flag string) {
	if err := a.viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func (a *App) initConfig() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	if a.cfgFile != "" {
		a.viper.SetConfigFile(a.cfgFile)
	} else {
		a.viper.SetConfigName("crmboard")
		a.viper.AddConfigPath(".")
	}

	if err := a.viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &configNotFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// open loads configuration and opens the configured record store.
func (a *App) open() (*Runtime, error) {
	cfg, err := config.Load(a.viper)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("record store opened", zap.String("driver", cfg.StoreDriver), zap.String("path", cfg.StorePath))

	collector := metrics.NewCollector()
	svc := crm.NewService(store,
		crm.WithLogger(logger),
		crm.WithMetrics(collector),
		crm.WithTrendMonths(cfg.TrendMonths),
	)
	return &Runtime{Config: cfg, Logger: logger, Metrics: collector, Service: svc, store: store}, nil
}

func openStore(cfg config.AppConfig, logger *zap.Logger) (crm.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverBadger:
		return kvstore.Open(kvstore.Options{Path: cfg.StorePath, Logger: logger})
	case config.DriverMemory:
		return memstore.New(nil), nil
	default:
		return db.Open(cfg.StorePath)
	}
}

// withRuntime wraps a command body with open and close.
func (a *App) withRuntime(run func(cmd *cobra.Command, args []string, rt *Runtime) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := a.open()
		if err != nil {
			return err
		}
		defer rt.Close()
		return run(cmd, args, rt)
	}
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
