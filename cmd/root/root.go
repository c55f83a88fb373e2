// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fjacquet/fillcash/internal/config"
	"fjacquet/fillcash/internal/container"
	"fjacquet/fillcash/internal/logging"
)

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer holds the wired dependencies once PersistentPreRunE has run
	AppContainer *container.Container

	// ConfigFile is an explicit configuration file; empty means search
	ConfigFile string

	// LogLevel overrides log.level from the configuration when set
	LogLevel string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "fillcash",
		Short: "Project a daily cash position from bank statements, fixed items and card bills.",
		Long: `fillcash extracts bank statements into a canonical transaction file and
projects a day-by-day cash ledger for the current and next year. Fixed income
and expenses fill the days after the last statement date, scheduled card bills
are charged on their due dates, and the resulting workbook computes the running
balance with spreadsheet formulas.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to fillcash!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := Setup(ConfigFile, LogLevel)
			if err != nil {
				return err
			}
			AppContainer = c
			Log = c.GetLogger()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close container")
			}
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "Configuration file (default: config.yml in ., ./config or $HOME/.fillcash)")
	Cmd.PersistentFlags().StringVarP(&LogLevel, "log-level", "l", "", "Log level override (trace, debug, info, warn, error)")
}

// Setup loads the configuration, applies the log level override and wires
// the container.
func Setup(configFile, logLevel string, opts ...container.Option) (*container.Container, error) {
	cfg, err := config.InitializeConfig(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		if _, err := logrus.ParseLevel(logLevel); err != nil {
			return nil, fmt.Errorf("invalid log level: %s", logLevel)
		}
		cfg.Log.Level = logLevel
	}
	return container.NewContainer(cfg, opts...)
}

// GetContainer returns the application container, or nil before setup
func GetContainer() *container.Container {
	return AppContainer
}
