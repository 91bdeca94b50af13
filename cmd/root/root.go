// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/budget-buddy/internal/config"
	"fjacquet/budget-buddy/internal/container"

	"github.com/spf13/cobra"
)

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "budget-buddy",
		Short: "A CLI tool to categorize bank transactions and track spending against budgets.",
		Long: `budget-buddy reads transaction exports (CSV) from an input directory,
categorizes them with keyword rules, records them in a ledger and reports
spending against per-category budgets.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Welcome to budget-buddy!")
			fmt.Fprintln(cmd.OutOrStdout(), "Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv(nil)
		},
	}

	// Flags are the persistent flags of the root command.
	Flags = GlobalFlags{}
)

// Init registers the persistent flags. Calling it again is a no-op.
func Init() {
	if Cmd.PersistentFlags().Lookup("config") != nil {
		return
	}
	Cmd.PersistentFlags().StringVar(&Flags.ConfigFile, "config", "", "Config file (default: budget-buddy.yaml in $HOME/.budget-buddy, .budget-buddy or .)")
	Cmd.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&Flags.LogFormat, "log-format", "", "Log format (text or json)")
}

// LoadConfig reads the application configuration and applies the global
// flag overrides on top of it.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.InitializeConfig(Flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if Flags.LogLevel != "" {
		cfg.Log.Level = Flags.LogLevel
	}
	if Flags.LogFormat != "" {
		cfg.Log.Format = Flags.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// NewContainer wires the application for cmd, routing interactive prompts
// through the command's input and output streams.
func NewContainer(cmd *cobra.Command, cfg *config.Config) (*container.Container, error) {
	return container.NewContainer(cfg, container.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()))
}
