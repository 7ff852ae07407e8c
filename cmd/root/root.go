// Package root contains the root command and the state shared by its subcommands.
package root

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"mynab/budget-import/internal/config"
	"mynab/budget-import/internal/container"
	"mynab/budget-import/internal/logging"

	"github.com/spf13/cobra"
)

// Flags holds the persistent flags of the root command.
type Flags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger for commands. It is replaced once configuration is
	// loaded.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer is built in PersistentPreRunE and available to every subcommand.
	AppContainer *container.Container

	// SharedFlags are the persistent flags.
	SharedFlags = Flags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "budget-import",
		Short: "Import bank statements into the budget database.",
		Long: `budget-import reads bank statements from Santander Rio, ICBC, BBVA, CommBank and
MercadoPago, classifies every transaction and stores it as a budget entry.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				_ = AppContainer.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Init registers the persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.budget-import, ./.budget-import or .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
}

func initialize(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}

	c, err := container.NewContainer(Context(cmd), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// Context returns the command's context, or a background context when the command
// was executed without one.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// ReportMetrics logs the value of every collected counter. It does nothing when
// metrics are disabled.
func ReportMetrics(c *container.Container) error {
	reg := c.GetMetricsRegistry()
	if reg == nil {
		return nil
	}

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			sort.Strings(labels)
			c.GetLogger().Info("Metric",
				logging.F("name", family.GetName()),
				logging.F("labels", strings.Join(labels, ",")),
				logging.F("value", m.GetCounter().GetValue()))
		}
	}
	return nil
}
