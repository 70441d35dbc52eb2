// Package cli implements the pilot command line.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pilot-cli/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Services used by the commands. Set through SetConfig.
var (
	uploader        driving.Uploader
	historyService  driving.HistoryService
	settingsService driving.SettingsService
)

// Persistent flags.
var (
	verbose  bool
	testMode bool
)

// Config holds the services the commands run against.
type Config struct {
	Uploader        driving.Uploader
	HistoryService  driving.HistoryService
	SettingsService driving.SettingsService
}

var rootCmd = &cobra.Command{
	Use:   "pilot",
	Short: "Publish dataframes and their metadata",
	Long: `pilot uploads dataframes to project storage and publishes a searchable
catalog record for each one.

Files are checksummed and tabular files are profiled column by column. The
record is reconciled with whatever is already published, so re-uploading an
unchanged dataframe does nothing and changed content bumps the version.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print each step to stderr")
	rootCmd.PersistentFlags().BoolVarP(&testMode, "test", "t", false, "use the test index and base path")
}

// SetConfig wires the services into the commands.
func SetConfig(config *Config) {
	uploader = config.Uploader
	historyService = config.HistoryService
	settingsService = config.SettingsService
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}

var errNotConfigured = errors.New("service not configured")
