// Command pilot publishes dataframes and their catalog records.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/custodia-labs/pilot-cli/internal/adapters/driven/analysis"
	"github.com/custodia-labs/pilot-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pilot-cli/internal/adapters/driven/globus"
	"github.com/custodia-labs/pilot-cli/internal/adapters/driven/localfs"
	"github.com/custodia-labs/pilot-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pilot-cli/internal/adapters/driven/transfer"
	"github.com/custodia-labs/pilot-cli/internal/adapters/driven/usermeta"
	"github.com/custodia-labs/pilot-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/pilot-cli/internal/core/services"
	"github.com/custodia-labs/pilot-cli/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errCommand marks a failure cobra has already reported.
var errCommand = errors.New("command failed")

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, errCommand) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	// 2. Local stores
	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("closing local store: %v", cerr)
		}
	}()
	history := store.TransferHistory(settings.History.MaxEntries)

	// 3. Remote services
	transfers := transfer.NewRouterFromSettings(settings, afero.NewOsFs())
	search := globus.NewSearchClient(globus.Config{
		BaseURL: settings.Globus.SearchURL,
		Token:   settings.Globus.Token,
	})

	// 4. Services
	uploadService := services.NewUploadService(
		*settings,
		transfers,
		search,
		localfs.New(),
		analysis.New(),
		usermeta.New(),
		store.RecordStore(),
		history,
	)

	cli.SetVersion(version)
	cli.SetConfig(&cli.Config{
		Uploader:        uploadService,
		HistoryService:  services.NewHistoryService(history),
		SettingsService: settingsService,
	})

	if err := cli.Execute(); err != nil {
		return errCommand
	}
	return nil
}
