package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/pilot-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pilot-cli/internal/core/services"
)

type mockUploader struct {
	uploadReq driving.UploadRequest
	updateReq driving.UpdateRequest

	uploadResult *driving.UploadResult
	updateResult *driving.UpdateResult
	err          error
}

func (m *mockUploader) Upload(_ context.Context, req driving.UploadRequest) (*driving.UploadResult, error) {
	m.uploadReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.uploadResult, nil
}

func (m *mockUploader) Update(_ context.Context, req driving.UpdateRequest) (*driving.UpdateResult, error) {
	m.updateReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.updateResult, nil
}

type mockHistory struct {
	entries []domain.TransferLogEntry
	err     error
}

func (m *mockHistory) List(_ context.Context) ([]domain.TransferLogEntry, error) {
	return m.entries, m.err
}

// setupCLITest swaps in test services and returns a cleanup that restores
// them along with every flag's default value.
func setupCLITest(t *testing.T, up driving.Uploader, hist driving.HistoryService, seed map[string]any) *services.SettingsService {
	t.Helper()

	oldUploader, oldHistory, oldSettings := uploader, historyService, settingsService
	settings := services.NewSettingsService(memory.NewConfigStore(seed))
	SetConfig(&Config{Uploader: up, HistoryService: hist, SettingsService: settings})

	t.Cleanup(func() {
		uploader, historyService, settingsService = oldUploader, oldHistory, oldSettings
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return settings
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command and returns stdout and stderr.
func execute(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}
