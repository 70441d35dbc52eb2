package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent transfers",
	Long:  `List the transfers submitted from this machine, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print entries as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return fmt.Errorf("history: %w", errNotConfigured)
	}

	entries, err := historyService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if historyJSON {
		if entries == nil {
			entries = []domain.TransferLogEntry{}
		}
		return writeJSON(cmd.OutOrStdout(), entries)
	}

	if len(entries) == 0 {
		cmd.Println("No transfers yet.")
		return nil
	}
	renderHistory(cmd.OutOrStdout(), entries)
	return nil
}

func renderHistory(w io.Writer, entries []domain.TransferLogEntry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Started", "Dataframe", "Status", "Task"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, e := range entries {
		table.Append([]string{
			e.StartTime.Local().Format(time.DateTime),
			e.Dataframe,
			e.Status,
			e.TaskID,
		})
	}
	table.Render()
}
