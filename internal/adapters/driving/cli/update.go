package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pilot-cli/internal/core/ports/driving"
)

var (
	updateMetadataFile string
	updateInline       string
	updateDataframe    string
	updateContent      bool
	updateDryRun       bool
	updateNoAnalyze    bool
	updateJSON         bool
)

var updateCmd = &cobra.Command{
	Use:   "update <short-path>",
	Short: "Update the metadata of a published dataframe",
	Long: `Re-publish the record at <short-path> ("<destination>/<name>") with new
metadata. Nothing is transferred.

Pass --dataframe to re-scrape a local copy of the file. If its content differs
from what was published, the update is refused unless --update-content is set.`,
	Example: `  pilot update my-project/results.tsv -j '{"description": "Final run"}'
  pilot update my-project/results.tsv -m metadata.toml --dataframe results.tsv`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	f := updateCmd.Flags()
	f.StringVarP(&updateMetadataFile, "metadata", "m", "", "metadata file (json, yaml, toml or md)")
	f.StringVarP(&updateInline, "json", "j", "", "inline metadata as a JSON object")
	f.StringVarP(&updateDataframe, "dataframe", "d", "", "local copy of the dataframe to re-scrape")
	f.BoolVar(&updateContent, "update-content", false, "allow the file content to change")
	f.BoolVar(&updateDryRun, "dry-run", false, "check everything but publish nothing")
	f.BoolVar(&updateNoAnalyze, "no-analyze", false, "skip column statistics")
	f.BoolVar(&updateJSON, "output-json", false, "print the result as JSON")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if uploader == nil {
		return fmt.Errorf("update: %w", errNotConfigured)
	}

	overrides, err := parseInline(updateInline)
	if err != nil {
		return err
	}

	result, err := uploader.Update(cmd.Context(), driving.UpdateRequest{
		ShortPath:     strings.Trim(args[0], "/"),
		Dataframe:     updateDataframe,
		MetadataFile:  updateMetadataFile,
		Overrides:     overrides,
		UpdateContent: updateContent,
		DryRun:        updateDryRun,
		Test:          testMode,
		SkipAnalysis:  updateNoAnalyze,
	})
	if err != nil {
		explain(cmd.ErrOrStderr(), err)
		return err
	}

	if updateJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	renderUpdateResult(cmd.OutOrStdout(), result, updateDryRun)
	return nil
}

func renderUpdateResult(w io.Writer, r *driving.UpdateResult, dryRun bool) {
	st := newStyles(w)

	var status string
	switch {
	case dryRun:
		status = st.Warning.Render("dry run, nothing published")
	case r.Updated:
		status = st.Success.Render("record updated")
	default:
		status = st.Warning.Render("already up to date")
	}

	fmt.Fprintln(w, st.Title.Render(r.Record.DC.Title()))
	fmt.Fprintf(w, "%s %s\n", st.Label.Render("Subject   "), r.Subject)
	fmt.Fprintf(w, "%s %s\n", st.Label.Render("Version   "), r.Version)
	fmt.Fprintf(w, "%s %s\n", st.Label.Render("Status    "), status)
	if r.DataframeChanged {
		fmt.Fprintln(w, st.Muted.Render("The dataframe content changed. Upload it again to transfer the new files."))
	}
}
