package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driving"
)

var (
	uploadMetadataFile string
	uploadInline       string
	uploadUpdate       bool
	uploadDryRun       bool
	uploadNoAnalyze    bool
	uploadMIMEType     string
	uploadProtocol     string
	uploadJSON         bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <dataframe> <destination>",
	Short: "Upload a dataframe and publish its record",
	Long: `Upload a file or directory to <destination> under the project base path
and publish a catalog record describing it.

Metadata can be supplied in a JSON, YAML, TOML or Markdown file with -m, and
as an inline JSON object with -j. Inline values win over the file.

An existing record is only replaced with -u. Re-uploading unchanged content
with unchanged metadata does nothing.`,
	Example: `  pilot upload results.tsv my-project
  pilot upload results.tsv my-project -m metadata.yaml
  pilot upload results/ my-project -j '{"title": "Drug response"}' -u`,
	Args: cobra.ExactArgs(2),
	RunE: runUpload,
}

func init() {
	f := uploadCmd.Flags()
	f.StringVarP(&uploadMetadataFile, "metadata", "m", "", "metadata file (json, yaml, toml or md)")
	f.StringVarP(&uploadInline, "json", "j", "", "inline metadata as a JSON object")
	f.BoolVarP(&uploadUpdate, "update", "u", false, "replace an existing record")
	f.BoolVar(&uploadDryRun, "dry-run", false, "check everything but publish nothing")
	f.BoolVar(&uploadNoAnalyze, "no-analyze", false, "skip column statistics")
	f.StringVar(&uploadMIMEType, "mime-type", "", "content type for every file")
	f.StringVar(&uploadProtocol, "protocol", "", "transfer protocol (globus, https or s3)")
	f.BoolVar(&uploadJSON, "output-json", false, "print the result as JSON")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploader == nil {
		return fmt.Errorf("upload: %w", errNotConfigured)
	}

	overrides, err := parseInline(uploadInline)
	if err != nil {
		return err
	}

	req := driving.UploadRequest{
		Dataframe:    args[0],
		Destination:  strings.Trim(args[1], "/"),
		MetadataFile: uploadMetadataFile,
		Overrides:    overrides,
		Update:       uploadUpdate,
		DryRun:       uploadDryRun,
		Test:         testMode,
		SkipAnalysis: uploadNoAnalyze,
		MIMEType:     uploadMIMEType,
		Protocol:     uploadProtocol,
	}

	result, err := uploader.Upload(cmd.Context(), req)
	if err != nil {
		explain(cmd.ErrOrStderr(), err)
		return err
	}

	if uploadJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	renderUploadResult(cmd.OutOrStdout(), result)
	return nil
}

// parseInline decodes the -j flag.
func parseInline(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: inline metadata must be a JSON object: %w", domain.ErrInvalidInput, err)
	}
	return out, nil
}

// uploadStatus summarises what an upload did.
func uploadStatus(r *driving.UploadResult) string {
	switch {
	case r.DryRun:
		return "dry run, nothing published"
	case r.RecordExists && !r.MetadataModified:
		return "already up to date"
	case r.Transferred:
		return "record published, transfer submitted"
	case r.Ingested:
		return "metadata updated"
	default:
		return "no changes"
	}
}

func renderUploadResult(w io.Writer, r *driving.UploadResult) {
	st := newStyles(w)

	version := r.NewVersion
	if r.PreviousVersion != "" && r.PreviousVersion != r.NewVersion {
		version = fmt.Sprintf("%s (was %s)", r.NewVersion, r.PreviousVersion)
	}

	status := uploadStatus(r)
	if r.DryRun || !r.MetadataModified {
		status = st.Warning.Render(status)
	} else {
		status = st.Success.Render(status)
	}

	rows := [][2]string{
		{"Dataframe", r.ShortPath},
		{"Subject", r.Subject},
		{"URL", r.URL},
		{"Version", version},
		{"Protocol", r.Protocol},
		{"Status", status},
	}
	if r.Transfer != nil {
		rows = append(rows, [2]string{"Transfer", fmt.Sprintf("%s %s", r.Transfer.TaskID, st.Muted.Render(r.Transfer.Code))})
	}

	var b strings.Builder
	b.WriteString(st.Title.Render(r.Record.DC.Title()))
	b.WriteString("\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", st.Label.Render(fmt.Sprintf("%-10s", row[0])), row[1])
	}
	fmt.Fprintln(w, st.Box.Render(strings.TrimRight(b.String(), "\n")))
}

// explain prints guidance for errors the user can act on.
func explain(w io.Writer, err error) {
	st := newStyles(w)

	var required *domain.RequiredUploadFieldsError
	switch {
	case errors.As(err, &required):
		fmt.Fprintln(w, st.Error.Render("Missing required fields: "+strings.Join(required.Fields, ", ")))
		fmt.Fprintln(w, "Add them to a metadata file and pass it with -m, for example:")
		fmt.Fprintln(w, required.Example())
	case errors.Is(err, domain.ErrRecordExists):
		fmt.Fprintln(w, st.Warning.Render("A record is already published here. Re-run with -u to replace it."))
	case errors.Is(err, domain.ErrNoLocalEndpointSet):
		fmt.Fprintln(w, st.Warning.Render("Set your local endpoint with 'pilot profile --local-endpoint <id>',"))
		fmt.Fprintln(w, st.Warning.Render("or upload with --protocol https."))
	case errors.Is(err, domain.ErrDirectoryNotFound):
		fmt.Fprintln(w, st.Warning.Render("The destination directory must exist before uploading."))
	case errors.Is(err, domain.ErrContentMismatch):
		fmt.Fprintln(w, st.Warning.Render("The file content changed. Re-run with --update-content to publish it."))
	case errors.Is(err, domain.ErrProtocolNotConfigured):
		fmt.Fprintln(w, st.Warning.Render("Configure the protocol in the config file, or choose another with --protocol."))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
