package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the uploader profile, project locations and transfer
options.

Credentials are read from the config file or the environment
(PILOT_TOKEN, AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY) and are never written
by these commands.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to set up your profile and transfer protocol.`,
	RunE:  runSettingsWizard,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default project settings",
	Long:  `Restore the default project, upload and ingest settings. Your profile is kept.`,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Profile]")
	cmd.Printf("  Name: %s\n", orUnset(settings.Profile.Name))
	cmd.Printf("  Organization: %s\n", orUnset(settings.Profile.Organization))
	cmd.Printf("  Local Endpoint: %s\n", orUnset(settings.Profile.LocalEndpoint))
	cmd.Println()

	p := settings.Project
	cmd.Println("[Project]")
	cmd.Printf("  Slug: %s\n", p.Slug)
	cmd.Printf("  Endpoint: %s\n", p.Endpoint)
	cmd.Printf("  Base Path: %s\n", p.BasePath)
	cmd.Printf("  Test Base Path: %s\n", p.TestBasePath)
	cmd.Printf("  Search Index: %s\n", p.SearchIndex)
	cmd.Printf("  Test Search Index: %s\n", p.TestSearchIndex)
	cmd.Printf("  Group: %s\n", p.Group)
	cmd.Printf("  File Server: %s\n", p.FileServerURL())
	cmd.Printf("  Protocol: %s\n", p.Protocol)
	cmd.Println()

	cmd.Println("[Upload]")
	cmd.Printf("  Hash Algorithms: %s\n", strings.Join(settings.Upload.HashAlgorithms, ", "))
	if len(settings.Upload.RequiredFields) > 0 {
		cmd.Printf("  Required Fields: %s\n", strings.Join(settings.Upload.RequiredFields, ", "))
	}
	cmd.Printf("  Ingest Poll Interval: %s\n", settings.Ingest.PollInterval)
	cmd.Printf("  Ingest Timeout: %s\n", settings.Ingest.Timeout)
	cmd.Printf("  History Entries: %d\n", settings.History.MaxEntries)
	cmd.Println()

	cmd.Println("[Globus]")
	cmd.Printf("  Transfer API: %s\n", settings.Globus.TransferURL)
	cmd.Printf("  Search API: %s\n", settings.Globus.SearchURL)
	cmd.Printf("  Token: %s\n", maskSecret(settings.Globus.Token))
	cmd.Println()

	cmd.Println("[S3]")
	if settings.S3.Bucket == "" {
		cmd.Println("  Bucket: (not set, s3 protocol disabled)")
	} else {
		cmd.Printf("  Bucket: %s\n", settings.S3.Bucket)
		cmd.Printf("  Region: %s\n", settings.S3.Region)
		if settings.S3.Endpoint != "" {
			cmd.Printf("  Endpoint: %s\n", settings.S3.Endpoint)
		}
		if settings.S3.Prefix != "" {
			cmd.Printf("  Prefix: %s\n", settings.S3.Prefix)
		}
		cmd.Printf("  Access Key: %s\n", maskSecret(settings.S3.AccessKeyID))
		cmd.Printf("  Secret Key: %s\n", maskSecret(settings.S3.SecretAccessKey))
	}
	cmd.Println()

	for _, w := range settingsWarnings(settings) {
		cmd.Printf("Warning: %s\n", w)
	}
	return nil
}

// settingsWarnings lists problems that would make uploads fail.
func settingsWarnings(s *domain.AppSettings) []string {
	var out []string
	if s.Profile.Name == "" {
		out = append(out, "no profile name set, run 'pilot settings wizard'")
	}
	if s.Globus.Token == "" {
		out = append(out, "no Globus token set, export PILOT_TOKEN")
	}
	if s.Project.Protocol == domain.ProtocolGlobus && s.Profile.LocalEndpoint == "" {
		out = append(out, "globus protocol needs a local endpoint, run 'pilot profile --local-endpoint <id>'")
	}
	if s.Project.Protocol == domain.ProtocolS3 && s.S3.Bucket == "" {
		out = append(out, "s3 protocol selected but no bucket configured")
	}
	return out
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Pilot Settings Wizard")
	cmd.Println("=====================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	profile := settings.Profile

	// Step 1: Profile
	cmd.Println("Step 1: Your Profile")
	cmd.Println("--------------------")
	profile.Name = prompt(cmd, reader, "Full name", profile.Name)
	profile.Organization = prompt(cmd, reader, "Organization", profile.Organization)
	profile.LocalEndpoint = prompt(cmd, reader, "Local endpoint", profile.LocalEndpoint)
	if err := settingsService.SetProfile(profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	cmd.Println()

	// Step 2: Protocol
	cmd.Println("Step 2: Transfer Protocol")
	cmd.Println("-------------------------")
	protocols := []string{domain.ProtocolGlobus, domain.ProtocolHTTPS, domain.ProtocolS3}
	current := 1
	for i, p := range protocols {
		cmd.Printf("  %d. %s\n", i+1, p)
		if p == settings.Project.Protocol {
			current = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	idx := parseChoice(readLine(reader), len(protocols), current)
	if err := settingsService.SetProtocol(protocols[idx-1]); err != nil {
		return fmt.Errorf("failed to save protocol: %w", err)
	}
	settings.Profile = profile
	settings.Project.Protocol = protocols[idx-1]
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	warnings := settingsWarnings(settings)
	for _, w := range warnings {
		cmd.Printf("Warning: %s\n", w)
	}
	if len(warnings) == 0 {
		cmd.Println("All settings saved.")
	}
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	defaults := settingsService.GetDefaults()
	defaults.Profile = current.Profile
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

// Helper functions.

func prompt(cmd *cobra.Command, reader *bufio.Reader, label, current string) string {
	if current != "" {
		cmd.Printf("%s [%s]: ", label, current)
	} else {
		cmd.Printf("%s: ", label)
	}
	if in := readLine(reader); in != "" {
		return in
	}
	return current
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	return maskAPIKey(s)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
