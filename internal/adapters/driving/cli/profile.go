package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	profileName          string
	profileOrganization  string
	profileLocalEndpoint string
	profileProtocol      string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change your uploader profile",
	Long: `Show the profile used as creator and publisher of new records.

Pass any flag to change the matching field. Other fields are kept.`,
	Example: `  pilot profile
  pilot profile --name "Rosalind Franklin" --organization "King's College"
  pilot profile --local-endpoint 6d1a3a0e-8f3c-11e9-bfe3-0a06afd4a22e`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

func init() {
	f := profileCmd.Flags()
	f.StringVar(&profileName, "name", "", "your full name")
	f.StringVar(&profileOrganization, "organization", "", "organisation used as publisher")
	f.StringVar(&profileLocalEndpoint, "local-endpoint", "", "transfer endpoint on this machine")
	f.StringVar(&profileProtocol, "protocol", "", "default transfer protocol (globus, https or s3)")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("profile: %w", errNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	flags := cmd.Flags()
	profile := settings.Profile
	changed := false
	if flags.Changed("name") {
		profile.Name = profileName
		changed = true
	}
	if flags.Changed("organization") {
		profile.Organization = profileOrganization
		changed = true
	}
	if flags.Changed("local-endpoint") {
		profile.LocalEndpoint = profileLocalEndpoint
		changed = true
	}

	if changed {
		if err := settingsService.SetProfile(profile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		settings.Profile = profile
	}
	if flags.Changed("protocol") {
		if err := settingsService.SetProtocol(profileProtocol); err != nil {
			return fmt.Errorf("failed to save protocol: %w", err)
		}
		settings.Project.Protocol = profileProtocol
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Profile"))
	cmd.Printf("  Name:           %s\n", orUnset(profile.Name))
	cmd.Printf("  Creator:        %s\n", orUnset(profile.FormalName()))
	cmd.Printf("  Publisher:      %s\n", profile.Publisher())
	cmd.Printf("  Local endpoint: %s\n", orUnset(profile.LocalEndpoint))
	cmd.Printf("  Protocol:       %s\n", settings.Project.Protocol)
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
