package cli

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(profileCmd)

	// Profile subcommands
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileSelectCmd)
	profileCmd.AddCommand(profileShowCmd)

	// Login command flags
	loginCmd.Flags().StringP("server", "s", "http://localhost:8080", "Server URL")
	loginCmd.Flags().StringP("token", "t", "", "Refresh token (not recommended, use interactive prompt)")
	loginCmd.Flags().StringP("profile", "", "default", "Profile name")
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Manage connection profiles for the ClientFlow workspace API.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store credentials for a ClientFlow server",
	Long: `Store a refresh token for the ClientFlow workspace API.

The token is prompted interactively if not provided via flags and is
saved in the named profile for future use.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		serverURL, _ := cmd.Flags().GetString("server")
		token, _ := cmd.Flags().GetString("token")
		profileName, _ := cmd.Flags().GetString("profile")

		if token == "" {
			fmt.Print("Refresh token: ")
			byteToken, err := term.ReadPassword(syscall.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			token = strings.TrimSpace(string(byteToken))
			fmt.Println()
		}

		if token == "" {
			return fmt.Errorf("refresh token is required")
		}

		profile := Profile{
			Name:         profileName,
			ServerURL:    serverURL,
			RefreshToken: token,
		}

		if err := ValidateProfile(&profile); err != nil {
			return fmt.Errorf("invalid profile: %w", err)
		}

		client := NewAPIClientFromProfile(&profile)
		fmt.Printf("Connecting to %s...\n", serverURL)
		if err := client.TestConnection(); err != nil {
			return fmt.Errorf("failed to connect to server: %w", err)
		}

		if err := AddProfile(profile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		fmt.Printf("✓ Connected to %s\n", serverURL)
		fmt.Printf("✓ Profile '%s' saved\n", profileName)

		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout [profile]",
	Short: "Remove stored credentials",
	Long: `Remove the stored refresh token for the specified profile.
If no profile is specified, removes the current default profile.`,
	RunE: func(_ *cobra.Command, args []string) error {
		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			config, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			profileName = config.DefaultProfile
		}

		if profileName == "" {
			return fmt.Errorf("no profile specified and no default profile set")
		}

		if err := RemoveProfile(profileName); err != nil {
			return fmt.Errorf("failed to remove profile: %w", err)
		}

		fmt.Printf("✓ Profile '%s' removed\n", profileName)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connection status",
	Long:  `Display current connection status and active profile information.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		profile, err := GetCurrentProfile()
		if err != nil {
			fmt.Println("Status: Not connected")
			fmt.Printf("Error: %s\n", err.Error())
			return nil
		}

		client := NewAPIClientFromProfile(profile)
		if err := client.TestConnection(); err != nil {
			fmt.Printf("Status: Profile exists but connection failed\n")
			fmt.Printf("Profile: %s\n", profile.Name)
			fmt.Printf("Server: %s\n", profile.ServerURL)
			fmt.Printf("Error: %s\n", err.Error())
			return nil
		}

		fmt.Printf("Status: ✓ Connected\n")
		fmt.Printf("Profile: %s\n", profile.Name)
		fmt.Printf("Server: %s\n", profile.ServerURL)

		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage connection profiles",
	Long:  `Manage multiple connection profiles for different environments.`,
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all profiles",
	Long:    `List all configured connection profiles.`,
	Aliases: []string{"ls"},
	RunE: func(_ *cobra.Command, _ []string) error {
		profiles, err := ListProfiles()
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}

		if len(profiles) == 0 {
			fmt.Println("No profiles configured")
			return nil
		}

		config, err := LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Println("Available profiles:")
		for _, profile := range profiles {
			prefix := "  "
			if profile.Name == config.DefaultProfile {
				prefix = "* "
			}

			fmt.Printf("%s%s\n", prefix, profile.Name)
			fmt.Printf("    Server: %s\n", profile.ServerURL)
		}

		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:     "delete [name]",
	Short:   "Delete a profile",
	Long:    `Delete a connection profile.`,
	Aliases: []string{"remove", "rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		profileName := args[0]

		if err := RemoveProfile(profileName); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}

		fmt.Printf("✓ Profile '%s' deleted\n", profileName)
		return nil
	},
}

var profileSelectCmd = &cobra.Command{
	Use:     "select [name]",
	Short:   "Select a profile as default",
	Long:    `Set the specified profile as the default for all operations.`,
	Aliases: []string{"switch", "use"},
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		profileName := args[0]

		if err := SetCurrentProfile(profileName); err != nil {
			return fmt.Errorf("failed to select profile: %w", err)
		}

		fmt.Printf("✓ Profile '%s' selected as default\n", profileName)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile details",
	Long:  `Display detailed information about a profile.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		}

		var profile *Profile

		if profileName == "" {
			current, err := GetCurrentProfile()
			if err != nil {
				return fmt.Errorf("failed to get current profile: %w", err)
			}
			profile = current
		} else {
			config, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			p, exists := config.Profiles[profileName]
			if !exists {
				return fmt.Errorf("profile '%s' not found", profileName)
			}
			profile = &p
		}

		fmt.Printf("Profile: %s\n", profile.Name)
		fmt.Printf("Server: %s\n", profile.ServerURL)

		// Mask token
		if token := profile.RefreshToken; len(token) > 16 {
			fmt.Printf("Token: %s...%s\n",
				token[:8],
				strings.Repeat("*", len(token)-16)+token[len(token)-8:])
		} else if token != "" {
			fmt.Printf("Token: %s\n", strings.Repeat("*", len(token)))
		} else {
			fmt.Printf("Token: Not set\n")
		}

		return nil
	},
}
