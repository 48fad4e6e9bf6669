package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(refreshCmd)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the workspace dashboard",
	Long:  `Display workspace-wide aggregates: project counts, task totals, overdue work and average progress.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		profile, err := GetCurrentProfile()
		if err != nil {
			return fmt.Errorf("not connected: %w", err)
		}

		client := NewAPIClientFromProfile(profile)
		summary, err := client.GetDashboard()
		if err != nil {
			return fmt.Errorf("failed to get dashboard: %w", err)
		}

		return RenderSummary(summary, viper.GetString("output"))
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetch the workspace",
	Long:  `Trigger a full workspace re-fetch on the server and display the refreshed summary.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		profile, err := GetCurrentProfile()
		if err != nil {
			return fmt.Errorf("not connected: %w", err)
		}

		client := NewAPIClientFromProfile(profile)
		summary, err := client.Refresh()
		if err != nil {
			return fmt.Errorf("failed to refresh workspace: %w", err)
		}

		fmt.Println("✓ Workspace refreshed")
		return RenderSummary(summary, viper.GetString("output"))
	},
}
