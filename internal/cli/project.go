package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)

	rootCmd.AddCommand(clientCmd)
	clientCmd.AddCommand(clientProjectsCmd)
}

var projectCmd = &cobra.Command{
	Use:     "project",
	Short:   "Project commands",
	Long:    `Inspect projects in the workspace.`,
	Aliases: []string{"projects"},
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all projects",
	Long:    `List all projects in the workspace, newest first.`,
	Aliases: []string{"ls"},
	RunE: func(_ *cobra.Command, _ []string) error {
		profile, err := GetCurrentProfile()
		if err != nil {
			return fmt.Errorf("not connected: %w", err)
		}

		client := NewAPIClientFromProfile(profile)
		projects, err := client.GetProjects()
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		if len(projects) == 0 {
			fmt.Println("No projects found")
			return nil
		}

		return RenderProjects(projects, viper.GetString("output"))
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show project details",
	Long:  `Display detailed information about a project, including its tasks.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		profile, err := GetCurrentProfile()
		if err != nil {
			return fmt.Errorf("not connected: %w", err)
		}

		client := NewAPIClientFromProfile(profile)
		project, err := client.GetProject(args[0])
		if err != nil {
			return fmt.Errorf("failed to get project: %w", err)
		}

		return RenderProjectDetails(project, viper.GetString("output"))
	},
}

var clientCmd = &cobra.Command{
	Use:     "client",
	Short:   "Client commands",
	Long:    `Inspect clients and their projects.`,
	Aliases: []string{"clients"},
}

var clientProjectsCmd = &cobra.Command{
	Use:   "projects [client-id]",
	Short: "List a client's projects",
	Long:  `List all projects belonging to the given client.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		profile, err := GetCurrentProfile()
		if err != nil {
			return fmt.Errorf("not connected: %w", err)
		}

		client := NewAPIClientFromProfile(profile)
		projects, err := client.GetClientProjects(args[0])
		if err != nil {
			return fmt.Errorf("failed to list client projects: %w", err)
		}

		if len(projects) == 0 {
			fmt.Println("No projects found for this client")
			return nil
		}

		return RenderProjects(projects, viper.GetString("output"))
	},
}
