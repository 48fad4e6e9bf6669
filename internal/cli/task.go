package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"clientflow/internal/domain"
)

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd)

	taskListCmd.Flags().StringP("status", "s", "", "filter by status (not-started, in-progress, completed)")
	taskListCmd.Flags().StringP("priority", "p", "", "filter by priority (low, medium, high)")
	taskListCmd.Flags().Bool("overdue", false, "show only overdue tasks")
}

var taskCmd = &cobra.Command{
	Use:     "task",
	Short:   "Task commands",
	Long:    `Inspect tasks within a project.`,
	Aliases: []string{"tasks"},
}

var taskListCmd = &cobra.Command{
	Use:     "list [project-id]",
	Short:   "List tasks for a project",
	Long:    `List all tasks for the given project, optionally filtered.`,
	Aliases: []string{"ls"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := GetCurrentProfile()
		if err != nil {
			return fmt.Errorf("not connected: %w", err)
		}

		client := NewAPIClientFromProfile(profile)
		tasks, err := client.GetProjectTasks(args[0])
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetString("priority")
		overdueOnly, _ := cmd.Flags().GetBool("overdue")
		tasks = filterTasks(tasks, status, priority, overdueOnly)

		if len(tasks) == 0 {
			fmt.Println("No tasks found")
			return nil
		}

		return RenderTasks(tasks, viper.GetString("output"))
	},
}

func filterTasks(tasks []domain.Task, status, priority string, overdueOnly bool) []domain.Task {
	now := time.Now()
	filtered := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if status != "" && string(task.Status) != status {
			continue
		}
		if priority != "" && string(task.Priority) != priority {
			continue
		}
		if overdueOnly && !task.IsOverdue(now) {
			continue
		}
		filtered = append(filtered, task)
	}
	return filtered
}
