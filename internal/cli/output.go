package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"clientflow/internal/domain"
	"clientflow/internal/services"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatYML  = "yml"
)

// RenderProjects renders a list of projects in the specified format
func RenderProjects(projects []domain.Project, format string) error {
	switch strings.ToLower(format) {
	case formatJSON:
		return renderJSON(projects)
	case formatYAML, formatYML:
		return renderYAML(projects)
	default:
		return renderProjectsTable(projects)
	}
}

// RenderProjectDetails renders detailed project information
func RenderProjectDetails(project *domain.Project, format string) error {
	switch strings.ToLower(format) {
	case formatJSON:
		return renderJSON(project)
	case formatYAML, formatYML:
		return renderYAML(project)
	default:
		return renderProjectDetailsTable(project)
	}
}

// RenderTasks renders a list of tasks in the specified format
func RenderTasks(tasks []domain.Task, format string) error {
	switch strings.ToLower(format) {
	case formatJSON:
		return renderJSON(tasks)
	case formatYAML, formatYML:
		return renderYAML(tasks)
	default:
		return renderTasksTable(tasks)
	}
}

// RenderSummary renders the workspace dashboard summary
func RenderSummary(summary *services.WorkspaceSummary, format string) error {
	switch strings.ToLower(format) {
	case formatJSON:
		return renderJSON(summary)
	case formatYAML, formatYML:
		return renderYAML(summary)
	default:
		return renderSummaryTable(summary)
	}
}

func renderJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func renderYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func renderProjectsTable(projects []domain.Project) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Name", "Client", "Status", "Progress", "Tasks"})

	for _, project := range projects {
		t.AppendRow(table.Row{
			project.ID,
			project.Name,
			project.ClientName,
			project.Status,
			fmt.Sprintf("%.0f%%", project.ProgressPercentage),
			fmt.Sprintf("%d/%d", project.CompletedTasksCount, project.TotalTasksCount),
		})
	}

	t.Render()
	return nil
}

func renderProjectDetailsTable(project *domain.Project) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	t.AppendRow(table.Row{"ID", project.ID})
	t.AppendRow(table.Row{"Name", project.Name})
	if project.Description != "" {
		t.AppendRow(table.Row{"Description", project.Description})
	}
	t.AppendRow(table.Row{"Status", project.Status})
	if project.ClientName != "" {
		t.AppendRow(table.Row{"Client", project.ClientName})
	}
	if project.DueDate != nil {
		t.AppendRow(table.Row{"Due", project.DueDate.Format("2006-01-02")})
	}
	t.AppendRow(table.Row{"Progress", fmt.Sprintf("%.0f%%", project.ProgressPercentage)})
	t.AppendRow(table.Row{"Tasks", fmt.Sprintf("%d/%d completed", project.CompletedTasksCount, project.TotalTasksCount)})
	t.AppendRow(table.Row{"High priority", project.HighPriorityCount})
	t.AppendRow(table.Row{"Overdue", len(project.OverdueTasks)})
	t.Render()

	if len(project.Tasks) > 0 {
		fmt.Println()
		return renderTasksTable(project.Tasks)
	}
	return nil
}

func renderTasksTable(tasks []domain.Task) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Title", "Status", "Priority", "Due"})

	now := time.Now()
	for _, task := range tasks {
		due := ""
		if task.EndDate != nil {
			due = task.EndDate.Format("2006-01-02")
			if task.IsOverdue(now) {
				due += " (overdue)"
			}
		}
		t.AppendRow(table.Row{task.ID, task.Title, task.Status, task.Priority, due})
	}

	t.Render()
	return nil
}

func renderSummaryTable(summary *services.WorkspaceSummary) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	t.AppendRow(table.Row{"Projects", summary.TotalProjects})
	t.AppendRow(table.Row{"Active projects", summary.ActiveProjects})
	t.AppendRow(table.Row{"Completed projects", summary.CompletedProjects})
	t.AppendRow(table.Row{"Tasks", summary.TotalTasks})
	t.AppendRow(table.Row{"Completed tasks", summary.CompletedTasks})
	t.AppendRow(table.Row{"High priority tasks", summary.HighPriorityTasks})
	t.AppendRow(table.Row{"Overdue tasks", summary.OverdueTasks})
	t.AppendRow(table.Row{"Average progress", fmt.Sprintf("%.1f%%", summary.AverageProgress)})
	t.Render()
	return nil
}
