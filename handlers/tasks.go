// ABOUTME: Task MCP tool handlers
// ABOUTME: Implements create_task, complete_task, and find_tasks tools
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/fixtures"
	"github.com/harperreed/crmboard/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type TaskHandlers struct {
	svc *crm.Service
}

func NewTaskHandlers(svc *crm.Service) *TaskHandlers {
	return &TaskHandlers{svc: svc}
}

type CreateTaskInput struct {
	Title       string `json:"title" jsonschema:"Task title (required)"`
	Description string `json:"description,omitempty" jsonschema:"Task description"`
	DueDate     string `json:"due_date" jsonschema:"Due date: RFC 3339, YYYY-MM-DD, now, or an offset like +2d (required)"`
	Status      string `json:"status,omitempty" jsonschema:"to-do, in-progress, completed, or on-hold (default to-do)"`
	ContactID   int64  `json:"contact_id,omitempty" jsonschema:"Related contact ID"`
}

func (h *TaskHandlers) CreateTask(ctx context.Context, _ *mcp.CallToolRequest, input CreateTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	if input.DueDate == "" {
		return nil, TaskOutput{}, fmt.Errorf("due_date is required")
	}
	due, err := fixtures.ParseTime(input.DueDate, h.svc.Now())
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("invalid due_date: %w", err)
	}

	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     due,
		Status:      models.TaskStatus(input.Status),
	}
	if input.ContactID > 0 {
		if _, err := h.svc.Store().Contacts().Get(ctx, input.ContactID); err != nil {
			return nil, TaskOutput{}, fmt.Errorf("failed to lookup contact: %w", err)
		}
		contactID := input.ContactID
		task.ContactID = &contactID
	}

	created, err := h.svc.CreateTask(ctx, task)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to create task: %w", err)
	}
	return nil, taskToOutput(created, nil), nil
}

type CompleteTaskInput struct {
	TaskID int64 `json:"task_id" jsonschema:"Task ID (required)"`
}

func (h *TaskHandlers) CompleteTask(ctx context.Context, _ *mcp.CallToolRequest, input CompleteTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	if input.TaskID <= 0 {
		return nil, TaskOutput{}, fmt.Errorf("task_id is required")
	}

	task, err := h.svc.CompleteTask(ctx, input.TaskID)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to complete task: %w", err)
	}
	return nil, taskToOutput(task, nil), nil
}

type FindTasksInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Search title, description, or contact name"`
	Status string `json:"status,omitempty" jsonschema:"Filter by status (or all)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum results (default 50)"`
}

type FindTasksOutput struct {
	Tasks    []TaskOutput `json:"tasks"`
	Count    int          `json:"count"`
	DueToday int          `json:"due_today"`
	Overdue  int          `json:"overdue"`
}

func (h *TaskHandlers) FindTasks(ctx context.Context, _ *mcp.CallToolRequest, input FindTasksInput) (*mcp.CallToolResult, FindTasksOutput, error) {
	snap, err := h.svc.Snapshot(ctx)
	if err != nil {
		return nil, FindTasksOutput{}, fmt.Errorf("failed to load records: %w", err)
	}
	names := crm.ContactNames(snap.Contacts)
	tasks, err := crm.FilterTasks(snap.Tasks, names, input.Query, input.Status)
	if err != nil {
		return nil, FindTasksOutput{}, fmt.Errorf("failed to find tasks: %w", err)
	}

	out := FindTasksOutput{Tasks: []TaskOutput{}}
	for _, t := range tasks {
		if len(out.Tasks) == limitOrDefault(input.Limit) {
			break
		}
		out.Tasks = append(out.Tasks, taskToOutput(t, names))
	}
	out.Count = len(out.Tasks)

	stats, err := analytics.SummarizeTasks(tasks, h.svc.Now())
	if err != nil {
		return nil, FindTasksOutput{}, fmt.Errorf("failed to summarize tasks: %w", err)
	}
	out.DueToday = stats.DueToday
	out.Overdue = stats.Overdue
	return nil, out, nil
}
