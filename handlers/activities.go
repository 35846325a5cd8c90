// ABOUTME: Activity feed MCP tool handlers
// ABOUTME: Implements list_activities and log_activity tools
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ActivityHandlers struct {
	svc *crm.Service
}

func NewActivityHandlers(svc *crm.Service) *ActivityHandlers {
	return &ActivityHandlers{svc: svc}
}

type ListActivitiesInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search description or contact name"`
	Type  string `json:"type,omitempty" jsonschema:"Filter by activity type (or all)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results (default 50)"`
}

type ActivityGroupOutput struct {
	Label      string           `json:"label"`
	Activities []ActivityOutput `json:"activities"`
}

type ListActivitiesOutput struct {
	Groups []ActivityGroupOutput   `json:"groups"`
	Count  int                     `json:"count"`
	Stats  analytics.ActivityStats `json:"stats"`
}

func (h *ActivityHandlers) ListActivities(ctx context.Context, _ *mcp.CallToolRequest, input ListActivitiesInput) (*mcp.CallToolResult, ListActivitiesOutput, error) {
	snap, err := h.svc.Snapshot(ctx)
	if err != nil {
		return nil, ListActivitiesOutput{}, fmt.Errorf("failed to load records: %w", err)
	}
	names := crm.ContactNames(snap.Contacts)
	filtered, err := crm.FilterActivities(snap.Activities, names, input.Query, input.Type)
	if err != nil {
		return nil, ListActivitiesOutput{}, fmt.Errorf("failed to filter activities: %w", err)
	}
	recent, err := analytics.RecentActivities(filtered, limitOrDefault(input.Limit))
	if err != nil {
		return nil, ListActivitiesOutput{}, fmt.Errorf("failed to sort activities: %w", err)
	}

	now := h.svc.Now()
	days, err := analytics.GroupActivitiesByDay(recent, now)
	if err != nil {
		return nil, ListActivitiesOutput{}, fmt.Errorf("failed to group activities: %w", err)
	}
	stats, err := analytics.SummarizeActivities(filtered, now)
	if err != nil {
		return nil, ListActivitiesOutput{}, fmt.Errorf("failed to summarize activities: %w", err)
	}

	out := ListActivitiesOutput{Groups: []ActivityGroupOutput{}, Count: len(recent), Stats: stats}
	for _, day := range days {
		group := ActivityGroupOutput{Label: day.Label, Activities: make([]ActivityOutput, 0, len(day.Activities))}
		for _, a := range day.Activities {
			group.Activities = append(group.Activities, activityToOutput(a, names))
		}
		out.Groups = append(out.Groups, group)
	}
	return nil, out, nil
}

type LogActivityInput struct {
	Type        string `json:"type" jsonschema:"Activity type, e.g. email_sent, call_made, meeting_scheduled, note_added (required)"`
	Description string `json:"description" jsonschema:"What happened (required)"`
	ContactID   int64  `json:"contact_id,omitempty" jsonschema:"Related contact ID"`
	DealID      int64  `json:"deal_id,omitempty" jsonschema:"Related deal ID"`
}

func (h *ActivityHandlers) LogActivity(ctx context.Context, _ *mcp.CallToolRequest, input LogActivityInput) (*mcp.CallToolResult, ActivityOutput, error) {
	if input.Description == "" {
		return nil, ActivityOutput{}, fmt.Errorf("description is required")
	}

	a := models.Activity{
		Type:        models.ActivityType(input.Type),
		Description: input.Description,
		ContactID:   input.ContactID,
	}
	if input.DealID > 0 {
		dealID := input.DealID
		a.DealID = &dealID
	}

	created, err := h.svc.LogActivity(ctx, a)
	if err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("failed to log activity: %w", err)
	}
	return nil, activityToOutput(created, nil), nil
}
