// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Provides pipeline review, lead triage, and deal analysis prompts built from live data
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/models"
	"github.com/harperreed/crmboard/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Prompts lists every prompt template the server exposes.
var Prompts = []*mcp.Prompt{
	{
		Name:        "pipeline-review",
		Description: "Review the sales pipeline and dashboard for a date window",
		Arguments: []*mcp.PromptArgument{
			{Name: "range", Description: "thisMonth, lastMonth, quarter, or year"},
		},
	},
	{
		Name:        "lead-triage",
		Description: "Prioritise open leads and suggest which to convert",
	},
	{
		Name:        "deal-analysis",
		Description: "Analyse one deal and suggest next steps",
		Arguments: []*mcp.PromptArgument{
			{Name: "deal_id", Description: "Deal ID", Required: true},
		},
	},
}

type PromptHandlers struct {
	svc *crm.Service
}

func NewPromptHandlers(svc *crm.Service) *PromptHandlers {
	return &PromptHandlers{svc: svc}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "pipeline-review":
		return h.getPipelineReviewPrompt(ctx, arguments)
	case "lead-triage":
		return h.getLeadTriagePrompt(ctx)
	case "deal-analysis":
		return h.getDealAnalysisPrompt(ctx, arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

func (h *PromptHandlers) getPipelineReviewPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	window := analytics.ThisMonth
	if r := args["range"]; r != "" {
		w, err := analytics.ParseWindow(r)
		if err != nil {
			return nil, err
		}
		window = w
	}

	d, err := h.svc.Dashboard(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard: %w", err)
	}
	board, err := h.svc.Board(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString("Please review this sales pipeline:\n\n")
	promptText.WriteString(viz.RenderDashboard(d, board))
	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Which stages are accumulating deals and why that may be")
	promptText.WriteString("\n2. How revenue compares with the previous period")
	promptText.WriteString("\n3. The most valuable next actions for the team")

	return userPrompt(fmt.Sprintf("Pipeline review for %s", window), promptText.String()), nil
}

func (h *PromptHandlers) getLeadTriagePrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	leads, err := h.svc.Leads(ctx, "", "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("There are %d open leads:\n\n", len(leads)))
	for _, l := range leads {
		promptText.WriteString(fmt.Sprintf("- #%d %s (%s) via %s, status %s, priority %s\n",
			l.ID, l.Name, l.Company, l.Source, l.Status, l.Priority))
	}
	promptText.WriteString("\nPlease rank these leads by how ready they are to convert into contacts,")
	promptText.WriteString(" and name the first outreach step for the top three.")

	return userPrompt("Lead triage", promptText.String()), nil
}

func (h *PromptHandlers) getDealAnalysisPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	idStr, ok := args["deal_id"]
	if !ok {
		return nil, fmt.Errorf("deal_id is required")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid deal_id: %w", err)
	}

	deal, err := h.svc.Store().Deals().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deal: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString("Please analyse this deal:\n\n")
	promptText.WriteString(fmt.Sprintf("Title: %s\n", deal.Title))
	promptText.WriteString(fmt.Sprintf("Value: %s\n", viz.FormatMoney(deal.Value)))
	promptText.WriteString(fmt.Sprintf("Stage: %s\n", deal.Stage))
	promptText.WriteString(fmt.Sprintf("Probability: %d%%\n", deal.Probability))
	if contact, err := h.svc.Store().Contacts().Get(ctx, deal.ContactID); err == nil {
		promptText.WriteString(fmt.Sprintf("Contact: %s (%s)\n", contact.Name, contact.Company))
	}
	if deal.SalesRep != "" {
		promptText.WriteString(fmt.Sprintf("Sales rep: %s\n", models.SalesRepName(deal.SalesRep)))
	}
	if deal.ExpectedCloseDate != nil {
		promptText.WriteString(fmt.Sprintf("Expected close: %s\n", deal.ExpectedCloseDate.Format("2006-01-02")))
	}
	days := int(h.svc.Now().Sub(deal.UpdatedAt).Hours() / 24)
	promptText.WriteString(fmt.Sprintf("Days in stage: %d\n", days))
	if deal.Description != "" {
		promptText.WriteString(fmt.Sprintf("\nDescription: %s\n", deal.Description))
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. The main risks to closing this deal")
	promptText.WriteString("\n2. Whether the probability looks right for its stage")
	promptText.WriteString("\n3. Concrete next steps")

	return userPrompt(fmt.Sprintf("Deal analysis: %s", deal.Title), promptText.String()), nil
}
