// ABOUTME: Lead MCP tool handlers
// ABOUTME: Implements create_lead, find_leads, and convert_lead tools
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type LeadHandlers struct {
	svc *crm.Service
}

func NewLeadHandlers(svc *crm.Service) *LeadHandlers {
	return &LeadHandlers{svc: svc}
}

type CreateLeadInput struct {
	Name       string `json:"name" jsonschema:"Lead name (required)"`
	Company    string `json:"company" jsonschema:"Company name (required)"`
	Email      string `json:"email" jsonschema:"Email address (required)"`
	Phone      string `json:"phone" jsonschema:"Phone number (required)"`
	Source     string `json:"source,omitempty" jsonschema:"Website, Referral, Social Media, Cold Call, or Trade Show (default Website)"`
	Status     string `json:"status,omitempty" jsonschema:"New, Contacted, Qualified, or Unqualified (default New)"`
	Priority   string `json:"priority,omitempty" jsonschema:"High, Medium, or Low (default Medium)"`
	AssignedTo string `json:"assigned_to,omitempty" jsonschema:"Sales rep id the lead is assigned to"`
	Notes      string `json:"notes,omitempty" jsonschema:"Notes about the lead"`
}

func (h *LeadHandlers) CreateLead(ctx context.Context, _ *mcp.CallToolRequest, input CreateLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	created, err := h.svc.CreateLead(ctx, models.Lead{
		Name:       input.Name,
		Company:    input.Company,
		Email:      input.Email,
		Phone:      input.Phone,
		Source:     models.LeadSource(input.Source),
		Status:     models.LeadStatus(input.Status),
		Priority:   models.Priority(input.Priority),
		AssignedTo: input.AssignedTo,
		Notes:      input.Notes,
	})
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to create lead: %w", err)
	}
	return nil, leadToOutput(created), nil
}

type FindLeadsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Search by name, company, or email"`
	Status string `json:"status,omitempty" jsonschema:"Filter by status (or all)"`
	Source string `json:"source,omitempty" jsonschema:"Filter by source (or all)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum results (default 50)"`
}

type FindLeadsOutput struct {
	Leads []LeadOutput `json:"leads"`
	Count int          `json:"count"`
}

func (h *LeadHandlers) FindLeads(ctx context.Context, _ *mcp.CallToolRequest, input FindLeadsInput) (*mcp.CallToolResult, FindLeadsOutput, error) {
	leads, err := h.svc.Leads(ctx, input.Query, input.Status, input.Source)
	if err != nil {
		return nil, FindLeadsOutput{}, fmt.Errorf("failed to find leads: %w", err)
	}

	out := FindLeadsOutput{Leads: []LeadOutput{}}
	for _, l := range leads {
		if len(out.Leads) == limitOrDefault(input.Limit) {
			break
		}
		out.Leads = append(out.Leads, leadToOutput(l))
	}
	out.Count = len(out.Leads)
	return nil, out, nil
}

type ConvertLeadInput struct {
	LeadID int64 `json:"lead_id" jsonschema:"Lead ID (required)"`
}

func (h *LeadHandlers) ConvertLead(ctx context.Context, _ *mcp.CallToolRequest, input ConvertLeadInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.LeadID <= 0 {
		return nil, ContactOutput{}, fmt.Errorf("lead_id is required")
	}

	contact, err := h.svc.ConvertLead(ctx, input.LeadID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to convert lead: %w", err)
	}
	return nil, contactToOutput(contact), nil
}
