// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact and find_contacts tools
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContactHandlers struct {
	svc *crm.Service
}

func NewContactHandlers(svc *crm.Service) *ContactHandlers {
	return &ContactHandlers{svc: svc}
}

type AddContactInput struct {
	Name     string `json:"name" jsonschema:"Contact name (required)"`
	Email    string `json:"email" jsonschema:"Contact email address (required)"`
	Phone    string `json:"phone,omitempty" jsonschema:"Contact phone number"`
	Company  string `json:"company" jsonschema:"Company name (required)"`
	JobTitle string `json:"job_title,omitempty" jsonschema:"Job title"`
	Address  string `json:"address,omitempty" jsonschema:"Postal address"`
	Notes    string `json:"notes,omitempty" jsonschema:"Additional notes about the contact"`
	Type     string `json:"type,omitempty" jsonschema:"customer or lead (default customer)"`
}

func (h *ContactHandlers) AddContact(ctx context.Context, _ *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.Name == "" {
		return nil, ContactOutput{}, fmt.Errorf("name is required")
	}

	created, err := h.svc.CreateContact(ctx, models.Contact{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Company:  input.Company,
		JobTitle: input.JobTitle,
		Address:  input.Address,
		Notes:    input.Notes,
		Type:     models.ContactType(input.Type),
	})
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return nil, contactToOutput(created), nil
}

type FindContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search by name, email, or company"`
	Type  string `json:"type,omitempty" jsonschema:"Filter by type: customer or lead"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results (default 50)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Count    int             `json:"count"`
}

func (h *ContactHandlers) FindContacts(ctx context.Context, _ *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	contacts, err := h.svc.Contacts(ctx, input.Query, input.Type)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	out := FindContactsOutput{Contacts: []ContactOutput{}}
	for _, c := range contacts {
		if len(out.Contacts) == limitOrDefault(input.Limit) {
			break
		}
		out.Contacts = append(out.Contacts, contactToOutput(c))
	}
	out.Count = len(out.Contacts)
	return nil, out, nil
}
