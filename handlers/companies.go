// ABOUTME: Company MCP tool handlers
// ABOUTME: Implements add_company and find_companies tools
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type CompanyHandlers struct {
	svc *crm.Service
}

func NewCompanyHandlers(svc *crm.Service) *CompanyHandlers {
	return &CompanyHandlers{svc: svc}
}

type AddCompanyInput struct {
	Name    string `json:"name" jsonschema:"Company name (required)"`
	Email   string `json:"email,omitempty" jsonschema:"Company email"`
	Phone   string `json:"phone,omitempty" jsonschema:"Company phone"`
	Website string `json:"website,omitempty" jsonschema:"Company website (e.g., https://acme.com)"`
	Address string `json:"address,omitempty" jsonschema:"Postal address"`
	Type    string `json:"type,omitempty" jsonschema:"customer or lead (default customer)"`
}

func (h *CompanyHandlers) AddCompany(ctx context.Context, _ *mcp.CallToolRequest, input AddCompanyInput) (*mcp.CallToolResult, CompanyOutput, error) {
	if input.Name == "" {
		return nil, CompanyOutput{}, fmt.Errorf("name is required")
	}

	created, err := h.svc.CreateCompany(ctx, models.Company{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Website: input.Website,
		Address: input.Address,
		Type:    models.ContactType(input.Type),
	})
	if err != nil {
		return nil, CompanyOutput{}, fmt.Errorf("failed to create company: %w", err)
	}
	return nil, companyToOutput(created), nil
}

type FindCompaniesInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search by name, email, or website"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results (default 50)"`
}

type FindCompaniesOutput struct {
	Companies []CompanyOutput `json:"companies"`
	Count     int             `json:"count"`
}

func (h *CompanyHandlers) FindCompanies(ctx context.Context, _ *mcp.CallToolRequest, input FindCompaniesInput) (*mcp.CallToolResult, FindCompaniesOutput, error) {
	companies, err := h.svc.Companies(ctx, input.Query, "")
	if err != nil {
		return nil, FindCompaniesOutput{}, fmt.Errorf("failed to find companies: %w", err)
	}

	out := FindCompaniesOutput{Companies: []CompanyOutput{}}
	for _, c := range companies {
		if len(out.Companies) == limitOrDefault(input.Limit) {
			break
		}
		out.Companies = append(out.Companies, companyToOutput(c))
	}
	out.Count = len(out.Companies)
	return nil, out, nil
}
