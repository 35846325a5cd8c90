// ABOUTME: Deal and pipeline MCP tool handlers
// ABOUTME: Implements get_pipeline_board, move_deal_stage, create_deal, and find_deals tools
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/fixtures"
	"github.com/harperreed/crmboard/models"
	"github.com/harperreed/crmboard/pipeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
)

type DealHandlers struct {
	svc *crm.Service
}

func NewDealHandlers(svc *crm.Service) *DealHandlers {
	return &DealHandlers{svc: svc}
}

type GetPipelineBoardInput struct{}

type BoardOutput struct {
	Columns       []ColumnOutput `json:"columns"`
	PipelineValue string         `json:"pipeline_value"`
}

func (h *DealHandlers) GetPipelineBoard(ctx context.Context, _ *mcp.CallToolRequest, _ GetPipelineBoardInput) (*mcp.CallToolResult, BoardOutput, error) {
	snap, err := h.svc.Snapshot(ctx)
	if err != nil {
		return nil, BoardOutput{}, fmt.Errorf("failed to load records: %w", err)
	}
	board, err := pipeline.Summarize(snap.Deals)
	if err != nil {
		return nil, BoardOutput{}, fmt.Errorf("failed to build board: %w", err)
	}
	total, err := pipeline.PipelineValue(snap.Deals)
	if err != nil {
		return nil, BoardOutput{}, fmt.Errorf("failed to total pipeline: %w", err)
	}

	return nil, BoardOutput{
		Columns:       columnsToOutput(board, crm.ContactNames(snap.Contacts)),
		PipelineValue: total.StringFixed(2),
	}, nil
}

type MoveDealStageInput struct {
	DealID int64  `json:"deal_id" jsonschema:"Deal ID (required)"`
	Stage  string `json:"stage" jsonschema:"Target stage: Prospecting, Qualification, Proposal, Negotiation, Closed Won, Closed Lost"`
}

func (h *DealHandlers) MoveDealStage(ctx context.Context, _ *mcp.CallToolRequest, input MoveDealStageInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.DealID <= 0 {
		return nil, DealOutput{}, fmt.Errorf("deal_id is required")
	}
	if input.Stage == "" {
		return nil, DealOutput{}, fmt.Errorf("stage is required")
	}

	deal, err := h.svc.MoveDeal(ctx, input.DealID, models.Stage(input.Stage))
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to move deal: %w", err)
	}
	return nil, dealToOutput(deal, nil), nil
}

type CreateDealInput struct {
	Title             string `json:"title" jsonschema:"Deal title (required)"`
	Value             string `json:"value,omitempty" jsonschema:"Deal value in dollars, e.g. 12500.00"`
	Stage             string `json:"stage,omitempty" jsonschema:"Stage (default Prospecting)"`
	ContactID         int64  `json:"contact_id,omitempty" jsonschema:"Contact ID (this or contact_name is required)"`
	ContactName       string `json:"contact_name,omitempty" jsonschema:"Contact name or email to attach the deal to"`
	ExpectedCloseDate string `json:"expected_close_date,omitempty" jsonschema:"Expected close date: RFC 3339, YYYY-MM-DD, or an offset like +30d"`
	Probability       int    `json:"probability,omitempty" jsonschema:"Win probability 0-100"`
	SalesRep          string `json:"sales_rep,omitempty" jsonschema:"Sales rep id: john_doe, jane_smith, mike_johnson, sarah_wilson, david_brown"`
	Description       string `json:"description,omitempty" jsonschema:"Deal description"`
}

func (h *DealHandlers) CreateDeal(ctx context.Context, _ *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.Title == "" {
		return nil, DealOutput{}, fmt.Errorf("title is required")
	}

	value := decimal.Zero
	if input.Value != "" {
		v, err := decimal.NewFromString(input.Value)
		if err != nil {
			return nil, DealOutput{}, fmt.Errorf("invalid value %q: %w", input.Value, err)
		}
		value = v
	}

	contactID := input.ContactID
	if contactID == 0 {
		if input.ContactName == "" {
			return nil, DealOutput{}, fmt.Errorf("contact_id or contact_name is required")
		}
		contact, err := h.svc.FindContact(ctx, input.ContactName)
		if err != nil {
			return nil, DealOutput{}, err
		}
		contactID = contact.ID
	}

	deal := models.Deal{
		Title:       input.Title,
		Value:       value,
		Stage:       models.Stage(input.Stage),
		ContactID:   contactID,
		Probability: input.Probability,
		SalesRep:    input.SalesRep,
		Description: input.Description,
	}

	if input.ExpectedCloseDate != "" {
		closeDate, err := fixtures.ParseTime(input.ExpectedCloseDate, h.svc.Now())
		if err != nil {
			return nil, DealOutput{}, fmt.Errorf("invalid expected_close_date: %w", err)
		}
		deal.ExpectedCloseDate = &closeDate
	}

	created, err := h.svc.CreateDeal(ctx, deal)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to create deal: %w", err)
	}
	return nil, dealToOutput(created, nil), nil
}

type FindDealsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search deal title or contact name"`
	Stage string `json:"stage,omitempty" jsonschema:"Only deals in this stage"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results (default 50)"`
}

type FindDealsOutput struct {
	Deals []DealOutput `json:"deals"`
	Count int          `json:"count"`
}

func (h *DealHandlers) FindDeals(ctx context.Context, _ *mcp.CallToolRequest, input FindDealsInput) (*mcp.CallToolResult, FindDealsOutput, error) {
	var want models.Stage
	if input.Stage != "" {
		st, err := models.ParseStage(input.Stage)
		if err != nil {
			return nil, FindDealsOutput{}, err
		}
		want = st
	}

	snap, err := h.svc.Snapshot(ctx)
	if err != nil {
		return nil, FindDealsOutput{}, fmt.Errorf("failed to load records: %w", err)
	}
	names := crm.ContactNames(snap.Contacts)

	out := FindDealsOutput{Deals: []DealOutput{}}
	for _, d := range crm.FilterDeals(snap.Deals, names, input.Query) {
		if want != "" {
			if st, err := models.ParseStage(string(d.Stage)); err != nil || st != want {
				continue
			}
		}
		out.Deals = append(out.Deals, dealToOutput(d, names))
		if len(out.Deals) == limitOrDefault(input.Limit) {
			break
		}
	}
	out.Count = len(out.Deals)
	return nil, out, nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}
