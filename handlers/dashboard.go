// ABOUTME: Dashboard and visualization MCP handlers
// ABOUTME: Provides get_dashboard and generate_pipeline_graph tools for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/pipeline"
	"github.com/harperreed/crmboard/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type DashboardHandlers struct {
	svc *crm.Service
}

func NewDashboardHandlers(svc *crm.Service) *DashboardHandlers {
	return &DashboardHandlers{svc: svc}
}

type GetDashboardInput struct {
	Range  string `json:"range,omitempty" jsonschema:"Date window: thisMonth, lastMonth, quarter, or year (default thisMonth)"`
	Render bool   `json:"render,omitempty" jsonschema:"Include a plain-text rendering of the dashboard"`
}

func (h *DashboardHandlers) GetDashboard(ctx context.Context, _ *mcp.CallToolRequest, input GetDashboardInput) (*mcp.CallToolResult, DashboardOutput, error) {
	window := analytics.ThisMonth
	if input.Range != "" {
		w, err := analytics.ParseWindow(input.Range)
		if err != nil {
			return nil, DashboardOutput{}, err
		}
		window = w
	}

	d, err := h.svc.Dashboard(ctx, window)
	if err != nil {
		return nil, DashboardOutput{}, fmt.Errorf("failed to compute dashboard: %w", err)
	}
	contacts, err := h.svc.Store().Contacts().List(ctx)
	if err != nil {
		return nil, DashboardOutput{}, fmt.Errorf("failed to load contacts: %w", err)
	}

	output := dashboardToOutput(d, crm.ContactNames(contacts))
	if input.Render {
		board, err := h.svc.Board(ctx)
		if err != nil {
			return nil, DashboardOutput{}, fmt.Errorf("failed to build board: %w", err)
		}
		output.Rendered = viz.RenderDashboard(d, board)
	}
	return nil, output, nil
}

type GeneratePipelineGraphInput struct{}

type GeneratePipelineGraphOutput struct {
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *DashboardHandlers) GeneratePipelineGraph(ctx context.Context, _ *mcp.CallToolRequest, _ GeneratePipelineGraphInput) (*mcp.CallToolResult, GeneratePipelineGraphOutput, error) {
	snap, err := h.svc.Snapshot(ctx)
	if err != nil {
		return nil, GeneratePipelineGraphOutput{}, fmt.Errorf("failed to load records: %w", err)
	}
	board, err := pipeline.Summarize(snap.Deals)
	if err != nil {
		return nil, GeneratePipelineGraphOutput{}, fmt.Errorf("failed to build board: %w", err)
	}

	dot, err := viz.PipelineGraph(ctx, board, crm.ContactNames(snap.Contacts))
	if err != nil {
		return nil, GeneratePipelineGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	return nil, GeneratePipelineGraphOutput{
		DOTSource: dot,
		NodeCount: len(board) + len(snap.Deals),
		EdgeCount: strings.Count(dot, "->"),
	}, nil
}
