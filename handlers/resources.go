// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only JSON views of the pipeline, dashboard, contacts, and leads via crm:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/pipeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Resources lists every static resource the server exposes.
var Resources = []*mcp.Resource{
	{URI: "crm://pipeline", Name: "pipeline", Description: "Deals grouped into board columns with per-stage totals", MIMEType: "application/json"},
	{URI: "crm://dashboard", Name: "dashboard", Description: "Dashboard figures for the current month", MIMEType: "application/json"},
	{URI: "crm://contacts", Name: "contacts", Description: "Every contact", MIMEType: "application/json"},
	{URI: "crm://leads", Name: "leads", Description: "Every open lead", MIMEType: "application/json"},
}

type ResourceHandlers struct {
	svc *crm.Service
}

func NewResourceHandlers(svc *crm.Service) *ResourceHandlers {
	return &ResourceHandlers{svc: svc}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	var (
		data any
		err  error
	)
	switch strings.TrimPrefix(uri, "crm://") {
	case "pipeline":
		var board []ColumnOutput
		board, err = h.readPipeline(ctx)
		data = board
	case "dashboard":
		var d analytics.Dashboard
		d, err = h.svc.Dashboard(ctx, analytics.ThisMonth)
		data = dashboardToOutput(d, nil)
	case "contacts":
		data, err = h.svc.Store().Contacts().List(ctx)
	case "leads":
		data, err = h.svc.Store().Leads().List(ctx)
	default:
		return nil, fmt.Errorf("unknown resource: %s", uri)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", uri, err)
	}

	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(text),
		},
	}}, nil
}

func (h *ResourceHandlers) readPipeline(ctx context.Context) ([]ColumnOutput, error) {
	snap, err := h.svc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	board, err := pipeline.Summarize(snap.Deals)
	if err != nil {
		return nil, err
	}
	return columnsToOutput(board, crm.ContactNames(snap.Contacts)), nil
}
