// ABOUTME: Registers every CRM tool, resource, and prompt on an MCP server
// ABOUTME: Shared by the stdio command and the in-memory tests
package handlers

import (
	"github.com/harperreed/crmboard/crm"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server exposing svc.
func NewServer(svc *crm.Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "crmboard",
		Version: version,
	}, nil)
	Register(server, svc)
	return server
}

func Register(server *mcp.Server, svc *crm.Service) {
	dealHandlers := NewDealHandlers(svc)
	dashboardHandlers := NewDashboardHandlers(svc)
	leadHandlers := NewLeadHandlers(svc)
	contactHandlers := NewContactHandlers(svc)
	companyHandlers := NewCompanyHandlers(svc)
	taskHandlers := NewTaskHandlers(svc)
	activityHandlers := NewActivityHandlers(svc)
	resourceHandlers := NewResourceHandlers(svc)
	promptHandlers := NewPromptHandlers(svc)

	// Pipeline
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_pipeline_board",
		Description: "Get every deal grouped into pipeline stage columns with per-stage counts and totals",
	}, dealHandlers.GetPipelineBoard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_deal_stage",
		Description: "Move a deal to another pipeline stage and record the change in the activity feed",
	}, dealHandlers.MoveDealStage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Create a new deal for an existing contact",
	}, dealHandlers.CreateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_deals",
		Description: "Search deals by title or contact name, optionally within one stage",
	}, dealHandlers.FindDeals)

	// Dashboard
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Get revenue, pipeline, conversion, task, and activity figures for a date window",
	}, dashboardHandlers.GetDashboard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_pipeline_graph",
		Description: "Generate a GraphViz DOT graph of the pipeline",
	}, dashboardHandlers.GeneratePipelineGraph)

	// Leads
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_lead",
		Description: "Add a new lead",
	}, leadHandlers.CreateLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_leads",
		Description: "Search leads by name, company, or email with optional status and source filters",
	}, leadHandlers.FindLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_lead",
		Description: "Convert a lead into a contact and remove the lead",
	}, leadHandlers.ConvertLead)

	// Contacts and companies
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact to the CRM",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search for contacts by name, email, or company",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_company",
		Description: "Add a new company to the CRM",
	}, companyHandlers.AddCompany)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_companies",
		Description: "Search for companies by name, email, or website",
	}, companyHandlers.FindCompanies)

	// Tasks
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_task",
		Description: "Create a task with a due date, optionally for a contact",
	}, taskHandlers.CreateTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task completed",
	}, taskHandlers.CompleteTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_tasks",
		Description: "Search tasks with an optional status filter, including due-today and overdue counts",
	}, taskHandlers.FindTasks)

	// Activity feed
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_activities",
		Description: "List the activity feed newest first, grouped by day",
	}, activityHandlers.ListActivities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_activity",
		Description: "Record an email, call, meeting, or note in the activity feed",
	}, activityHandlers.LogActivity)

	for _, r := range Resources {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	for _, p := range Prompts {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}
}
