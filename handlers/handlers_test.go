// ABOUTME: Tests for the MCP tool handlers against an in-memory record store
// ABOUTME: Calls handlers directly and through an in-memory client session
package handlers

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/memstore"
	"github.com/harperreed/crmboard/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC)

func setupService(t *testing.T) (*crm.Service, models.Contact) {
	t.Helper()
	svc := crm.NewService(memstore.New(nil), crm.WithClock(func() time.Time { return now }))
	contact, err := svc.CreateContact(context.Background(), models.Contact{
		Name:    "Ada Lovelace",
		Email:   "ada@engines.example",
		Company: "Analytical Engines",
	})
	require.NoError(t, err)
	return svc, contact
}

func TestCreateDealAndBoard(t *testing.T) {
	svc, contact := setupService(t)
	ctx := context.Background()
	h := NewDealHandlers(svc)

	_, deal, err := h.CreateDeal(ctx, nil, CreateDealInput{
		Title:             "Difference engine",
		Value:             "12500.5",
		ContactName:       "ada@engines.example",
		ExpectedCloseDate: "+30d",
		SalesRep:          "jane_smith",
	})
	require.NoError(t, err)
	assert.Equal(t, contact.ID, deal.ContactID)
	assert.Equal(t, "12500.50", deal.Value)
	assert.Equal(t, "Prospecting", deal.Stage)
	assert.Equal(t, "Jane Smith", deal.SalesRepName)
	require.NotNil(t, deal.ExpectedCloseDate)
	assert.Equal(t, "2026-06-14T10:00:00Z", *deal.ExpectedCloseDate)

	_, board, err := h.GetPipelineBoard(ctx, nil, GetPipelineBoardInput{})
	require.NoError(t, err)
	require.Len(t, board.Columns, len(models.Stages))
	assert.Equal(t, "Prospecting", board.Columns[0].Stage)
	assert.Equal(t, 1, board.Columns[0].Count)
	assert.Equal(t, "12500.50", board.Columns[0].TotalValue)
	assert.Equal(t, "Ada Lovelace", board.Columns[0].Deals[0].ContactName)
	assert.Equal(t, "12500.50", board.PipelineValue)
	for _, col := range board.Columns[1:] {
		assert.Zero(t, col.Count)
		assert.NotNil(t, col.Deals)
	}
}

func TestCreateDealErrors(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	h := NewDealHandlers(svc)

	_, _, err := h.CreateDeal(ctx, nil, CreateDealInput{ContactID: 1})
	assert.ErrorContains(t, err, "title is required")

	_, _, err = h.CreateDeal(ctx, nil, CreateDealInput{Title: "x"})
	assert.ErrorContains(t, err, "contact_id or contact_name is required")

	_, _, err = h.CreateDeal(ctx, nil, CreateDealInput{Title: "x", ContactName: "Nobody"})
	assert.ErrorContains(t, err, "no contact matches")

	_, _, err = h.CreateDeal(ctx, nil, CreateDealInput{Title: "x", ContactID: 1, Value: "lots"})
	assert.ErrorContains(t, err, "invalid value")

	_, _, err = h.CreateDeal(ctx, nil, CreateDealInput{Title: "x", ContactID: 999})
	assert.True(t, models.IsNotFound(err))
}

func TestMoveDealStage(t *testing.T) {
	svc, contact := setupService(t)
	ctx := context.Background()
	h := NewDealHandlers(svc)

	_, deal, err := h.CreateDeal(ctx, nil, CreateDealInput{Title: "Loom", Value: "800", ContactID: contact.ID})
	require.NoError(t, err)

	_, moved, err := h.MoveDealStage(ctx, nil, MoveDealStageInput{DealID: deal.ID, Stage: "closed_won"})
	require.NoError(t, err)
	assert.Equal(t, "Closed Won", moved.Stage)

	_, _, err = h.MoveDealStage(ctx, nil, MoveDealStageInput{DealID: deal.ID, Stage: "Pending"})
	assert.True(t, models.IsValidation(err))

	_, _, err = h.MoveDealStage(ctx, nil, MoveDealStageInput{DealID: 404, Stage: "Proposal"})
	assert.True(t, models.IsNotFound(err))

	_, found, err := h.FindDeals(ctx, nil, FindDealsInput{Stage: "Closed Won"})
	require.NoError(t, err)
	assert.Equal(t, 1, found.Count)

	_, found, err = h.FindDeals(ctx, nil, FindDealsInput{Stage: "Proposal"})
	require.NoError(t, err)
	assert.Zero(t, found.Count)

	feed, err := svc.Activities(ctx, "", string(models.ActivityDealStageChanged))
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestLeadLifecycle(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	h := NewLeadHandlers(svc)

	_, lead, err := h.CreateLead(ctx, nil, CreateLeadInput{
		Name:    "Charles Babbage",
		Company: "Cambridge",
		Email:   "charles@cam.example",
		Phone:   "555-0100",
		Source:  "Referral",
	})
	require.NoError(t, err)
	assert.Equal(t, "New", lead.Status)
	assert.Equal(t, "Medium", lead.Priority)

	_, found, err := h.FindLeads(ctx, nil, FindLeadsInput{Source: "referral"})
	require.NoError(t, err)
	assert.Equal(t, 1, found.Count)

	_, _, err = h.FindLeads(ctx, nil, FindLeadsInput{Status: "Warm"})
	assert.True(t, models.IsValidation(err))

	_, contact, err := h.ConvertLead(ctx, nil, ConvertLeadInput{LeadID: lead.ID})
	require.NoError(t, err)
	assert.Equal(t, "lead", contact.Type)
	assert.Equal(t, "Contact", contact.JobTitle)
	assert.Contains(t, contact.Notes, "Converted from lead")

	_, found, err = h.FindLeads(ctx, nil, FindLeadsInput{})
	require.NoError(t, err)
	assert.Zero(t, found.Count)

	_, _, err = h.ConvertLead(ctx, nil, ConvertLeadInput{LeadID: lead.ID})
	assert.True(t, models.IsNotFound(err))

	_, _, err = h.ConvertLead(ctx, nil, ConvertLeadInput{})
	assert.ErrorContains(t, err, "lead_id is required")
}

func TestContactsAndCompanies(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	contacts := NewContactHandlers(svc)
	companies := NewCompanyHandlers(svc)

	_, added, err := contacts.AddContact(ctx, nil, AddContactInput{
		Name:    "Grace Hopper",
		Email:   "grace@navy.example",
		Company: "US Navy",
		Type:    "lead",
	})
	require.NoError(t, err)
	assert.Equal(t, "lead", added.Type)

	_, _, err = contacts.AddContact(ctx, nil, AddContactInput{Name: "No Email", Company: "X"})
	assert.True(t, models.IsValidation(err))

	_, found, err := contacts.FindContacts(ctx, nil, FindContactsInput{Query: "navy"})
	require.NoError(t, err)
	require.Equal(t, 1, found.Count)
	assert.Equal(t, "Grace Hopper", found.Contacts[0].Name)

	_, found, err = contacts.FindContacts(ctx, nil, FindContactsInput{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, found.Count)

	_, company, err := companies.AddCompany(ctx, nil, AddCompanyInput{Name: "Analytical Engines", Website: "https://engines.example"})
	require.NoError(t, err)
	assert.Equal(t, "customer", company.Type)

	_, listed, err := companies.FindCompanies(ctx, nil, FindCompaniesInput{Query: "engines"})
	require.NoError(t, err)
	assert.Equal(t, 1, listed.Count)
}

func TestTasks(t *testing.T) {
	svc, contact := setupService(t)
	ctx := context.Background()
	h := NewTaskHandlers(svc)

	_, task, err := h.CreateTask(ctx, nil, CreateTaskInput{Title: "Send proposal", DueDate: "now", ContactID: contact.ID})
	require.NoError(t, err)
	assert.Equal(t, "to-do", task.Status)

	_, _, err = h.CreateTask(ctx, nil, CreateTaskInput{Title: "Late", DueDate: "-2d"})
	require.NoError(t, err)

	_, _, err = h.CreateTask(ctx, nil, CreateTaskInput{Title: "Orphan", DueDate: "now", ContactID: 99})
	assert.True(t, models.IsNotFound(err))

	_, _, err = h.CreateTask(ctx, nil, CreateTaskInput{Title: "No date"})
	assert.ErrorContains(t, err, "due_date is required")

	_, listed, err := h.FindTasks(ctx, nil, FindTasksInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, listed.Count)
	assert.Equal(t, 1, listed.DueToday)
	assert.Equal(t, 1, listed.Overdue)

	_, done, err := h.CompleteTask(ctx, nil, CompleteTaskInput{TaskID: task.ID})
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)

	// Completing twice leaves the task completed.
	_, done, err = h.CompleteTask(ctx, nil, CompleteTaskInput{TaskID: task.ID})
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)

	completed, err := svc.Activities(ctx, "", string(models.ActivityTaskCompleted))
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	_, listed, err = h.FindTasks(ctx, nil, FindTasksInput{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, 1, listed.Count)
	assert.Equal(t, "Ada Lovelace", listed.Tasks[0].ContactName)
}

func TestActivities(t *testing.T) {
	svc, contact := setupService(t)
	ctx := context.Background()
	h := NewActivityHandlers(svc)

	_, logged, err := h.LogActivity(ctx, nil, LogActivityInput{Type: "call_made", Description: "Intro call", ContactID: contact.ID})
	require.NoError(t, err)
	assert.Equal(t, "Phone", logged.Icon)

	_, _, err = h.LogActivity(ctx, nil, LogActivityInput{Type: "smoke_signal", Description: "?"})
	assert.True(t, models.IsValidation(err))

	_, out, err := h.ListActivities(ctx, nil, ListActivitiesInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Groups, 1)
	assert.Equal(t, "Today", out.Groups[0].Label)
	assert.Equal(t, "Ada Lovelace", out.Groups[0].Activities[0].ContactName)
	assert.Equal(t, 2, out.Stats.Today)

	_, out, err = h.ListActivities(ctx, nil, ListActivitiesInput{Type: "call_made"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
}

func TestGetDashboard(t *testing.T) {
	svc, contact := setupService(t)
	ctx := context.Background()
	deals := NewDealHandlers(svc)
	h := NewDashboardHandlers(svc)

	_, deal, err := deals.CreateDeal(ctx, nil, CreateDealInput{Title: "Won", Value: "5000", ContactID: contact.ID, Stage: "Closed Won"})
	require.NoError(t, err)
	require.Equal(t, "Closed Won", deal.Stage)

	_, d, err := h.GetDashboard(ctx, nil, GetDashboardInput{Render: true})
	require.NoError(t, err)
	assert.Equal(t, "thisMonth", d.Window)
	assert.Equal(t, "5000.00", d.Revenue)
	assert.Equal(t, "100.0", d.RevenueChange)
	assert.Equal(t, 1, d.Distribution["Closed Won"])
	assert.Len(t, d.Trend, 6)
	assert.Contains(t, d.Rendered, "CRM DASHBOARD")

	_, _, err = h.GetDashboard(ctx, nil, GetDashboardInput{Range: "fortnight"})
	assert.True(t, models.IsValidation(err))

	_, graph, err := h.GeneratePipelineGraph(ctx, nil, GeneratePipelineGraphInput{})
	require.NoError(t, err)
	assert.Contains(t, graph.DOTSource, "Sales Pipeline")
	assert.Equal(t, len(models.Stages)+1, graph.NodeCount)
}

func connect(t *testing.T, svc *crm.Service) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := NewServer(svc, "test").Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestServerRegistersTools(t *testing.T) {
	svc, _ := setupService(t)
	session := connect(t, svc)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"get_pipeline_board", "move_deal_stage", "create_deal", "get_dashboard",
		"create_lead", "find_leads", "convert_lead", "create_task",
		"complete_task", "list_activities", "add_contact", "find_contacts",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}
}

func TestServerCallToolAndResources(t *testing.T) {
	svc, contact := setupService(t)
	session := connect(t, svc)
	ctx := context.Background()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "create_deal",
		Arguments: map[string]any{"title": "Via MCP", "value": "250", "contact_id": contact.ID},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "move_deal_stage",
		Arguments: map[string]any{"deal_id": 999, "stage": "Proposal"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	read, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "crm://pipeline"})
	require.NoError(t, err)
	require.Len(t, read.Contents, 1)
	assert.Contains(t, read.Contents[0].Text, "Via MCP")

	deals, err := svc.Deals(ctx, "Via MCP")
	require.NoError(t, err)
	require.Len(t, deals, 1)
	dealID := strconv.FormatInt(deals[0].ID, 10)

	prompt, err := session.GetPrompt(ctx, &mcp.GetPromptParams{Name: "deal-analysis", Arguments: map[string]string{"deal_id": dealID}})
	require.NoError(t, err)
	require.Len(t, prompt.Messages, 1)
	text, ok := prompt.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Via MCP")
	assert.Contains(t, text.Text, "$250")
}
