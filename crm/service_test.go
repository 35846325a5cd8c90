// ABOUTME: Tests for the CRM service over the in-memory store
// ABOUTME: Covers stage moves, conversion, activity logging, filters, and the dashboard
package crm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/memstore"
	"github.com/harperreed/crmboard/metrics"
	"github.com/harperreed/crmboard/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 15, 14, 30, 0, 0, time.UTC)

func newService(t *testing.T) (*crm.Service, *metrics.Collector) {
	t.Helper()
	m := metrics.NewCollector()
	svc := crm.NewService(memstore.New(nil),
		crm.WithClock(func() time.Time { return now }),
		crm.WithMetrics(m),
	)
	return svc, m
}

func seedContact(t *testing.T, svc *crm.Service) models.Contact {
	t.Helper()
	c, err := svc.CreateContact(context.Background(), models.Contact{
		Name: "Grace Hopper", Email: "grace@navy.mil", Company: "Navy",
	})
	require.NoError(t, err)
	return c
}

func seedDeal(t *testing.T, svc *crm.Service, contactID int64, stage models.Stage, value int64, created time.Time) models.Deal {
	t.Helper()
	d, err := svc.CreateDeal(context.Background(), models.Deal{
		Title: "Compiler licence", Value: decimal.NewFromInt(value), Stage: stage,
		ContactID: contactID, CreatedAt: created, UpdatedAt: created,
	})
	require.NoError(t, err)
	return d
}

func activitiesOfType(t *testing.T, svc *crm.Service, typ models.ActivityType) []models.Activity {
	t.Helper()
	acts, err := svc.Activities(context.Background(), "", string(typ))
	require.NoError(t, err)
	return acts
}

func TestCreateContactDefaultsAndLogs(t *testing.T) {
	svc, _ := newService(t)
	c := seedContact(t, svc)

	assert.Equal(t, models.ContactCustomer, c.Type)
	assert.Equal(t, now, c.CreatedAt)
	assert.Len(t, activitiesOfType(t, svc, models.ActivityContactCreated), 1)
}

func TestCreateContactRejectsInvalid(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.CreateContact(context.Background(), models.Contact{Name: "x", Email: "nope", Company: "y"})
	assert.True(t, models.IsValidation(err))
}

func TestCreateDealRequiresContact(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.CreateDeal(context.Background(), models.Deal{Title: "x", Value: decimal.NewFromInt(1), ContactID: 404})
	assert.True(t, models.IsNotFound(err))
}

func TestCreateDealNormalizesLegacyStage(t *testing.T) {
	svc, _ := newService(t)
	c := seedContact(t, svc)
	d := seedDeal(t, svc, c.ID, "qualified", 10, now)
	assert.Equal(t, models.StageQualification, d.Stage)

	blank := seedDeal(t, svc, c.ID, "", 10, now)
	assert.Equal(t, models.StageProspecting, blank.Stage)
}

func TestMoveDealPersistsAndLogs(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	c := seedContact(t, svc)
	d := seedDeal(t, svc, c.ID, models.StageProposal, 1000, now.Add(-time.Hour))

	moved, err := svc.MoveDeal(ctx, d.ID, models.StageClosedWon)
	require.NoError(t, err)
	assert.Equal(t, models.StageClosedWon, moved.Stage)
	assert.Equal(t, now, moved.UpdatedAt)

	stored, err := svc.Store().Deals().Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageClosedWon, stored.Stage)

	acts := activitiesOfType(t, svc, models.ActivityDealStageChanged)
	require.Len(t, acts, 1)
	require.NotNil(t, acts[0].DealID)
	assert.Equal(t, d.ID, *acts[0].DealID)
	assert.Contains(t, acts[0].Description, "from Proposal to Closed Won")

	series, err := testutil.GatherAndCount(m.Registry(), "crm_stage_moves_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestMoveDealToSameStageIsNoop(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c := seedContact(t, svc)
	d := seedDeal(t, svc, c.ID, models.StageNegotiation, 10, now.Add(-time.Hour))

	same, err := svc.MoveDeal(ctx, d.ID, "negotiation")
	require.NoError(t, err)
	assert.Equal(t, d, same)
	assert.Empty(t, activitiesOfType(t, svc, models.ActivityDealStageChanged))
}

func TestMoveDealBumpsUpdatedAtOnClockSkew(t *testing.T) {
	svc, _ := newService(t)
	c := seedContact(t, svc)
	future := now.Add(time.Minute)
	d := seedDeal(t, svc, c.ID, models.StageProspecting, 10, future)

	moved, err := svc.MoveDeal(context.Background(), d.ID, models.StageClosedLost)
	require.NoError(t, err)
	assert.True(t, moved.UpdatedAt.After(future))
}

func TestMoveDealErrors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.MoveDeal(ctx, 404, models.StageProposal)
	assert.True(t, models.IsNotFound(err))

	c := seedContact(t, svc)
	d := seedDeal(t, svc, c.ID, models.StageProposal, 10, now)
	_, err = svc.MoveDeal(ctx, d.ID, "Archived")
	assert.True(t, models.IsValidation(err))
}

// feedDownStore fails every activity write while the rest of the store works.
type feedDownStore struct {
	crm.Store
	down bool
}

func (s *feedDownStore) Activities() crm.Repository[models.Activity] {
	if s.down {
		return failingActivities{s.Store.Activities()}
	}
	return s.Store.Activities()
}

type failingActivities struct {
	crm.Repository[models.Activity]
}

func (failingActivities) Create(context.Context, models.Activity) (models.Activity, error) {
	return models.Activity{}, errors.New("disk full")
}

func TestMoveDealSurvivesActivityFailure(t *testing.T) {
	store := &feedDownStore{Store: memstore.New(nil)}
	m := metrics.NewCollector()
	svc := crm.NewService(store,
		crm.WithClock(func() time.Time { return now }),
		crm.WithMetrics(m),
	)
	ctx := context.Background()
	c := seedContact(t, svc)
	d := seedDeal(t, svc, c.ID, models.StageProspecting, 100, now.Add(-time.Hour))

	store.down = true
	moved, err := svc.MoveDeal(ctx, d.ID, models.StageProposal)
	require.NoError(t, err)
	assert.Equal(t, models.StageProposal, moved.Stage)

	got, err := svc.Store().Deals().Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageProposal, got.Stage)

	series, err := testutil.GatherAndCount(m.Registry(), "crm_stage_moves_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)

	store.down = false
	assert.Empty(t, activitiesOfType(t, svc, models.ActivityDealStageChanged))
	_, err = svc.MoveDeal(ctx, d.ID, models.StageNegotiation)
	require.NoError(t, err)
	assert.Len(t, activitiesOfType(t, svc, models.ActivityDealStageChanged), 1)
}

func TestConvertLeadSurvivesActivityFailure(t *testing.T) {
	store := &feedDownStore{Store: memstore.New(nil)}
	svc := crm.NewService(store, crm.WithClock(func() time.Time { return now }))
	ctx := context.Background()
	lead, err := svc.CreateLead(ctx, models.Lead{Name: "Ada", Company: "Engines", Email: "ada@engines.io"})
	require.NoError(t, err)

	store.down = true
	contact, err := svc.ConvertLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", contact.Name)

	_, err = svc.Store().Leads().Get(ctx, lead.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestUpdateDealRejectsCorruptStoredStage(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c := seedContact(t, svc)
	stored, err := svc.Store().Deals().Create(ctx, models.Deal{
		Title: "Legacy row", Value: decimal.NewFromInt(10), Stage: "Archived",
		ContactID: c.ID, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	stored.Stage = models.StageProposal
	_, err = svc.UpdateDeal(ctx, stored)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.False(t, models.IsState(err))
}

func TestUpdateDealRejectsStageChange(t *testing.T) {
	svc, _ := newService(t)
	c := seedContact(t, svc)
	d := seedDeal(t, svc, c.ID, models.StageProposal, 10, now.Add(-time.Hour))

	d.Stage = models.StageClosedWon
	_, err := svc.UpdateDeal(context.Background(), d)
	assert.True(t, models.IsState(err))

	d.Stage = models.StageProposal
	d.Value = decimal.NewFromInt(20)
	updated, err := svc.UpdateDeal(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(updated.Value))
	assert.Len(t, activitiesOfType(t, svc, models.ActivityDealUpdated), 1)
}

func TestBoardHasSixColumns(t *testing.T) {
	svc, _ := newService(t)
	c := seedContact(t, svc)
	seedDeal(t, svc, c.ID, models.StageProposal, 300, now)
	seedDeal(t, svc, c.ID, models.StageProposal, 200, now)

	cols, err := svc.Board(context.Background())
	require.NoError(t, err)
	require.Len(t, cols, 6)
	assert.Equal(t, models.StageProposal, cols[2].Stage)
	assert.Equal(t, 2, cols[2].Count)
	assert.True(t, decimal.NewFromInt(500).Equal(cols[2].TotalValue))
	assert.NotNil(t, cols[0].Deals)
}

func TestConvertLead(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()

	lead, err := svc.CreateLead(ctx, models.Lead{
		Name: "Ada", Company: "Engines", Email: "ada@engines.io", Phone: "555-0100",
		Notes: "met at expo",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeadNew, lead.Status)
	assert.Equal(t, models.SourceWebsite, lead.Source)
	assert.Equal(t, models.PriorityMedium, lead.Priority)

	contact, err := svc.ConvertLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactLead, contact.Type)
	assert.Equal(t, "Converted from lead. Original notes: met at expo", contact.Notes)

	leads, err := svc.Leads(ctx, "", "", "")
	require.NoError(t, err)
	assert.Empty(t, leads)

	acts := activitiesOfType(t, svc, models.ActivityLeadConverted)
	require.Len(t, acts, 1)
	assert.Equal(t, contact.ID, acts[0].ContactID)

	series, err := testutil.GatherAndCount(m.Registry(), "crm_lead_conversions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)

	_, err = svc.ConvertLead(ctx, lead.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestTaskLifecycle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c := seedContact(t, svc)

	task, err := svc.CreateTask(ctx, models.Task{Title: "Send quote", DueDate: now, Status: "pending", ContactID: &c.ID})
	require.NoError(t, err)
	assert.Equal(t, models.TaskToDo, task.Status)
	assert.Len(t, activitiesOfType(t, svc, models.ActivityTaskCreated), 1)

	done, err := svc.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, done.Status)

	acts := activitiesOfType(t, svc, models.ActivityTaskCompleted)
	require.Len(t, acts, 1)
	assert.Equal(t, c.ID, acts[0].ContactID)

	reopened, err := svc.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskToDo, reopened.Status)
	assert.Len(t, activitiesOfType(t, svc, models.ActivityTaskCompleted), 1)

	_, err = svc.ToggleTask(ctx, 404)
	assert.True(t, models.IsNotFound(err))
}

func TestListFilters(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c := seedContact(t, svc)
	seedDeal(t, svc, c.ID, models.StageProposal, 10, now)

	for _, l := range []models.Lead{
		{Name: "Ada", Company: "Engines", Email: "ada@engines.io", Phone: "1", Status: models.LeadQualified, Source: models.SourceReferral},
		{Name: "Alan", Company: "Bletchley", Email: "alan@bp.uk", Phone: "2", Status: models.LeadNew, Source: models.SourceColdCall},
	} {
		_, err := svc.CreateLead(ctx, l)
		require.NoError(t, err)
	}

	leads, err := svc.Leads(ctx, "ENGINES", "all", "")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ada", leads[0].Name)

	leads, err = svc.Leads(ctx, "", "new", "cold-call")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Alan", leads[0].Name)

	_, err = svc.Leads(ctx, "", "Lukewarm", "")
	assert.True(t, models.IsValidation(err))

	deals, err := svc.Deals(ctx, "grace")
	require.NoError(t, err)
	assert.Len(t, deals, 1, "deals match on the contact's name")

	acts, err := svc.Activities(ctx, "hopper", "")
	require.NoError(t, err)
	assert.Len(t, acts, 2)
}

func TestDashboardEndToEnd(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	c := seedContact(t, svc)

	seedDeal(t, svc, c.ID, models.StageProspecting, 1000, now.AddDate(0, -1, 0))
	seedDeal(t, svc, c.ID, models.StageClosedWon, 5000, now.Add(-time.Hour))
	for _, name := range []string{"Ada", "Alan"} {
		_, err := svc.CreateLead(ctx, models.Lead{Name: name, Company: "co", Email: name + "@x.io", Phone: "1"})
		require.NoError(t, err)
	}

	d, err := svc.Dashboard(ctx, analytics.ThisMonth)
	require.NoError(t, err)
	assert.Equal(t, 1, d.ActiveDeals)
	assert.True(t, decimal.NewFromInt(1000).Equal(d.ActiveDealValue))
	assert.True(t, decimal.NewFromInt(50).Equal(d.ConversionRate))
	assert.True(t, decimal.NewFromInt(5000).Equal(d.Revenue))
	assert.True(t, decimal.NewFromInt(100).Equal(d.RevenueChange))
	assert.Len(t, d.Trend, 6)

	series, err := testutil.GatherAndCount(m.Registry(), "crm_dashboard_computations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}
