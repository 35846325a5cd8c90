// ABOUTME: Tests for the HTTP API, HTML dashboard, sessions, and metrics endpoint
// ABOUTME: Drives the gin handler with httptest against an in-memory record store
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/memstore"
	"github.com/harperreed/crmboard/metrics"
	"github.com/harperreed/crmboard/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *crm.Service
	metrics *metrics.Collector
	handler http.Handler
	contact models.Contact
	deal    models.Deal
}

func newFixture(t *testing.T, mutate func(*Dependencies)) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	collector := metrics.NewCollector()
	svc := crm.NewService(memstore.New(nil),
		crm.WithClock(func() time.Time { return now }),
		crm.WithMetrics(collector),
	)
	ctx := context.Background()
	contact, err := svc.CreateContact(ctx, models.Contact{Name: "Grace Hopper", Email: "grace@navy.example", Company: "Navy"})
	require.NoError(t, err)
	deal, err := svc.CreateDeal(ctx, models.Deal{Title: "Compiler licence", Value: decimal.NewFromInt(12000), ContactID: contact.ID})
	require.NoError(t, err)

	deps := Dependencies{Service: svc, Metrics: collector}
	if mutate != nil {
		mutate(&deps)
	}
	handler, err := NewHTTPHandler(deps)
	require.NoError(t, err)
	return &fixture{svc: svc, metrics: collector, handler: handler, contact: contact, deal: deal}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, path, http.NoBody)
	} else {
		request = httptest.NewRequest(method, path, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	f.handler.ServeHTTP(recorder, request)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), into))
}

func TestNewHTTPHandlerRequiresService(t *testing.T) {
	_, err := NewHTTPHandler(Dependencies{})
	assert.ErrorIs(t, err, errMissingService)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)
	recorder := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
	assert.NotEmpty(t, recorder.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t, nil)
	request := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	request.Header.Set(requestIDHeader, "req-123")
	recorder := httptest.NewRecorder()
	f.handler.ServeHTTP(recorder, request)
	assert.Equal(t, "req-123", recorder.Header().Get(requestIDHeader))
}

func TestBoard(t *testing.T) {
	f := newFixture(t, nil)
	recorder := f.do(http.MethodGet, "/api/board", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var board struct {
		Columns []struct {
			Stage      string          `json:"stage"`
			Count      int             `json:"count"`
			TotalValue decimal.Decimal `json:"total_value"`
			Deals      []models.Deal   `json:"deals"`
		} `json:"columns"`
		PipelineValue decimal.Decimal `json:"pipeline_value"`
	}
	decode(t, recorder, &board)
	require.Len(t, board.Columns, len(models.Stages))
	assert.Equal(t, "Prospecting", board.Columns[0].Stage)
	assert.Equal(t, 1, board.Columns[0].Count)
	assert.True(t, decimal.NewFromInt(12000).Equal(board.Columns[0].TotalValue))
	assert.True(t, decimal.NewFromInt(12000).Equal(board.PipelineValue))
	assert.Equal(t, "Compiler licence", board.Columns[0].Deals[0].Title)
}

func TestMoveDealStage(t *testing.T) {
	f := newFixture(t, nil)
	path := fmt.Sprintf("/api/deals/%d/stage", f.deal.ID)

	recorder := f.do(http.MethodPost, path, `{"stage":"Proposal"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	var moved models.Deal
	decode(t, recorder, &moved)
	assert.Equal(t, models.StageProposal, moved.Stage)

	stored, err := f.svc.Store().Deals().Get(context.Background(), f.deal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageProposal, stored.Stage)

	metricsBody := f.do(http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, metricsBody, `crm_stage_moves_total{from="Prospecting",to="Proposal"} 1`)
}

func TestMoveDealStageErrors(t *testing.T) {
	f := newFixture(t, nil)
	path := fmt.Sprintf("/api/deals/%d/stage", f.deal.ID)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown stage", path, `{"stage":"Signed"}`, http.StatusBadRequest},
		{"missing stage", path, `{}`, http.StatusBadRequest},
		{"empty stage", path, `{"stage":""}`, http.StatusBadRequest},
		{"blank stage", path, `{"stage":"   "}`, http.StatusBadRequest},
		{"malformed body", path, `{`, http.StatusBadRequest},
		{"bad id", "/api/deals/abc/stage", `{"stage":"Proposal"}`, http.StatusBadRequest},
		{"missing deal", "/api/deals/9999/stage", `{"stage":"Proposal"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := f.do(http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.MoveDeal(context.Background(), f.deal.ID, models.StageClosedWon)
	require.NoError(t, err)

	recorder := f.do(http.MethodGet, "/api/dashboard?range=year", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var d analytics.Dashboard
	decode(t, recorder, &d)
	assert.Equal(t, analytics.Year, d.Window)
	assert.True(t, decimal.NewFromInt(12000).Equal(d.Revenue))
	assert.Equal(t, 0, d.ActiveDeals)
	assert.Equal(t, 1, d.TotalContacts)

	recorder = f.do(http.MethodGet, "/api/dashboard?range=decade", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDashboardServesCachedResult(t *testing.T) {
	cache := NewDashboardCache()
	f := newFixture(t, func(d *Dependencies) { d.Cache = cache })

	cache.Publish(crm.RefreshResult{
		Generation: 1,
		Window:     analytics.ThisMonth,
		Dashboard:  analytics.Dashboard{Window: analytics.ThisMonth, TotalContacts: 42},
	})

	var d analytics.Dashboard
	decode(t, f.do(http.MethodGet, "/api/dashboard", ""), &d)
	assert.Equal(t, 42, d.TotalContacts)

	// Other windows are computed live.
	decode(t, f.do(http.MethodGet, "/api/dashboard?range=quarter", ""), &d)
	assert.Equal(t, 1, d.TotalContacts)
}

func TestLeadsAndConvert(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	lead, err := f.svc.CreateLead(ctx, models.Lead{
		Name: "Alan Turing", Company: "Bletchley", Email: "alan@bletchley.example", Phone: "555-0100", Source: "referral",
	})
	require.NoError(t, err)
	_, err = f.svc.CreateLead(ctx, models.Lead{
		Name: "Joan Clarke", Company: "Bletchley", Email: "joan@bletchley.example", Phone: "555-0101",
	})
	require.NoError(t, err)

	var leads struct {
		Leads []models.Lead `json:"leads"`
	}
	decode(t, f.do(http.MethodGet, "/api/leads?q=bletchley&source=referral", ""), &leads)
	require.Len(t, leads.Leads, 1)
	assert.Equal(t, "Alan Turing", leads.Leads[0].Name)

	path := fmt.Sprintf("/api/leads/%d/convert", lead.ID)
	recorder := f.do(http.MethodPost, path, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var contact models.Contact
	decode(t, recorder, &contact)
	assert.Equal(t, "Alan Turing", contact.Name)
	assert.Equal(t, models.ContactType("lead"), contact.Type)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, path, "").Code)
}

func TestTasksAndToggle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	contactID := f.contact.ID
	task, err := f.svc.CreateTask(ctx, models.Task{Title: "Send contract", DueDate: now, ContactID: &contactID})
	require.NoError(t, err)
	_, err = f.svc.CreateTask(ctx, models.Task{Title: "Chase invoice", DueDate: now.AddDate(0, 0, -3)})
	require.NoError(t, err)

	var listed tasksResponse
	decode(t, f.do(http.MethodGet, "/api/tasks", ""), &listed)
	assert.Len(t, listed.Tasks, 2)
	assert.Equal(t, 1, listed.Stats.DueToday)
	assert.Equal(t, 1, listed.Stats.Overdue)

	decode(t, f.do(http.MethodGet, "/api/tasks?q=grace", ""), &listed)
	require.Len(t, listed.Tasks, 1)
	assert.Equal(t, "Send contract", listed.Tasks[0].Title)

	recorder := f.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/toggle", task.ID), "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var toggled models.Task
	decode(t, recorder, &toggled)
	assert.Equal(t, models.TaskCompleted, toggled.Status)

	decode(t, f.do(http.MethodGet, "/api/tasks?status=completed", ""), &listed)
	assert.Len(t, listed.Tasks, 1)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/api/tasks/9999/toggle", "").Code)
}

func TestActivities(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.MoveDeal(context.Background(), f.deal.ID, models.StageQualification)
	require.NoError(t, err)

	var feed activitiesResponse
	decode(t, f.do(http.MethodGet, "/api/activities", ""), &feed)
	require.NotEmpty(t, feed.Activities)
	assert.Equal(t, len(feed.Activities), feed.Stats.Total)

	decode(t, f.do(http.MethodGet, "/api/activities?type=deal_stage_changed", ""), &feed)
	require.Len(t, feed.Activities, 1)
	assert.Contains(t, feed.Activities[0].Description, "Qualification")
}

func TestDashboardPage(t *testing.T) {
	f := newFixture(t, nil)
	recorder := f.do(http.MethodGet, "/?range=quarter", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, "CRM Dashboard")
	assert.Contains(t, body, "Compiler licence")
	assert.Contains(t, body, "Grace Hopper")
	assert.Contains(t, body, "$12,000")
	assert.Contains(t, body, `<a href="/?range=quarter" class="active">quarter</a>`)
}

func TestSessionCookieIsMinted(t *testing.T) {
	f := newFixture(t, nil)
	recorder := f.do(http.MethodGet, "/api/board", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "crm_session", cookies[0].Name)
	_, err := uuid.Parse(cookies[0].Value)
	assert.NoError(t, err)
}

func TestSessionRequired(t *testing.T) {
	f := newFixture(t, func(d *Dependencies) {
		d.SessionRequired = true
		d.SessionCookie = "sid"
	})

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/board", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthz", "").Code)

	request := httptest.NewRequest(http.MethodGet, "/api/board", http.NoBody)
	request.AddCookie(&http.Cookie{Name: "sid", Value: "not-a-uuid"})
	recorder := httptest.NewRecorder()
	f.handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request = httptest.NewRequest(http.MethodGet, "/api/board", http.NoBody)
	request.AddCookie(&http.Cookie{Name: "sid", Value: uuid.NewString()})
	recorder = httptest.NewRecorder()
	f.handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestDashboardCache(t *testing.T) {
	var nilCache *DashboardCache
	_, ok := nilCache.Latest(analytics.ThisMonth)
	assert.False(t, ok)
	nilCache.Invalidate()

	cache := NewDashboardCache()
	triggered := 0
	cache.OnInvalidate(func() { triggered++ })

	cache.Publish(crm.RefreshResult{Err: assert.AnError})
	_, ok = cache.Latest(analytics.ThisMonth)
	assert.False(t, ok)

	cache.Publish(crm.RefreshResult{Dashboard: analytics.Dashboard{Window: analytics.Year}})
	_, ok = cache.Latest(analytics.ThisMonth)
	assert.False(t, ok)
	_, ok = cache.Latest(analytics.Year)
	assert.True(t, ok)

	cache.Invalidate()
	_, ok = cache.Latest(analytics.Year)
	assert.False(t, ok)
	assert.Equal(t, 1, triggered)
}
