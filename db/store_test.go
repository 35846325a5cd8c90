// ABOUTME: Tests for the SQLite record store
// ABOUTME: Round-trips every entity and checks not-found and conversion behaviour
package db

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/crmboard/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

func TestDealRoundTrip(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()
	ctx := context.Background()

	closeDate := created.AddDate(0, 1, 0)
	deal, err := s.Deals().Create(ctx, models.Deal{
		Title:             "Big Deal",
		Value:             decimal.RequireFromString("12345.67"),
		Stage:             models.StageNegotiation,
		ContactID:         3,
		ExpectedCloseDate: &closeDate,
		Probability:       60,
		SalesRep:          "jane_smith",
		CreatedAt:         created,
		UpdatedAt:         created,
	})
	require.NoError(t, err)
	assert.Positive(t, deal.ID)

	got, err := s.Deals().Get(ctx, deal.ID)
	require.NoError(t, err)
	assert.True(t, deal.Value.Equal(got.Value), "value %s", got.Value)
	assert.Equal(t, models.StageNegotiation, got.Stage)
	require.NotNil(t, got.ExpectedCloseDate)
	assert.True(t, closeDate.Equal(*got.ExpectedCloseDate))
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, "jane_smith", got.SalesRep)

	got.Stage = models.StageClosedWon
	got.UpdatedAt = created.Add(time.Hour)
	_, err = s.Deals().Update(ctx, got)
	require.NoError(t, err)

	deals, err := s.Deals().List(ctx)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, models.StageClosedWon, deals[0].Stage)
}

func TestNullableColumns(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()
	ctx := context.Background()

	task, err := s.Tasks().Create(ctx, models.Task{Title: "call", DueDate: created, Status: models.TaskToDo, CreatedAt: created})
	require.NoError(t, err)
	got, err := s.Tasks().Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ContactID)

	contactID := int64(9)
	got.ContactID = &contactID
	_, err = s.Tasks().Update(ctx, got)
	require.NoError(t, err)
	got, err = s.Tasks().Get(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ContactID)
	assert.Equal(t, int64(9), *got.ContactID)

	act, err := s.Activities().Create(ctx, models.Activity{Type: models.ActivityNoteAdded, Description: "n", Timestamp: created})
	require.NoError(t, err)
	gotAct, err := s.Activities().Get(ctx, act.ID)
	require.NoError(t, err)
	assert.Nil(t, gotAct.DealID)
	assert.Zero(t, gotAct.ContactID)
}

func TestMissingRowsReturnNotFound(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()
	ctx := context.Background()

	_, err := s.Contacts().Get(ctx, 1)
	assert.True(t, models.IsNotFound(err))
	_, err = s.Companies().Update(ctx, models.Company{ID: 1, Name: "x", CreatedAt: created})
	assert.True(t, models.IsNotFound(err))
	err = s.Leads().Delete(ctx, 1)
	assert.True(t, models.IsNotFound(err))
	assert.EqualError(t, err, "lead 1 not found")
}

func TestIDsAreNotReused(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()
	ctx := context.Background()

	first, err := s.Companies().Create(ctx, models.Company{Name: "Acme", Type: models.ContactCustomer, CreatedAt: created})
	require.NoError(t, err)
	require.NoError(t, s.Companies().Delete(ctx, first.ID))

	second, err := s.Companies().Create(ctx, models.Company{Name: "Initech", Type: models.ContactCustomer, CreatedAt: created})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestConvertLeadTransaction(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()
	ctx := context.Background()

	lead, err := s.Leads().Create(ctx, models.Lead{
		Name: "Ada", Company: "Engines", Email: "ada@engines.io", Phone: "555-0100",
		Source: models.SourceTradeShow, Status: models.LeadQualified, Priority: models.PriorityHigh,
		Notes: "wants a demo", CreatedAt: created,
	})
	require.NoError(t, err)

	now := created.Add(48 * time.Hour)
	contact, err := s.ConvertLead(ctx, lead.ID, now)
	require.NoError(t, err)
	assert.Positive(t, contact.ID)
	assert.Equal(t, models.ContactLead, contact.Type)
	assert.Equal(t, "Converted from lead. Original notes: wants a demo", contact.Notes)

	stored, err := s.Contacts().Get(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engines", stored.Company)

	_, err = s.Leads().Get(ctx, lead.ID)
	assert.True(t, models.IsNotFound(err))

	_, err = s.ConvertLead(ctx, lead.ID, now)
	assert.True(t, models.IsNotFound(err))

	contacts, err := s.Contacts().List(ctx)
	require.NoError(t, err)
	assert.Len(t, contacts, 1, "a failed conversion leaves no contact behind")
}
