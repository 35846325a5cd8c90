// ABOUTME: Tests for the pipeline engine
// ABOUTME: Covers grouping, totals, stage moves, and the drag state machine
package pipeline

import (
	"testing"
	"time"

	"github.com/harperreed/crmboard/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func deal(id int64, stage models.Stage, value int64) models.Deal {
	return models.Deal{
		ID:        id,
		Title:     "Deal",
		Value:     decimal.NewFromInt(value),
		Stage:     stage,
		ContactID: 1,
		CreatedAt: t0,
		UpdatedAt: t0,
	}
}

func sampleDeals() []models.Deal {
	return []models.Deal{
		deal(1, models.StageProspecting, 1000),
		deal(2, models.StageProspecting, 2500),
		deal(3, models.StageNegotiation, 7000),
		deal(4, "Closed", 5000),
		deal(5, models.StageClosedWon, 1500),
		deal(6, models.StageClosedLost, 800),
	}
}

func TestGroupByStageAlwaysHasSixColumns(t *testing.T) {
	for _, deals := range [][]models.Deal{nil, {}, sampleDeals()} {
		groups, err := GroupByStage(deals)
		require.NoError(t, err)
		assert.Len(t, groups, 6)
		for _, stage := range models.Stages {
			col, ok := groups[stage]
			assert.True(t, ok, "missing %s", stage)
			assert.NotNil(t, col)
		}
	}
}

func TestGroupByStageFoldsLegacySpelling(t *testing.T) {
	groups, err := GroupByStage(sampleDeals())
	require.NoError(t, err)

	assert.Len(t, groups[models.StageProspecting], 2)
	assert.Equal(t, int64(1), groups[models.StageProspecting][0].ID)
	assert.Len(t, groups[models.StageClosedWon], 2)
	assert.Empty(t, groups[models.StageProposal])
}

func TestGroupByStageRejectsUnknownStage(t *testing.T) {
	_, err := GroupByStage([]models.Deal{deal(9, "Someday", 10)})
	assert.True(t, models.IsValidation(err))
}

func TestStageTotalsSumToCollectionTotal(t *testing.T) {
	deals := sampleDeals()

	sum := decimal.Zero
	count := 0
	for _, stage := range models.Stages {
		totals, err := StageTotals(deals, stage)
		require.NoError(t, err)
		sum = sum.Add(totals.TotalValue)
		count += totals.Count
	}

	all, err := PipelineValue(deals)
	require.NoError(t, err)
	assert.True(t, all.Equal(sum), "want %s got %s", all, sum)
	assert.Equal(t, len(deals), count)
}

func TestStageTotalsDoesNotMutateInput(t *testing.T) {
	deals := sampleDeals()
	before := append([]models.Deal(nil), deals...)

	totals, err := StageTotals(deals, models.StageProspecting)
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Count)
	assert.True(t, decimal.NewFromInt(3500).Equal(totals.TotalValue))
	assert.Equal(t, before, deals)
}

func TestStageTotalsRejectsNegativeValue(t *testing.T) {
	_, err := StageTotals([]models.Deal{deal(1, models.StageProposal, -5)}, models.StageProposal)
	assert.True(t, models.IsValidation(err))
}

func TestSummarizeOrder(t *testing.T) {
	columns, err := Summarize(sampleDeals())
	require.NoError(t, err)
	require.Len(t, columns, 6)
	for i, stage := range models.Stages {
		assert.Equal(t, stage, columns[i].Stage)
	}
	assert.True(t, decimal.NewFromInt(6500).Equal(columns[4].TotalValue))
}

func TestRequestStageMoveSameStageIsNoop(t *testing.T) {
	d := deal(1, models.StageProposal, 100)
	got, err := RequestStageMove(d, models.StageProposal, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestRequestStageMoveUpdatesStageAndTimestamp(t *testing.T) {
	d := deal(1, models.StageNegotiation, 100)
	now := t0.Add(time.Hour)

	got, err := RequestStageMove(d, models.StageQualification, now)
	require.NoError(t, err)

	assert.Equal(t, models.StageQualification, got.Stage)
	assert.True(t, got.UpdatedAt.After(d.UpdatedAt))
	assert.Equal(t, now, got.UpdatedAt)

	got.Stage = d.Stage
	got.UpdatedAt = d.UpdatedAt
	assert.Equal(t, d, got)
	assert.Equal(t, models.StageNegotiation, d.Stage)
}

func TestRequestStageMoveAnyToAny(t *testing.T) {
	for _, from := range models.Stages {
		for _, to := range models.Stages {
			got, err := RequestStageMove(deal(1, from, 1), to, t0.Add(time.Minute))
			require.NoError(t, err)
			assert.Equal(t, to, got.Stage)
		}
	}
}

func TestRequestStageMoveClockSkew(t *testing.T) {
	d := deal(1, models.StageProspecting, 1)
	got, err := RequestStageMove(d, models.StageProposal, t0.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(d.UpdatedAt))
}

func TestRequestStageMoveRejectsUnknownTarget(t *testing.T) {
	_, err := RequestStageMove(deal(1, models.StageProspecting, 1), "Limbo", t0)
	assert.True(t, models.IsValidation(err))
}

func TestDragLastHoverWins(t *testing.T) {
	var m DragMachine
	d := deal(1, models.StageProspecting, 100)

	require.NoError(t, m.DragStart(d))
	assert.Equal(t, Dragging, m.State())
	require.NoError(t, m.DragOver(models.StageProposal))
	require.NoError(t, m.DragOver(models.StageNegotiation))
	assert.Equal(t, HoveringTarget, m.State())

	req, err := m.Drop()
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, models.StageNegotiation, req.Target)
	assert.Equal(t, d, req.Deal)
	assert.Equal(t, Idle, m.State())
}

func TestDragDropOnOwnStageHasNoSideEffect(t *testing.T) {
	var m DragMachine
	require.NoError(t, m.DragStart(deal(1, models.StageProposal, 1)))
	require.NoError(t, m.DragOver(models.StageProposal))

	req, err := m.Drop()
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Equal(t, Idle, m.State())
}

func TestDragEndWithoutDrop(t *testing.T) {
	var m DragMachine
	require.NoError(t, m.DragStart(deal(1, models.StageProposal, 1)))
	require.NoError(t, m.DragOver(models.StageClosedWon))
	require.NoError(t, m.DragEnd())
	assert.Equal(t, Idle, m.State())

	_, ok := m.Deal()
	assert.False(t, ok)
}

func TestDragLeaveReturnsToDragging(t *testing.T) {
	var m DragMachine
	require.NoError(t, m.DragStart(deal(1, models.StageProposal, 1)))
	require.NoError(t, m.DragOver(models.StageClosedWon))
	require.NoError(t, m.DragLeave())
	assert.Equal(t, Dragging, m.State())

	_, err := m.Drop()
	assert.True(t, models.IsState(err))
}

func TestDragInvalidTransitions(t *testing.T) {
	var m DragMachine

	_, err := m.Drop()
	assert.True(t, models.IsState(err))
	assert.True(t, models.IsState(m.DragOver(models.StageProposal)))
	assert.True(t, models.IsState(m.DragEnd()))

	require.NoError(t, m.DragStart(deal(1, models.StageProposal, 1)))
	assert.True(t, models.IsState(m.DragStart(deal(2, models.StageProposal, 1))))

	_, err = m.Drop()
	assert.True(t, models.IsState(err), "drop while dragging without a target")
}
