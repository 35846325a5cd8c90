// ABOUTME: Pipeline grouping and per-stage aggregation
// ABOUTME: Partitions deal snapshots into the six board columns
package pipeline

import (
	"github.com/harperreed/crmboard/models"
	"github.com/shopspring/decimal"
)

// Totals is the count and summed value of the deals in one stage.
type Totals struct {
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// Column is one board column in stage order.
type Column struct {
	Stage models.Stage  `json:"stage"`
	Deals []models.Deal `json:"deals"`
	Totals
}

// GroupByStage partitions deals by canonical stage. Every stage is present
// in the result, with an empty slice when no deal sits in it. Input order is
// preserved within a stage.
func GroupByStage(deals []models.Deal) (map[models.Stage][]models.Deal, error) {
	groups := make(map[models.Stage][]models.Deal, len(models.Stages))
	for _, stage := range models.Stages {
		groups[stage] = []models.Deal{}
	}

	for _, deal := range deals {
		stage, err := dealStage(deal)
		if err != nil {
			return nil, err
		}
		groups[stage] = append(groups[stage], deal)
	}

	return groups, nil
}

// StageTotals sums the deals whose stage is the given stage.
func StageTotals(deals []models.Deal, stage models.Stage) (Totals, error) {
	target, err := models.ParseStage(string(stage))
	if err != nil {
		return Totals{}, err
	}

	totals := Totals{TotalValue: decimal.Zero}
	for _, deal := range deals {
		s, err := dealStage(deal)
		if err != nil {
			return Totals{}, err
		}
		if err := checkValue(deal); err != nil {
			return Totals{}, err
		}
		if s == target {
			totals.Count++
			totals.TotalValue = totals.TotalValue.Add(deal.Value)
		}
	}

	return totals, nil
}

// Summarize returns the six board columns in stage order.
func Summarize(deals []models.Deal) ([]Column, error) {
	groups, err := GroupByStage(deals)
	if err != nil {
		return nil, err
	}

	columns := make([]Column, 0, len(models.Stages))
	for _, stage := range models.Stages {
		totals, err := StageTotals(groups[stage], stage)
		if err != nil {
			return nil, err
		}
		columns = append(columns, Column{Stage: stage, Deals: groups[stage], Totals: totals})
	}

	return columns, nil
}

// PipelineValue sums every deal on the board.
func PipelineValue(deals []models.Deal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, deal := range deals {
		if err := checkValue(deal); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(deal.Value)
	}
	return total, nil
}

func dealStage(deal models.Deal) (models.Stage, error) {
	stage, err := models.ParseStage(string(deal.Stage))
	if err != nil {
		return "", &models.ValidationError{Entity: "deal", ID: deal.ID, Field: "stage", Value: string(deal.Stage), Reason: "unknown stage"}
	}
	return stage, nil
}

func checkValue(deal models.Deal) error {
	if deal.Value.IsNegative() {
		return &models.ValidationError{Entity: "deal", ID: deal.ID, Field: "value", Value: deal.Value.String(), Reason: "must not be negative"}
	}
	return nil
}
