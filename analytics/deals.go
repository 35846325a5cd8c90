// ABOUTME: Deal-level dashboard statistics
// ABOUTME: Active deals, conversion rate, and stage distribution buckets
package analytics

import (
	"github.com/harperreed/crmboard/models"
	"github.com/shopspring/decimal"
)

// DistributionStages are the chart buckets. Closed Won absorbs every won
// spelling; lost deals are not charted.
var DistributionStages = []models.Stage{
	models.StageProspecting,
	models.StageQualification,
	models.StageProposal,
	models.StageNegotiation,
	models.StageClosedWon,
}

// ActiveDeals returns the deals not in a terminal stage.
func ActiveDeals(deals []models.Deal) ([]models.Deal, error) {
	active := []models.Deal{}
	for _, d := range deals {
		stage, err := checkDeal(d)
		if err != nil {
			return nil, err
		}
		if !stage.Closed() {
			active = append(active, d)
		}
	}
	return active, nil
}

func ActiveDealValue(deals []models.Deal) (decimal.Decimal, error) {
	active, err := ActiveDeals(deals)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, d := range active {
		total = total.Add(d.Value)
	}
	return total, nil
}

// DealsInRange returns deals created inside r, whatever their stage.
func DealsInRange(deals []models.Deal, r Range) ([]models.Deal, error) {
	in := []models.Deal{}
	for _, d := range deals {
		if _, err := checkDeal(d); err != nil {
			return nil, err
		}
		if r.Contains(d.CreatedAt) {
			in = append(in, d)
		}
	}
	return in, nil
}

// ConversionRate is converted/len(leads)*100, or 0 with no leads.
func ConversionRate(leads []models.Lead, converted []models.Deal) decimal.Decimal {
	if len(leads) == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(len(converted))).
		Div(decimal.NewFromInt(int64(len(leads)))).
		Mul(hundred)
}

// PipelineDistribution counts deals per chart bucket. Every bucket is
// present. Raw deal stages are not touched.
func PipelineDistribution(deals []models.Deal) (map[models.Stage]int, error) {
	dist := make(map[models.Stage]int, len(DistributionStages))
	for _, stage := range DistributionStages {
		dist[stage] = 0
	}
	for _, d := range deals {
		stage, err := checkDeal(d)
		if err != nil {
			return nil, err
		}
		if _, charted := dist[stage]; charted {
			dist[stage]++
		}
	}
	return dist, nil
}
