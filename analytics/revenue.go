// ABOUTME: Closed/won revenue aggregation and period-over-period change
// ABOUTME: Includes the trailing monthly revenue trend series
package analytics

import (
	"time"

	"github.com/harperreed/crmboard/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DefaultTrendMonths is the length of the dashboard revenue trend.
const DefaultTrendMonths = 6

// TrendPoint is one month of the revenue trend.
type TrendPoint struct {
	Label string          `json:"label"`
	Month time.Time       `json:"month"`
	Value decimal.Decimal `json:"value"`
}

// checkDeal normalizes the stage and rejects values and timestamps that
// would poison an aggregate.
func checkDeal(d models.Deal) (models.Stage, error) {
	stage, err := models.ParseStage(string(d.Stage))
	if err != nil {
		return "", &models.ValidationError{Entity: "deal", ID: d.ID, Field: "stage", Value: string(d.Stage), Reason: "unknown stage"}
	}
	if d.Value.IsNegative() {
		return "", &models.ValidationError{Entity: "deal", ID: d.ID, Field: "value", Value: d.Value.String(), Reason: "must not be negative"}
	}
	if d.CreatedAt.IsZero() {
		return "", &models.ValidationError{Entity: "deal", ID: d.ID, Field: "created_at", Reason: "is missing"}
	}
	return stage, nil
}

// RevenueForRange sums won deals created inside r.
func RevenueForRange(deals []models.Deal, r Range) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, d := range deals {
		stage, err := checkDeal(d)
		if err != nil {
			return decimal.Zero, err
		}
		if stage.Won() && r.Contains(d.CreatedAt) {
			total = total.Add(d.Value)
		}
	}
	return total, nil
}

// PercentChange is (current-previous)/previous*100, 100 when growing from
// nothing, and 0 when both are zero.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsPositive() {
		return current.Sub(previous).Div(previous).Mul(hundred)
	}
	if current.IsPositive() {
		return hundred
	}
	return decimal.Zero
}

// RevenueTrend returns won revenue for each of the trailing months calendar
// months ending with the month of ref, oldest first. Months without revenue
// are present with a zero value.
func RevenueTrend(deals []models.Deal, months int, ref time.Time) ([]TrendPoint, error) {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	if ref.IsZero() {
		return nil, &models.ValidationError{Field: "now", Reason: "reference time is required"}
	}

	current := MonthRange(ref).Start
	points := make([]TrendPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		month := MonthRange(current.AddDate(0, -i, 0))
		value, err := RevenueForRange(deals, month)
		if err != nil {
			return nil, err
		}
		points = append(points, TrendPoint{
			Label: month.Start.Format("Jan"),
			Month: month.Start,
			Value: value,
		})
	}
	return points, nil
}
