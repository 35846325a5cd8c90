// ABOUTME: Composite dashboard computation over one consistent snapshot
// ABOUTME: Combines revenue, pipeline, conversion, task, and activity figures
package analytics

import (
	"time"

	"github.com/harperreed/crmboard/models"
	"github.com/shopspring/decimal"
)

// DefaultRecentLimit is how many feed entries the dashboard shows.
const DefaultRecentLimit = 8

// Snapshot is one consistent read of every collection.
type Snapshot struct {
	Contacts   []models.Contact
	Companies  []models.Company
	Leads      []models.Lead
	Deals      []models.Deal
	Tasks      []models.Task
	Activities []models.Activity
}

type Options struct {
	Window      Window
	Now         time.Time
	TrendMonths int
	RecentLimit int
}

type Dashboard struct {
	Window          Window               `json:"window"`
	Range           Range                `json:"range"`
	PreviousRange   Range                `json:"previous_range"`
	Revenue         decimal.Decimal      `json:"revenue"`
	PreviousRevenue decimal.Decimal      `json:"previous_revenue"`
	RevenueChange   decimal.Decimal      `json:"revenue_change"`
	ActiveDeals     int                  `json:"active_deals"`
	ActiveDealValue decimal.Decimal      `json:"active_deal_value"`
	ConversionRate  decimal.Decimal      `json:"conversion_rate"`
	TasksDueToday   int                  `json:"tasks_due_today"`
	OverdueTasks    int                  `json:"overdue_tasks"`
	Trend           []TrendPoint         `json:"trend"`
	Distribution    map[models.Stage]int `json:"distribution"`
	Recent          []models.Activity    `json:"recent"`
	Activity        ActivityStats        `json:"activity"`
	TotalContacts   int                  `json:"total_contacts"`
	TotalCompanies  int                  `json:"total_companies"`
	TotalLeads      int                  `json:"total_leads"`
	GeneratedAt     time.Time            `json:"generated_at"`
}

// Compute builds the dashboard for window relative to ref.
func Compute(s Snapshot, w Window, ref time.Time) (Dashboard, error) {
	return ComputeWith(s, Options{Window: w, Now: ref})
}

func ComputeWith(s Snapshot, opts Options) (Dashboard, error) {
	if opts.TrendMonths <= 0 {
		opts.TrendMonths = DefaultTrendMonths
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}

	cur, err := Resolve(opts.Window, opts.Now)
	if err != nil {
		return Dashboard{}, err
	}
	prev, err := Previous(opts.Window, opts.Now)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		Window:         opts.Window,
		Range:          cur,
		PreviousRange:  prev,
		TotalContacts:  len(s.Contacts),
		TotalCompanies: len(s.Companies),
		TotalLeads:     len(s.Leads),
		GeneratedAt:    opts.Now,
	}

	if d.Revenue, err = RevenueForRange(s.Deals, cur); err != nil {
		return Dashboard{}, err
	}
	if d.PreviousRevenue, err = RevenueForRange(s.Deals, prev); err != nil {
		return Dashboard{}, err
	}
	d.RevenueChange = PercentChange(d.Revenue, d.PreviousRevenue)

	active, err := ActiveDeals(s.Deals)
	if err != nil {
		return Dashboard{}, err
	}
	d.ActiveDeals = len(active)
	if d.ActiveDealValue, err = ActiveDealValue(s.Deals); err != nil {
		return Dashboard{}, err
	}

	converted, err := DealsInRange(s.Deals, cur)
	if err != nil {
		return Dashboard{}, err
	}
	d.ConversionRate = ConversionRate(s.Leads, converted)

	if d.TasksDueToday, err = TasksDueToday(s.Tasks, opts.Now); err != nil {
		return Dashboard{}, err
	}
	if d.OverdueTasks, err = OverdueTasks(s.Tasks, opts.Now); err != nil {
		return Dashboard{}, err
	}

	if d.Trend, err = RevenueTrend(s.Deals, opts.TrendMonths, opts.Now); err != nil {
		return Dashboard{}, err
	}
	if d.Distribution, err = PipelineDistribution(s.Deals); err != nil {
		return Dashboard{}, err
	}
	if d.Recent, err = RecentActivities(s.Activities, opts.RecentLimit); err != nil {
		return Dashboard{}, err
	}
	if d.Activity, err = SummarizeActivities(s.Activities, opts.Now); err != nil {
		return Dashboard{}, err
	}

	return d, nil
}
