// ABOUTME: Tool output shapes shared by the MCP handlers
// ABOUTME: Renders money as decimal strings and times as RFC 3339 for agents
package handlers

import (
	"time"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/models"
	"github.com/harperreed/crmboard/pipeline"
	"github.com/harperreed/crmboard/viz"
)

const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

type DealOutput struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	Value             string  `json:"value"`
	Stage             string  `json:"stage"`
	ContactID         int64   `json:"contact_id"`
	ContactName       string  `json:"contact_name,omitempty"`
	ExpectedCloseDate *string `json:"expected_close_date,omitempty"`
	Probability       int     `json:"probability"`
	SalesRep          string  `json:"sales_rep,omitempty"`
	SalesRepName      string  `json:"sales_rep_name,omitempty"`
	Description       string  `json:"description,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func dealToOutput(deal models.Deal, names map[int64]string) DealOutput {
	output := DealOutput{
		ID:                deal.ID,
		Title:             deal.Title,
		Value:             deal.Value.StringFixed(2),
		Stage:             string(deal.Stage),
		ContactID:         deal.ContactID,
		ContactName:       names[deal.ContactID],
		ExpectedCloseDate: formatOptionalTime(deal.ExpectedCloseDate),
		Probability:       deal.Probability,
		SalesRep:          deal.SalesRep,
		Description:       deal.Description,
		CreatedAt:         formatTime(deal.CreatedAt),
		UpdatedAt:         formatTime(deal.UpdatedAt),
	}
	if deal.SalesRep != "" {
		output.SalesRepName = models.SalesRepName(deal.SalesRep)
	}
	return output
}

type ColumnOutput struct {
	Stage      string       `json:"stage"`
	Count      int          `json:"count"`
	TotalValue string       `json:"total_value"`
	Deals      []DealOutput `json:"deals"`
}

func columnsToOutput(board []pipeline.Column, names map[int64]string) []ColumnOutput {
	out := make([]ColumnOutput, 0, len(board))
	for _, col := range board {
		deals := make([]DealOutput, 0, len(col.Deals))
		for _, d := range col.Deals {
			deals = append(deals, dealToOutput(d, names))
		}
		out = append(out, ColumnOutput{
			Stage:      string(col.Stage),
			Count:      col.Count,
			TotalValue: col.TotalValue.StringFixed(2),
			Deals:      deals,
		})
	}
	return out
}

type ContactOutput struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone,omitempty"`
	Company      string  `json:"company"`
	JobTitle     string  `json:"job_title,omitempty"`
	Address      string  `json:"address,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	Type         string  `json:"type"`
	CreatedAt    string  `json:"created_at"`
	LastActivity *string `json:"last_activity,omitempty"`
}

func contactToOutput(c models.Contact) ContactOutput {
	return ContactOutput{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		Company:      c.Company,
		JobTitle:     c.JobTitle,
		Address:      c.Address,
		Notes:        c.Notes,
		Type:         string(c.Type),
		CreatedAt:    formatTime(c.CreatedAt),
		LastActivity: formatOptionalTime(c.LastActivity),
	}
}

type CompanyOutput struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Website   string `json:"website,omitempty"`
	Address   string `json:"address,omitempty"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

func companyToOutput(c models.Company) CompanyOutput {
	return CompanyOutput{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Website:   c.Website,
		Address:   c.Address,
		Type:      string(c.Type),
		CreatedAt: formatTime(c.CreatedAt),
	}
}

type LeadOutput struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Company    string `json:"company"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Source     string `json:"source"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	AssignedTo string `json:"assigned_to,omitempty"`
	Notes      string `json:"notes,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func leadToOutput(l models.Lead) LeadOutput {
	return LeadOutput{
		ID:         l.ID,
		Name:       l.Name,
		Company:    l.Company,
		Email:      l.Email,
		Phone:      l.Phone,
		Source:     string(l.Source),
		Status:     string(l.Status),
		Priority:   string(l.Priority),
		AssignedTo: l.AssignedTo,
		Notes:      l.Notes,
		CreatedAt:  formatTime(l.CreatedAt),
	}
}

type TaskOutput struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	ContactID   *int64 `json:"contact_id,omitempty"`
	ContactName string `json:"contact_name,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func taskToOutput(t models.Task, names map[int64]string) TaskOutput {
	output := TaskOutput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     formatTime(t.DueDate),
		Status:      string(t.Status),
		ContactID:   t.ContactID,
		CreatedAt:   formatTime(t.CreatedAt),
	}
	if t.ContactID != nil {
		output.ContactName = names[*t.ContactID]
	}
	return output
}

type ActivityOutput struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ContactID   int64  `json:"contact_id,omitempty"`
	ContactName string `json:"contact_name,omitempty"`
	DealID      *int64 `json:"deal_id,omitempty"`
	Timestamp   string `json:"timestamp"`
	Icon        string `json:"icon"`
	Variant     string `json:"variant"`
}

func activityToOutput(a models.Activity, names map[int64]string) ActivityOutput {
	hint := viz.ActivityHint(a.Type)
	return ActivityOutput{
		ID:          a.ID,
		Type:        string(a.Type),
		Description: a.Description,
		ContactID:   a.ContactID,
		ContactName: names[a.ContactID],
		DealID:      a.DealID,
		Timestamp:   formatTime(a.Timestamp),
		Icon:        hint.Icon,
		Variant:     hint.Variant,
	}
}

type TrendPointOutput struct {
	Label string `json:"label"`
	Month string `json:"month"`
	Value string `json:"value"`
}

type DashboardOutput struct {
	Window          string             `json:"window"`
	RangeStart      string             `json:"range_start"`
	RangeEnd        string             `json:"range_end"`
	Revenue         string             `json:"revenue"`
	PreviousRevenue string             `json:"previous_revenue"`
	RevenueChange   string             `json:"revenue_change"`
	ActiveDeals     int                `json:"active_deals"`
	ActiveDealValue string             `json:"active_deal_value"`
	ConversionRate  string             `json:"conversion_rate"`
	TasksDueToday   int                `json:"tasks_due_today"`
	OverdueTasks    int                `json:"overdue_tasks"`
	Trend           []TrendPointOutput `json:"trend"`
	Distribution    map[string]int     `json:"distribution"`
	Recent          []ActivityOutput   `json:"recent"`
	TotalContacts   int                `json:"total_contacts"`
	TotalCompanies  int                `json:"total_companies"`
	TotalLeads      int                `json:"total_leads"`
	Rendered        string             `json:"rendered,omitempty"`
}

func dashboardToOutput(d analytics.Dashboard, names map[int64]string) DashboardOutput {
	output := DashboardOutput{
		Window:          string(d.Window),
		RangeStart:      formatTime(d.Range.Start),
		RangeEnd:        formatTime(d.Range.End),
		Revenue:         d.Revenue.StringFixed(2),
		PreviousRevenue: d.PreviousRevenue.StringFixed(2),
		RevenueChange:   d.RevenueChange.StringFixed(1),
		ActiveDeals:     d.ActiveDeals,
		ActiveDealValue: d.ActiveDealValue.StringFixed(2),
		ConversionRate:  d.ConversionRate.StringFixed(1),
		TasksDueToday:   d.TasksDueToday,
		OverdueTasks:    d.OverdueTasks,
		Trend:           make([]TrendPointOutput, 0, len(d.Trend)),
		Distribution:    make(map[string]int, len(d.Distribution)),
		Recent:          make([]ActivityOutput, 0, len(d.Recent)),
		TotalContacts:   d.TotalContacts,
		TotalCompanies:  d.TotalCompanies,
		TotalLeads:      d.TotalLeads,
	}
	for _, p := range d.Trend {
		output.Trend = append(output.Trend, TrendPointOutput{
			Label: p.Label,
			Month: p.Month.Format("2006-01"),
			Value: p.Value.StringFixed(2),
		})
	}
	for stage, n := range d.Distribution {
		output.Distribution[string(stage)] = n
	}
	for _, a := range d.Recent {
		output.Recent = append(output.Recent, activityToOutput(a, names))
	}
	return output
}
