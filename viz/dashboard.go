// ABOUTME: Terminal dashboard rendering
// ABOUTME: Provides ASCII dashboard for the pipeline, revenue, tasks, and recent activity
package viz

import (
	"fmt"
	"strings"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/models"
	"github.com/harperreed/crmboard/pipeline"
	"github.com/shopspring/decimal"
)

// FormatMoney renders a whole-dollar USD amount with thousands separators.
func FormatMoney(d decimal.Decimal) string {
	s := d.Abs().Round(0).StringFixed(0)

	var grouped strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	if d.Round(0).IsNegative() {
		return "-$" + grouped.String()
	}
	return "$" + grouped.String()
}

// FormatChange renders a percentage change with an explicit sign.
func FormatChange(pct decimal.Decimal) string {
	s := pct.Round(1).StringFixed(1) + "%"
	if pct.IsPositive() {
		return "+" + s
	}
	return s
}

func RenderDashboard(d analytics.Dashboard, board []pipeline.Column) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  CRM DASHBOARD\n")
	out.WriteString(fmt.Sprintf("  %s: %s to %s\n", d.Window,
		d.Range.Start.Format("Jan 2, 2006"), d.Range.End.AddDate(0, 0, -1).Format("Jan 2, 2006")))
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("REVENUE\n")
	out.WriteString(fmt.Sprintf("  %s  (%s vs %s)\n\n",
		FormatMoney(d.Revenue), FormatChange(d.RevenueChange), FormatMoney(d.PreviousRevenue)))

	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, board)
	out.WriteString(fmt.Sprintf("  %d active deals worth %s\n\n", d.ActiveDeals, FormatMoney(d.ActiveDealValue)))

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d contacts  🏢 %d companies  🎯 %d leads  %s%% conversion\n\n",
		d.TotalContacts, d.TotalCompanies, d.TotalLeads, d.ConversionRate.Round(1).StringFixed(1)))

	if len(d.Trend) > 0 {
		out.WriteString("REVENUE TREND\n")
		renderTrend(&out, d.Trend)
		out.WriteString("\n")
	}

	// Needs attention
	if d.TasksDueToday > 0 || d.OverdueTasks > 0 {
		out.WriteString("NEEDS ATTENTION\n")

		if d.TasksDueToday > 0 {
			out.WriteString(fmt.Sprintf("  📅 %d tasks due today\n", d.TasksDueToday))
		}

		if d.OverdueTasks > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d tasks overdue\n", d.OverdueTasks))
		}
		out.WriteString("\n")
	}

	if len(d.Recent) > 0 {
		out.WriteString("RECENT ACTIVITY\n")
		RenderActivities(&out, d.Recent)
	}

	return out.String()
}

// RenderActivities writes one line per activity, newest first as given.
func RenderActivities(out *strings.Builder, activities []models.Activity) {
	for _, a := range activities {
		out.WriteString(fmt.Sprintf("  %s %s  %s\n",
			ActivityHint(a.Type).Glyph, a.Timestamp.Format("Jan 2 15:04"), a.Description))
	}
}

func renderPipeline(out *strings.Builder, board []pipeline.Column) {
	// Find max count for scaling
	maxCount := 0
	for _, col := range board {
		if col.Count > maxCount {
			maxCount = col.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, col := range board {
		// Calculate bar length (0-10 blocks)
		barLength := (col.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-13s %s  %2d (%s)\n",
			col.Stage, bar, col.Count, FormatMoney(col.TotalValue)))
	}
}

func renderTrend(out *strings.Builder, trend []analytics.TrendPoint) {
	maxValue := decimal.Zero
	for _, p := range trend {
		if p.Value.GreaterThan(maxValue) {
			maxValue = p.Value
		}
	}

	for _, p := range trend {
		barLength := 0
		if maxValue.IsPositive() {
			barLength = int(p.Value.Mul(decimal.NewFromInt(20)).Div(maxValue).IntPart())
		}
		out.WriteString(fmt.Sprintf("  %-4s %-20s %s\n", p.Label, strings.Repeat("▇", barLength), FormatMoney(p.Value)))
	}
}
