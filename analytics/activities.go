// ABOUTME: Activity feed statistics and day grouping
// ABOUTME: Recent activity, per-family counts, and Today/Yesterday/date labels
package analytics

import (
	"sort"
	"time"

	"github.com/harperreed/crmboard/models"
)

type ActivityStats struct {
	Total          int `json:"total"`
	Today          int `json:"today"`
	DealRelated    int `json:"deal_related"`
	ContactRelated int `json:"contact_related"`
}

// ActivityDay is one labelled group of the feed, newest first.
type ActivityDay struct {
	Label      string            `json:"label"`
	Activities []models.Activity `json:"activities"`
}

func checkActivity(a models.Activity) error {
	if _, err := models.ParseActivityType(string(a.Type)); err != nil {
		return &models.ValidationError{Entity: "activity", ID: a.ID, Field: "type", Value: string(a.Type), Reason: "unknown activity type"}
	}
	if a.Timestamp.IsZero() {
		return &models.ValidationError{Entity: "activity", ID: a.ID, Field: "timestamp", Reason: "is missing"}
	}
	return nil
}

func SummarizeActivities(activities []models.Activity, ref time.Time) (ActivityStats, error) {
	today := startOfDay(ref)
	tomorrow := today.AddDate(0, 0, 1)

	stats := ActivityStats{Total: len(activities)}
	for _, a := range activities {
		if err := checkActivity(a); err != nil {
			return ActivityStats{}, err
		}
		ts := a.Timestamp.In(ref.Location())
		if !ts.Before(today) && ts.Before(tomorrow) {
			stats.Today++
		}
		if a.Type.AboutDeal() {
			stats.DealRelated++
		}
		if a.Type.AboutContact() {
			stats.ContactRelated++
		}
	}
	return stats, nil
}

// RecentActivities returns up to limit activities, newest first. The input
// slice is not reordered.
func RecentActivities(activities []models.Activity, limit int) ([]models.Activity, error) {
	for _, a := range activities {
		if err := checkActivity(a); err != nil {
			return nil, err
		}
	}
	sorted := append([]models.Activity(nil), activities...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	if sorted == nil {
		sorted = []models.Activity{}
	}
	return sorted, nil
}

// GroupActivitiesByDay labels each calendar day "Today", "Yesterday", or
// "January 2, 2006", in newest-first order.
func GroupActivitiesByDay(activities []models.Activity, ref time.Time) ([]ActivityDay, error) {
	sorted, err := RecentActivities(activities, 0)
	if err != nil {
		return nil, err
	}

	today := startOfDay(ref)
	yesterday := today.AddDate(0, 0, -1)

	var days []ActivityDay
	for _, a := range sorted {
		ts := a.Timestamp.In(ref.Location())
		day := startOfDay(ts)

		label := day.Format("January 2, 2006")
		switch {
		case day.Equal(today):
			label = "Today"
		case day.Equal(yesterday):
			label = "Yesterday"
		}

		if n := len(days); n > 0 && days[n-1].Label == label {
			days[n-1].Activities = append(days[n-1].Activities, a)
			continue
		}
		days = append(days, ActivityDay{Label: label, Activities: []models.Activity{a}})
	}
	return days, nil
}
