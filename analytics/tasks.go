// ABOUTME: Task due-date buckets for the dashboard and task page
// ABOUTME: Due today, overdue, summary counts, and the current week agenda
package analytics

import (
	"time"

	"github.com/harperreed/crmboard/models"
	"github.com/jinzhu/now"
)

type TaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
	DueToday  int `json:"due_today"`
}

// AgendaDay is one day of the week view.
type AgendaDay struct {
	Date  time.Time     `json:"date"`
	Tasks []models.Task `json:"tasks"`
}

type dueBucket int

const (
	bucketLater dueBucket = iota
	bucketToday
	bucketOverdue
	bucketDone
)

// classify places a task in exactly one bucket relative to ref's calendar day.
func classify(t models.Task, ref time.Time) (dueBucket, error) {
	status, err := models.ParseTaskStatus(string(t.Status))
	if err != nil {
		return 0, &models.ValidationError{Entity: "task", ID: t.ID, Field: "status", Value: string(t.Status), Reason: "unknown task status"}
	}
	if t.DueDate.IsZero() {
		return 0, &models.ValidationError{Entity: "task", ID: t.ID, Field: "due_date", Reason: "is missing"}
	}
	if status == models.TaskCompleted {
		return bucketDone, nil
	}

	today := startOfDay(ref)
	due := t.DueDate.In(ref.Location())
	switch {
	case due.Before(today):
		return bucketOverdue, nil
	case due.Before(today.AddDate(0, 0, 1)):
		return bucketToday, nil
	}
	return bucketLater, nil
}

func countBucket(tasks []models.Task, ref time.Time, want dueBucket) (int, error) {
	n := 0
	for _, t := range tasks {
		b, err := classify(t, ref)
		if err != nil {
			return 0, err
		}
		if b == want {
			n++
		}
	}
	return n, nil
}

// TasksDueToday counts open tasks due on ref's calendar day.
func TasksDueToday(tasks []models.Task, ref time.Time) (int, error) {
	return countBucket(tasks, ref, bucketToday)
}

// OverdueTasks counts open tasks due before the start of ref's day.
func OverdueTasks(tasks []models.Task, ref time.Time) (int, error) {
	return countBucket(tasks, ref, bucketOverdue)
}

func SummarizeTasks(tasks []models.Task, ref time.Time) (TaskStats, error) {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		b, err := classify(t, ref)
		if err != nil {
			return TaskStats{}, err
		}
		switch b {
		case bucketDone:
			stats.Completed++
			continue
		case bucketOverdue:
			stats.Overdue++
		case bucketToday:
			stats.DueToday++
		}
		stats.Pending++
	}
	return stats, nil
}

// WeekAgenda lays tasks out over the seven days of ref's week.
func WeekAgenda(tasks []models.Task, ref time.Time) ([]AgendaDay, error) {
	weekStart := now.With(ref).BeginningOfWeek()
	days := make([]AgendaDay, 7)
	for i := range days {
		days[i] = AgendaDay{Date: weekStart.AddDate(0, 0, i), Tasks: []models.Task{}}
	}

	for _, t := range tasks {
		if _, err := classify(t, ref); err != nil {
			return nil, err
		}
		due := t.DueDate.In(ref.Location())
		for i := range days {
			if !due.Before(days[i].Date) && due.Before(days[i].Date.AddDate(0, 0, 1)) {
				days[i].Tasks = append(days[i].Tasks, t)
				break
			}
		}
	}
	return days, nil
}
