// ABOUTME: Canonical enumerations for CRM entities
// ABOUTME: Parses legacy spellings into one canonical value per enum
package models

import (
	"strings"
)

type Stage string

const (
	StageProspecting   Stage = "Prospecting"
	StageQualification Stage = "Qualification"
	StageProposal      Stage = "Proposal"
	StageNegotiation   Stage = "Negotiation"
	StageClosedWon     Stage = "Closed Won"
	StageClosedLost    Stage = "Closed Lost"
)

// Stages lists every pipeline stage in board order.
var Stages = []Stage{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// stageAliases maps normalized legacy spellings onto canonical stages.
// "Closed" and "Won" were written by the old deal form and dashboard.
var stageAliases = map[string]Stage{
	"prospecting":   StageProspecting,
	"lead":          StageProspecting,
	"qualification": StageQualification,
	"qualified":     StageQualification,
	"proposal":      StageProposal,
	"negotiation":   StageNegotiation,
	"closed won":    StageClosedWon,
	"closed":        StageClosedWon,
	"won":           StageClosedWon,
	"closed lost":   StageClosedLost,
	"lost":          StageClosedLost,
}

// ParseStage resolves any known stage spelling to its canonical value.
func ParseStage(s string) (Stage, error) {
	if stage, ok := stageAliases[normalizeKey(s)]; ok {
		return stage, nil
	}
	return "", &ValidationError{Field: "stage", Value: s, Reason: "unknown stage"}
}

func (s Stage) Valid() bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Closed reports whether the stage is terminal.
func (s Stage) Closed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Won reports whether the stage counts as revenue.
func (s Stage) Won() bool {
	return s == StageClosedWon
}

type LeadSource string

const (
	SourceWebsite     LeadSource = "Website"
	SourceReferral    LeadSource = "Referral"
	SourceSocialMedia LeadSource = "Social Media"
	SourceColdCall    LeadSource = "Cold Call"
	SourceTradeShow   LeadSource = "Trade Show"
)

var LeadSources = []LeadSource{SourceWebsite, SourceReferral, SourceSocialMedia, SourceColdCall, SourceTradeShow}

func ParseLeadSource(s string) (LeadSource, error) {
	for _, src := range LeadSources {
		if normalizeKey(string(src)) == normalizeKey(s) {
			return src, nil
		}
	}
	return "", &ValidationError{Field: "source", Value: s, Reason: "unknown lead source"}
}

type LeadStatus string

const (
	LeadNew         LeadStatus = "New"
	LeadContacted   LeadStatus = "Contacted"
	LeadQualified   LeadStatus = "Qualified"
	LeadUnqualified LeadStatus = "Unqualified"
)

var LeadStatuses = []LeadStatus{LeadNew, LeadContacted, LeadQualified, LeadUnqualified}

func ParseLeadStatus(s string) (LeadStatus, error) {
	for _, st := range LeadStatuses {
		if normalizeKey(string(st)) == normalizeKey(s) {
			return st, nil
		}
	}
	return "", &ValidationError{Field: "status", Value: s, Reason: "unknown lead status"}
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if normalizeKey(string(p)) == normalizeKey(s) {
			return p, nil
		}
	}
	return "", &ValidationError{Field: "priority", Value: s, Reason: "unknown priority"}
}

type TaskStatus string

const (
	TaskToDo       TaskStatus = "to-do"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskOnHold     TaskStatus = "on-hold"
)

var TaskStatuses = []TaskStatus{TaskToDo, TaskInProgress, TaskCompleted, TaskOnHold}

// taskStatusAliases covers the "pending"/"completed" pair the task list
// used before statuses were widened.
var taskStatusAliases = map[string]TaskStatus{
	"to do":       TaskToDo,
	"todo":        TaskToDo,
	"pending":     TaskToDo,
	"in progress": TaskInProgress,
	"completed":   TaskCompleted,
	"done":        TaskCompleted,
	"on hold":     TaskOnHold,
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	if st, ok := taskStatusAliases[normalizeKey(s)]; ok {
		return st, nil
	}
	return "", &ValidationError{Field: "status", Value: s, Reason: "unknown task status"}
}

func (s TaskStatus) Valid() bool {
	for _, st := range TaskStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type ContactType string

const (
	ContactCustomer ContactType = "customer"
	ContactLead     ContactType = "lead"
)

func ParseContactType(s string) (ContactType, error) {
	switch normalizeKey(s) {
	case "customer":
		return ContactCustomer, nil
	case "lead":
		return ContactLead, nil
	}
	return "", &ValidationError{Field: "type", Value: s, Reason: "unknown contact type"}
}

type ActivityType string

const (
	ActivityContactCreated   ActivityType = "contact_created"
	ActivityContactUpdated   ActivityType = "contact_updated"
	ActivityDealCreated      ActivityType = "deal_created"
	ActivityDealUpdated      ActivityType = "deal_updated"
	ActivityDealStageChanged ActivityType = "deal_stage_changed"
	ActivityTaskCreated      ActivityType = "task_created"
	ActivityTaskCompleted    ActivityType = "task_completed"
	ActivityEmailSent        ActivityType = "email_sent"
	ActivityCallMade         ActivityType = "call_made"
	ActivityMeetingScheduled ActivityType = "meeting_scheduled"
	ActivityNoteAdded        ActivityType = "note_added"
	ActivityLeadConverted    ActivityType = "lead_converted"
)

var ActivityTypes = []ActivityType{
	ActivityContactCreated,
	ActivityContactUpdated,
	ActivityDealCreated,
	ActivityDealUpdated,
	ActivityDealStageChanged,
	ActivityTaskCreated,
	ActivityTaskCompleted,
	ActivityEmailSent,
	ActivityCallMade,
	ActivityMeetingScheduled,
	ActivityNoteAdded,
	ActivityLeadConverted,
}

func ParseActivityType(s string) (ActivityType, error) {
	key := strings.ReplaceAll(normalizeKey(s), " ", "_")
	for _, t := range ActivityTypes {
		if string(t) == key {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "type", Value: s, Reason: "unknown activity type"}
}

// AboutDeal reports whether the activity belongs to the deal family.
func (t ActivityType) AboutDeal() bool {
	return strings.HasPrefix(string(t), "deal_")
}

// AboutContact reports whether the activity belongs to the contact family.
func (t ActivityType) AboutContact() bool {
	return strings.HasPrefix(string(t), "contact_")
}

// normalizeKey lowercases and folds "_" and "-" into single spaces.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
