// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Contact, Company, Lead, Deal, Task, and Activity records
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Contact struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	Company      string      `json:"company"`
	JobTitle     string      `json:"job_title,omitempty"`
	Address      string      `json:"address,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	Type         ContactType `json:"type"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActivity *time.Time  `json:"last_activity,omitempty"`
}

type Company struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Website   string      `json:"website,omitempty"`
	Address   string      `json:"address,omitempty"`
	Type      ContactType `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
}

type Lead struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Company    string     `json:"company"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Source     LeadSource `json:"source"`
	Status     LeadStatus `json:"status"`
	Priority   Priority   `json:"priority"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type Deal struct {
	ID                int64           `json:"id"`
	Title             string          `json:"title"`
	Value             decimal.Decimal `json:"value"`
	Stage             Stage           `json:"stage"`
	ContactID         int64           `json:"contact_id"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date,omitempty"`
	Probability       int             `json:"probability"`
	SalesRep          string          `json:"sales_rep,omitempty"`
	Description       string          `json:"description,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     time.Time  `json:"due_date"`
	Status      TaskStatus `json:"status"`
	ContactID   *int64     `json:"contact_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Activity is an append-only feed entry.
type Activity struct {
	ID          int64        `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	ContactID   int64        `json:"contact_id,omitempty"`
	DealID      *int64       `json:"deal_id,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// SalesRep is an entry in the fixed representative roster.
type SalesRep struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var SalesReps = []SalesRep{
	{ID: "john_doe", Name: "John Doe"},
	{ID: "jane_smith", Name: "Jane Smith"},
	{ID: "mike_johnson", Name: "Mike Johnson"},
	{ID: "sarah_wilson", Name: "Sarah Wilson"},
	{ID: "david_brown", Name: "David Brown"},
}

// SalesRepName returns the display name for a roster id, or the id itself
// when it is not on the roster.
func SalesRepName(id string) string {
	for _, rep := range SalesReps {
		if rep.ID == id {
			return rep.Name
		}
	}
	return id
}

func isSalesRep(id string) bool {
	for _, rep := range SalesReps {
		if rep.ID == id {
			return true
		}
	}
	return false
}
