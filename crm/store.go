// ABOUTME: Record Store contract shared by the sqlite, badger, and memory backends
// ABOUTME: Uniform list/get/create/update/delete per collection plus lead conversion
package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/crmboard/models"
)

// Repository is the uniform CRUD surface for one collection. Get, Update and
// Delete return a *models.NotFoundError for unknown ids. Create assigns the id.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Store is the Record Store collaborator.
type Store interface {
	Contacts() Repository[models.Contact]
	Companies() Repository[models.Company]
	Leads() Repository[models.Lead]
	Deals() Repository[models.Deal]
	Tasks() Repository[models.Task]
	Activities() Repository[models.Activity]

	// ConvertLead creates a contact from the lead and removes the lead.
	ConvertLead(ctx context.Context, leadID int64, now time.Time) (models.Contact, error)

	Close() error
}

// ContactFromLead builds the contact a converted lead becomes.
func ContactFromLead(lead models.Lead, now time.Time) models.Contact {
	notes := lead.Notes
	if notes == "" {
		notes = "No notes"
	}
	return models.Contact{
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Company:   lead.Company,
		JobTitle:  "Contact",
		Notes:     fmt.Sprintf("Converted from lead. Original notes: %s", notes),
		Type:      models.ContactLead,
		CreatedAt: now,
	}
}
