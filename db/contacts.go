// ABOUTME: Contact database operations
// ABOUTME: Handles contact CRUD including contacts created by lead conversion
package db

import (
	"context"

	"github.com/harperreed/crmboard/models"
)

const contactColumns = `id, name, email, phone, company, job_title, address, notes, type, created_at, last_activity`

func scanContact(row scanner) (*models.Contact, error) {
	contact := &models.Contact{}
	err := row.Scan(
		&contact.ID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.Company,
		&contact.JobTitle,
		&contact.Address,
		&contact.Notes,
		&contact.Type,
		&contact.CreatedAt,
		&contact.LastActivity,
	)
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func CreateContact(ctx context.Context, q queryer, contact *models.Contact) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO contacts (name, email, phone, company, job_title, address, notes, type, created_at, last_activity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.Name, contact.Email, contact.Phone, contact.Company, contact.JobTitle, contact.Address, contact.Notes, contact.Type, contact.CreatedAt, contact.LastActivity)
	if err != nil {
		return err
	}
	contact.ID, err = res.LastInsertId()
	return err
}

func GetContact(ctx context.Context, q queryer, id int64) (*models.Contact, error) {
	contact, err := scanContact(q.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "contact", id)
	}
	return contact, nil
}

func UpdateContact(ctx context.Context, q queryer, contact *models.Contact) error {
	res, err := q.ExecContext(ctx, `
		UPDATE contacts
		SET name = ?, email = ?, phone = ?, company = ?, job_title = ?, address = ?, notes = ?, type = ?, created_at = ?, last_activity = ?
		WHERE id = ?
	`, contact.Name, contact.Email, contact.Phone, contact.Company, contact.JobTitle, contact.Address, contact.Notes, contact.Type, contact.CreatedAt, contact.LastActivity, contact.ID)
	if err != nil {
		return err
	}
	return affected(res, "contact", contact.ID)
}

func DeleteContact(ctx context.Context, q queryer, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, "contact", id)
}

func ListContacts(ctx context.Context, q queryer) ([]models.Contact, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanContact)
}
