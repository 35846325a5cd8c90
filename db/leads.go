// ABOUTME: Lead database operations
// ABOUTME: Handles lead CRUD; conversion lives in the store transaction
package db

import (
	"context"

	"github.com/harperreed/crmboard/models"
)

const leadColumns = `id, name, company, email, phone, source, status, priority, assigned_to, notes, created_at`

func scanLead(row scanner) (*models.Lead, error) {
	lead := &models.Lead{}
	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Company,
		&lead.Email,
		&lead.Phone,
		&lead.Source,
		&lead.Status,
		&lead.Priority,
		&lead.AssignedTo,
		&lead.Notes,
		&lead.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func CreateLead(ctx context.Context, q queryer, lead *models.Lead) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO leads (name, company, email, phone, source, status, priority, assigned_to, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.Name, lead.Company, lead.Email, lead.Phone, lead.Source, lead.Status, lead.Priority, lead.AssignedTo, lead.Notes, lead.CreatedAt)
	if err != nil {
		return err
	}
	lead.ID, err = res.LastInsertId()
	return err
}

func GetLead(ctx context.Context, q queryer, id int64) (*models.Lead, error) {
	lead, err := scanLead(q.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "lead", id)
	}
	return lead, nil
}

func UpdateLead(ctx context.Context, q queryer, lead *models.Lead) error {
	res, err := q.ExecContext(ctx, `
		UPDATE leads
		SET name = ?, company = ?, email = ?, phone = ?, source = ?, status = ?, priority = ?, assigned_to = ?, notes = ?, created_at = ?
		WHERE id = ?
	`, lead.Name, lead.Company, lead.Email, lead.Phone, lead.Source, lead.Status, lead.Priority, lead.AssignedTo, lead.Notes, lead.CreatedAt, lead.ID)
	if err != nil {
		return err
	}
	return affected(res, "lead", lead.ID)
}

func DeleteLead(ctx context.Context, q queryer, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, "lead", id)
}

func ListLeads(ctx context.Context, q queryer) ([]models.Lead, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanLead)
}
