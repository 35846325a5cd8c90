// ABOUTME: Deal database operations
// ABOUTME: Stores decimal values as text so money round-trips exactly
package db

import (
	"context"

	"github.com/harperreed/crmboard/models"
)

const dealColumns = `id, title, value, stage, contact_id, expected_close_date, probability, sales_rep, description, created_at, updated_at`

func scanDeal(row scanner) (*models.Deal, error) {
	deal := &models.Deal{}
	err := row.Scan(
		&deal.ID,
		&deal.Title,
		&deal.Value,
		&deal.Stage,
		&deal.ContactID,
		&deal.ExpectedCloseDate,
		&deal.Probability,
		&deal.SalesRep,
		&deal.Description,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return deal, nil
}

func CreateDeal(ctx context.Context, q queryer, deal *models.Deal) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO deals (title, value, stage, contact_id, expected_close_date, probability, sales_rep, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, deal.Title, deal.Value.String(), deal.Stage, deal.ContactID, deal.ExpectedCloseDate, deal.Probability, deal.SalesRep, deal.Description, deal.CreatedAt, deal.UpdatedAt)
	if err != nil {
		return err
	}
	deal.ID, err = res.LastInsertId()
	return err
}

func GetDeal(ctx context.Context, q queryer, id int64) (*models.Deal, error) {
	deal, err := scanDeal(q.QueryRowContext(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "deal", id)
	}
	return deal, nil
}

func UpdateDeal(ctx context.Context, q queryer, deal *models.Deal) error {
	res, err := q.ExecContext(ctx, `
		UPDATE deals
		SET title = ?, value = ?, stage = ?, contact_id = ?, expected_close_date = ?, probability = ?, sales_rep = ?, description = ?, created_at = ?, updated_at = ?
		WHERE id = ?
	`, deal.Title, deal.Value.String(), deal.Stage, deal.ContactID, deal.ExpectedCloseDate, deal.Probability, deal.SalesRep, deal.Description, deal.CreatedAt, deal.UpdatedAt, deal.ID)
	if err != nil {
		return err
	}
	return affected(res, "deal", deal.ID)
}

func DeleteDeal(ctx context.Context, q queryer, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM deals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, "deal", id)
}

func ListDeals(ctx context.Context, q queryer) ([]models.Deal, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+dealColumns+` FROM deals ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanDeal)
}
