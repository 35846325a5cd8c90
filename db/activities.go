// ABOUTME: Activity feed database operations
// ABOUTME: Feed entries are append-only in practice but keep the uniform CRUD surface
package db

import (
	"context"

	"github.com/harperreed/crmboard/models"
)

const activityColumns = `id, type, description, contact_id, deal_id, timestamp`

func scanActivity(row scanner) (*models.Activity, error) {
	activity := &models.Activity{}
	err := row.Scan(
		&activity.ID,
		&activity.Type,
		&activity.Description,
		&activity.ContactID,
		&activity.DealID,
		&activity.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func CreateActivity(ctx context.Context, q queryer, activity *models.Activity) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO activities (type, description, contact_id, deal_id, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, activity.Type, activity.Description, activity.ContactID, activity.DealID, activity.Timestamp)
	if err != nil {
		return err
	}
	activity.ID, err = res.LastInsertId()
	return err
}

func GetActivity(ctx context.Context, q queryer, id int64) (*models.Activity, error) {
	activity, err := scanActivity(q.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "activity", id)
	}
	return activity, nil
}

func UpdateActivity(ctx context.Context, q queryer, activity *models.Activity) error {
	res, err := q.ExecContext(ctx, `
		UPDATE activities
		SET type = ?, description = ?, contact_id = ?, deal_id = ?, timestamp = ?
		WHERE id = ?
	`, activity.Type, activity.Description, activity.ContactID, activity.DealID, activity.Timestamp, activity.ID)
	if err != nil {
		return err
	}
	return affected(res, "activity", activity.ID)
}

func DeleteActivity(ctx context.Context, q queryer, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, "activity", id)
}

func ListActivities(ctx context.Context, q queryer) ([]models.Activity, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanActivity)
}
