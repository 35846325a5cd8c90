// ABOUTME: Task database operations
// ABOUTME: Handles task CRUD with optional contact links
package db

import (
	"context"

	"github.com/harperreed/crmboard/models"
)

const taskColumns = `id, title, description, due_date, status, contact_id, created_at`

func scanTask(row scanner) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Status,
		&task.ContactID,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func CreateTask(ctx context.Context, q queryer, task *models.Task) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO tasks (title, description, due_date, status, contact_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, task.Title, task.Description, task.DueDate, task.Status, task.ContactID, task.CreatedAt)
	if err != nil {
		return err
	}
	task.ID, err = res.LastInsertId()
	return err
}

func GetTask(ctx context.Context, q queryer, id int64) (*models.Task, error) {
	task, err := scanTask(q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	return task, nil
}

func UpdateTask(ctx context.Context, q queryer, task *models.Task) error {
	res, err := q.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, due_date = ?, status = ?, contact_id = ?, created_at = ?
		WHERE id = ?
	`, task.Title, task.Description, task.DueDate, task.Status, task.ContactID, task.CreatedAt, task.ID)
	if err != nil {
		return err
	}
	return affected(res, "task", task.ID)
}

func DeleteTask(ctx context.Context, q queryer, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, "task", id)
}

func ListTasks(ctx context.Context, q queryer) ([]models.Task, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTask)
}
