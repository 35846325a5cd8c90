// ABOUTME: Company database operations
// ABOUTME: Handles company CRUD for the company directory
package db

import (
	"context"

	"github.com/harperreed/crmboard/models"
)

const companyColumns = `id, name, email, phone, website, address, type, created_at`

func scanCompany(row scanner) (*models.Company, error) {
	company := &models.Company{}
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.Email,
		&company.Phone,
		&company.Website,
		&company.Address,
		&company.Type,
		&company.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return company, nil
}

func CreateCompany(ctx context.Context, q queryer, company *models.Company) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO companies (name, email, phone, website, address, type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, company.Name, company.Email, company.Phone, company.Website, company.Address, company.Type, company.CreatedAt)
	if err != nil {
		return err
	}
	company.ID, err = res.LastInsertId()
	return err
}

func GetCompany(ctx context.Context, q queryer, id int64) (*models.Company, error) {
	company, err := scanCompany(q.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "company", id)
	}
	return company, nil
}

func UpdateCompany(ctx context.Context, q queryer, company *models.Company) error {
	res, err := q.ExecContext(ctx, `
		UPDATE companies
		SET name = ?, email = ?, phone = ?, website = ?, address = ?, type = ?, created_at = ?
		WHERE id = ?
	`, company.Name, company.Email, company.Phone, company.Website, company.Address, company.Type, company.CreatedAt, company.ID)
	if err != nil {
		return err
	}
	return affected(res, "company", company.ID)
}

func DeleteCompany(ctx context.Context, q queryer, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, "company", id)
}

func ListCompanies(ctx context.Context, q queryer) ([]models.Company, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCompany)
}
