package db

import (
	"context"
	"database/sql"

	"github.com/zourte2486/school-platform-test/internal/model"
)

type SchoolRepository interface {
	Insert(ctx context.Context, sub model.SchoolSubmission, imageLocator string) (int64, error)
	ListAll(ctx context.Context) ([]model.School, error)
	GetByID(ctx context.Context, id int64) (*model.School, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	ExistsByImage(ctx context.Context, imageLocator string) (bool, error)
}

type schoolRepository struct {
	db *sql.DB
}

func NewSchoolRepository(database *sql.DB) SchoolRepository {
	return &schoolRepository{db: database}
}

func (r *schoolRepository) Insert(ctx context.Context, sub model.SchoolSubmission, imageLocator string) (int64, error) {
	query := `INSERT INTO schools (name, address, city, state, contact, image, email_id)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		sub.Name, sub.Address, sub.City, sub.State, sub.Contact, imageLocator, sub.EmailID)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

func (r *schoolRepository) ListAll(ctx context.Context) ([]model.School, error) {
	query := `SELECT id, name, address, city, state, contact, image, email_id, created_at
			  FROM schools ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schools []model.School
	for rows.Next() {
		var school model.School
		err := rows.Scan(&school.ID, &school.Name, &school.Address, &school.City,
			&school.State, &school.Contact, &school.Image, &school.EmailID, &school.CreatedAt)
		if err != nil {
			return nil, err
		}
		schools = append(schools, school)
	}

	return schools, rows.Err()
}

func (r *schoolRepository) GetByID(ctx context.Context, id int64) (*model.School, error) {
	query := `SELECT id, name, address, city, state, contact, image, email_id, created_at
			  FROM schools WHERE id = ?`

	var school model.School
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&school.ID, &school.Name, &school.Address, &school.City,
		&school.State, &school.Contact, &school.Image, &school.EmailID, &school.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &school, nil
}

func (r *schoolRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schools WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *schoolRepository) ExistsByImage(ctx context.Context, imageLocator string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM schools WHERE image = ?)`, imageLocator).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
