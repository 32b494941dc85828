package repository

import (
	"context"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

func (r *Repository) CreateDoctor(doctor *domain.Doctor) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO doctors (name, email, crm, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`
	return r.dbpool.QueryRowContext(ctx, query, doctor.Name, doctor.Email, doctor.CRM, doctor.Active).Scan(&doctor.ID, &doctor.CreatedAt, &doctor.Version)
}

func (r *Repository) GetDoctorByID(id int64) (*domain.Doctor, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, email, crm, active, created_at, version FROM doctors WHERE id = $1
	`

	doctor := &domain.Doctor{ID: id}
	dst := []any{&doctor.Name, &doctor.Email, &doctor.CRM, &doctor.Active, &doctor.CreatedAt, &doctor.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return doctor, nil
}

func (r *Repository) GetAllDoctors(onlyActive bool) ([]*domain.Doctor, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, email, crm, active, created_at, version FROM doctors
	`
	if onlyActive {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doctors := []*domain.Doctor{}
	for rows.Next() {
		doctor := &domain.Doctor{}
		dst := []any{&doctor.ID, &doctor.Name, &doctor.Email, &doctor.CRM, &doctor.Active, &doctor.CreatedAt, &doctor.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		doctors = append(doctors, doctor)
	}

	return doctors, rows.Err()
}

func (r *Repository) UpdateDoctor(doctor *domain.Doctor) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE doctors
		SET name = $1, email = $2, crm = $3, active = $4, version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`
	args := []any{doctor.Name, doctor.Email, doctor.CRM, doctor.Active, doctor.ID, doctor.Version}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&doctor.Version)
}

func (r *Repository) DeleteDoctor(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	return err
}
