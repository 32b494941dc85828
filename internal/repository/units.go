package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

func (r *Repository) CreateUnit(unit *domain.Unit) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shifts, err := json.Marshal(unit.Shifts)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO units (name, city, shifts)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`
	return r.dbpool.QueryRowContext(ctx, query, unit.Name, unit.City, shifts).Scan(&unit.ID, &unit.CreatedAt, &unit.Version)
}

func (r *Repository) GetUnitByID(id int64) (*domain.Unit, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, city, shifts, created_at, version FROM units WHERE id = $1
	`

	unit := &domain.Unit{ID: id}
	var shifts []byte

	dst := []any{&unit.Name, &unit.City, &shifts, &unit.CreatedAt, &unit.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shifts, &unit.Shifts); err != nil {
		return nil, err
	}

	return unit, nil
}

func (r *Repository) GetAllUnits() ([]*domain.Unit, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, city, shifts, created_at, version FROM units ORDER BY name
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := []*domain.Unit{}
	for rows.Next() {
		unit := &domain.Unit{}
		var shifts []byte

		dst := []any{&unit.ID, &unit.Name, &unit.City, &shifts, &unit.CreatedAt, &unit.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(shifts, &unit.Shifts); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	return units, rows.Err()
}

func (r *Repository) UpdateUnit(unit *domain.Unit) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shifts, err := json.Marshal(unit.Shifts)
	if err != nil {
		return err
	}

	query := `
		UPDATE units
		SET name = $1, city = $2, shifts = $3, version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`
	return r.dbpool.QueryRowContext(ctx, query, unit.Name, unit.City, shifts, unit.ID, unit.Version).Scan(&unit.Version)
}

func (r *Repository) DeleteUnit(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, `DELETE FROM units WHERE id = $1`, id)
	return err
}
