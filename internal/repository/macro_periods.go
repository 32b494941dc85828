package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

func (r *Repository) CreateMacroPeriod(p *domain.MacroPeriod, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO macro_periods (doctor_id, start_date, end_date, status, priority, deadline, public_token, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`
	args := []any{p.DoctorID, p.StartDate, p.EndDate, p.Status, p.Priority, p.Deadline, p.PublicToken, p.CreatedBy}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.Version); err != nil {
		return err
	}

	for i := range p.Allocations {
		alloc := &p.Allocations[i]
		alloc.MacroPeriodID = p.ID

		query := `
			INSERT INTO macro_period_units (macro_period_id, unit_id, total_days, order_position)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, p.ID, alloc.UnitID, alloc.TotalDays, alloc.OrderPosition).Scan(&alloc.ID); err != nil {
			return err
		}
	}

	event.MacroPeriodID = p.ID
	if err := insertAuditEventTx(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetMacroPeriodByID(id int64) (*domain.MacroPeriod, error) {
	return r.getMacroPeriod("mp.id = $1", id)
}

func (r *Repository) GetMacroPeriodByToken(token string) (*domain.MacroPeriod, error) {
	return r.getMacroPeriod("mp.public_token = $1", token)
}

func (r *Repository) getMacroPeriod(where string, arg any) (*domain.MacroPeriod, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT
			mp.id,
			mp.doctor_id,
			d.name,
			mp.start_date,
			mp.end_date,
			mp.status,
			mp.priority,
			mp.deadline,
			mp.public_token,
			mp.created_at,
			mp.created_by,
			mp.responded_at,
			mp.version
		FROM macro_periods mp
		JOIN doctors d ON d.id = mp.doctor_id
		WHERE %s
	`, where)

	p := &domain.MacroPeriod{}
	dst := []any{
		&p.ID,
		&p.DoctorID,
		&p.DoctorName,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.Priority,
		&p.Deadline,
		&p.PublicToken,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.RespondedAt,
		&p.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, arg).Scan(dst...); err != nil {
		return nil, err
	}

	allocations, err := r.loadAllocations(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Allocations = allocations

	selections, err := r.loadSelections(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Selections = selections

	return p, nil
}

func (r *Repository) loadAllocations(ctx context.Context, periodID int64) ([]domain.UnitAllocation, error) {
	query := `
		SELECT
			mpu.id,
			mpu.macro_period_id,
			mpu.unit_id,
			u.name,
			u.city,
			mpu.total_days,
			mpu.order_position
		FROM macro_period_units mpu
		JOIN units u ON u.id = mpu.unit_id
		WHERE mpu.macro_period_id = $1
		ORDER BY mpu.order_position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allocations := []domain.UnitAllocation{}
	for rows.Next() {
		var alloc domain.UnitAllocation
		dst := []any{&alloc.ID, &alloc.MacroPeriodID, &alloc.UnitID, &alloc.UnitName, &alloc.UnitCity, &alloc.TotalDays, &alloc.OrderPosition}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		allocations = append(allocations, alloc)
	}

	return allocations, rows.Err()
}

func (r *Repository) loadSelections(ctx context.Context, periodID int64) ([]domain.Selection, error) {
	query := `
		SELECT id, macro_period_id, macro_period_unit_id, date, slot_kind, custom_start, custom_end, block_id
		FROM macro_period_selections
		WHERE macro_period_id = $1
		ORDER BY date, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	selections := []domain.Selection{}
	for rows.Next() {
		var sel domain.Selection
		var customStart, customEnd, blockID sql.NullString

		dst := []any{&sel.ID, &sel.MacroPeriodID, &sel.AllocationID, &sel.Date, &sel.Slot.Kind, &customStart, &customEnd, &blockID}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if sel.Slot.Kind == domain.SlotCustom && customStart.Valid && customEnd.Valid {
			sel.Slot.Custom = &domain.ClockRange{Start: customStart.String, End: customEnd.String}
		}
		sel.BlockID = blockID.String

		selections = append(selections, sel)
	}

	return selections, rows.Err()
}

// MacroPeriodFilter restringe a listagem administrativa.
type MacroPeriodFilter struct {
	DoctorID       int64
	UnitID         int64
	Status         domain.MacroPeriodStatus
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	SortByDaysOpen bool
	Limit          int
	Offset         int
}

func (r *Repository) ListMacroPeriods(filter MacroPeriodFilter) ([]*domain.MacroPeriod, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	conditions := []string{"TRUE"}
	args := []any{}

	addArg := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.DoctorID != 0 {
		addArg("mp.doctor_id = $%d", filter.DoctorID)
	}
	if filter.UnitID != 0 {
		addArg("EXISTS (SELECT 1 FROM macro_period_units mpu WHERE mpu.macro_period_id = mp.id AND mpu.unit_id = $%d)", filter.UnitID)
	}
	if filter.Status != "" {
		addArg("mp.status = $%d", filter.Status)
	}
	if filter.CreatedFrom != nil {
		addArg("mp.created_at >= $%d", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		addArg("mp.created_at <= $%d", *filter.CreatedTo)
	}

	orderBy := "mp.created_at DESC"
	if filter.SortByDaysOpen {
		// períodos pendentes mais antigos primeiro
		addArg("mp.status = $%d", domain.StatusAguardando)
		orderBy = "mp.created_at ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT
			mp.id,
			mp.doctor_id,
			d.name,
			mp.start_date,
			mp.end_date,
			mp.status,
			mp.priority,
			mp.deadline,
			mp.public_token,
			mp.created_at,
			mp.created_by,
			mp.responded_at,
			mp.version
		FROM macro_periods mp
		JOIN doctors d ON d.id = mp.doctor_id
		WHERE %s
		ORDER BY %s
		LIMIT %d OFFSET %d
	`, strings.Join(conditions, " AND "), orderBy, limit, filter.Offset)

	return r.queryMacroPeriods(ctx, query, args...)
}

// ListMacroPeriodsCreatedBetween alimenta o dashboard.
func (r *Repository) ListMacroPeriodsCreatedBetween(from, to time.Time) ([]*domain.MacroPeriod, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			mp.id,
			mp.doctor_id,
			d.name,
			mp.start_date,
			mp.end_date,
			mp.status,
			mp.priority,
			mp.deadline,
			mp.public_token,
			mp.created_at,
			mp.created_by,
			mp.responded_at,
			mp.version
		FROM macro_periods mp
		JOIN doctors d ON d.id = mp.doctor_id
		WHERE mp.created_at >= $1 AND mp.created_at <= $2
	`

	return r.queryMacroPeriods(ctx, query, from, to)
}

func (r *Repository) queryMacroPeriods(ctx context.Context, query string, args ...any) ([]*domain.MacroPeriod, error) {
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := []*domain.MacroPeriod{}
	for rows.Next() {
		p := &domain.MacroPeriod{}
		dst := []any{
			&p.ID,
			&p.DoctorID,
			&p.DoctorName,
			&p.StartDate,
			&p.EndDate,
			&p.Status,
			&p.Priority,
			&p.Deadline,
			&p.PublicToken,
			&p.CreatedAt,
			&p.CreatedBy,
			&p.RespondedAt,
			&p.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}

	return periods, rows.Err()
}

// UpdateMacroPeriodStatus aplica uma transição administrativa junto com o seu
// evento de auditoria, na mesma transação.
func (r *Repository) UpdateMacroPeriodStatus(p *domain.MacroPeriod, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE macro_periods
		SET status = $1, responded_at = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, p.Status, p.RespondedAt, p.ID, p.Version).Scan(&p.Version); err != nil {
		return err
	}

	if err := insertAuditEventTx(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit()
}

// ReplaceAllocations troca o conjunto de unidades do período e descarta as
// seleções existentes, que deixam de fazer sentido.
func (r *Repository) ReplaceAllocations(p *domain.MacroPeriod, allocations []domain.UnitAllocation, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM macro_period_selections WHERE macro_period_id = $1`, p.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM macro_period_units WHERE macro_period_id = $1`, p.ID); err != nil {
		return err
	}

	for i := range allocations {
		alloc := &allocations[i]
		alloc.MacroPeriodID = p.ID
		alloc.OrderPosition = int32(i + 1)

		query := `
			INSERT INTO macro_period_units (macro_period_id, unit_id, total_days, order_position)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, p.ID, alloc.UnitID, alloc.TotalDays, alloc.OrderPosition).Scan(&alloc.ID); err != nil {
			return err
		}
	}

	query := `
		UPDATE macro_periods
		SET version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, p.ID, p.Version).Scan(&p.Version); err != nil {
		return err
	}

	if err := insertAuditEventTx(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	p.Allocations = allocations
	p.Selections = nil
	return nil
}

// ApplySubmission implementa period.Store: substitui o conjunto de seleções,
// avança o status e anexa o evento de auditoria como uma unidade atômica.
func (r *Repository) ApplySubmission(periodID int64, version int32, selections []domain.Selection, status domain.MacroPeriodStatus, respondedAt *time.Time, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM macro_period_selections WHERE macro_period_id = $1`, periodID); err != nil {
		return err
	}

	for _, sel := range selections {
		var customStart, customEnd, blockID *string
		if sel.Slot.Custom != nil {
			customStart = &sel.Slot.Custom.Start
			customEnd = &sel.Slot.Custom.End
		}
		if sel.BlockID != "" {
			blockID = &sel.BlockID
		}

		query := `
			INSERT INTO macro_period_selections (macro_period_id, macro_period_unit_id, date, slot_kind, custom_start, custom_end, block_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		args := []any{periodID, sel.AllocationID, sel.Date, sel.Slot.Kind, customStart, customEnd, blockID}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	query := `
		UPDATE macro_periods
		SET status = $1, responded_at = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`
	var newVersion int32
	if err := tx.QueryRowContext(ctx, query, status, respondedAt, periodID, version).Scan(&newVersion); err != nil {
		return err
	}

	if err := insertAuditEventTx(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit()
}

func insertAuditEventTx(ctx context.Context, tx *sql.Tx, event *domain.AuditEvent) error {
	var payload []byte
	if event.Payload != nil {
		var err error
		if payload, err = json.Marshal(event.Payload); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_events (macro_period_id, kind, payload, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return tx.QueryRowContext(ctx, query, event.MacroPeriodID, event.Kind, payload, event.CreatedBy).Scan(&event.ID, &event.CreatedAt)
}
