package repository

import (
	"context"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

func (r *Repository) InsertAdminEditEvidence(evidence *domain.AdminEditEvidence) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO admin_edit_evidences (macro_period_id, file_path, original_filename, file_size, mime_type, notes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, uploaded_at
	`
	args := []any{evidence.MacroPeriodID, evidence.FilePath, evidence.OriginalFilename, evidence.FileSize, evidence.MimeType, evidence.Notes, evidence.UploadedBy}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&evidence.ID, &evidence.UploadedAt)
}

func (r *Repository) GetAdminEditEvidenceByID(id int64) (*domain.AdminEditEvidence, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT macro_period_id, file_path, original_filename, file_size, mime_type, notes, uploaded_by, uploaded_at
		FROM admin_edit_evidences WHERE id = $1
	`

	evidence := &domain.AdminEditEvidence{ID: id}
	dst := []any{&evidence.MacroPeriodID, &evidence.FilePath, &evidence.OriginalFilename, &evidence.FileSize, &evidence.MimeType, &evidence.Notes, &evidence.UploadedBy, &evidence.UploadedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return evidence, nil
}

func (r *Repository) GetAdminEditEvidences(periodID int64) ([]*domain.AdminEditEvidence, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, macro_period_id, file_path, original_filename, file_size, mime_type, notes, uploaded_by, uploaded_at
		FROM admin_edit_evidences
		WHERE macro_period_id = $1
		ORDER BY uploaded_at DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	evidences := []*domain.AdminEditEvidence{}
	for rows.Next() {
		evidence := &domain.AdminEditEvidence{}
		dst := []any{&evidence.ID, &evidence.MacroPeriodID, &evidence.FilePath, &evidence.OriginalFilename, &evidence.FileSize, &evidence.MimeType, &evidence.Notes, &evidence.UploadedBy, &evidence.UploadedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		evidences = append(evidences, evidence)
	}

	return evidences, rows.Err()
}
