package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrk/fin_tracker_app/internal/apperrors"
	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portsrepo "github.com/fintrk/fin_tracker_app/internal/core/ports/repositories"
	"github.com/fintrk/fin_tracker_app/internal/models"
	"github.com/fintrk/fin_tracker_app/internal/utils/mapping"
)

type PgxReportRepository struct {
	BaseRepository
}

// newPgxReportRepository creates a new repository for report records.
func newPgxReportRepository(pool *pgxpool.Pool) portsrepo.ReportResultRepositoryFacade {
	return &PgxReportRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ReportResultRepositoryFacade = (*PgxReportRepository)(nil)

// SaveReportResult persists a new record in the in_progress state.
func (r *PgxReportRepository) SaveReportResult(ctx context.Context, result domain.ReportResult) error {
	m := mapping.ToModelReportResult(result)
	query := `
		INSERT INTO report_results (report_id, user_id, task_id, report_path, send_email, status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReportID,
		m.UserID,
		m.TaskID,
		m.ReportPath,
		m.SendEmail,
		m.Status,
		m.ErrorMessage,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report record %s: %w", m.ReportID, err)
	}
	return nil
}

// UpdateReportResult stores the terminal status, report path and error message.
func (r *PgxReportRepository) UpdateReportResult(ctx context.Context, result domain.ReportResult) error {
	m := mapping.ToModelReportResult(result)
	query := `
		UPDATE report_results
		SET report_path = $2, status = $3, error_message = $4
		WHERE report_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.ReportID, m.ReportPath, m.Status, m.ErrorMessage)
	if err != nil {
		return fmt.Errorf("failed to update report record %s: %w", m.ReportID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindReportResultByTaskID retrieves the record for a job handle.
func (r *PgxReportRepository) FindReportResultByTaskID(ctx context.Context, taskID string) (*domain.ReportResult, error) {
	query := `
		SELECT report_id, user_id, task_id, report_path, send_email, status, error_message, created_at
		FROM report_results
		WHERE task_id = $1;
	`
	var m models.ReportResult
	err := r.Pool.QueryRow(ctx, query, taskID).Scan(
		&m.ReportID,
		&m.UserID,
		&m.TaskID,
		&m.ReportPath,
		&m.SendEmail,
		&m.Status,
		&m.ErrorMessage,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find report record by task id %s: %w", taskID, err)
	}
	d := mapping.ToDomainReportResult(m)
	return &d, nil
}
