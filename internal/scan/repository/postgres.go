package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx"
	"github.com/jmoiron/sqlx"
	"github.com/yassirh/stocktake-service/internal/model"
	"github.com/yassirh/stocktake-service/internal/scan"
	"github.com/yassirh/stocktake-service/internal/scan/dto"
)

// Postgres class 23505: unique_violation.
const uniqueViolationCode = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Insert(ctx context.Context, event *model.ScanEvent) error {
	query := `
        INSERT INTO scan_events (id, session_id, barcode, depot, scanned_at)
        VALUES (:id, :session_id, :barcode, :depot, :scanned_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, event)
	if err != nil {
		if isUniqueViolation(err) {
			// Two concurrent scans of the same barcode raced past the
			// pre-check; the constraint is the authoritative arbiter.
			return scan.ErrDuplicateScan
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgx.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return false
}

func (r *PGRepository) Exists(ctx context.Context, sessionID int64, barcode string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM scan_events WHERE session_id = $1 AND barcode = $2`
	err := r.DB.GetContext(ctx, &count, query, sessionID, barcode)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PGRepository) ListBySession(ctx context.Context, sessionID int64) ([]model.ScanEvent, error) {
	var events []model.ScanEvent
	query := `SELECT * FROM scan_events WHERE session_id = $1 ORDER BY scanned_at ASC, id ASC`
	err := r.DB.SelectContext(ctx, &events, query, sessionID)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *PGRepository) ListAll(ctx context.Context, f *dto.ScanFilters) ([]model.ScanEvent, error) {
	query := `SELECT e.* FROM scan_events e`
	conditions := []string{}
	args := []interface{}{}

	if f != nil && f.Model != "" {
		query += ` JOIN products p ON p.barcode = e.barcode`
		args = append(args, "%"+f.Model+"%")
		conditions = append(conditions, `p.model ILIKE ?`)
	}
	if f != nil && f.Day != nil {
		dayStart := time.Date(f.Day.Year(), f.Day.Month(), f.Day.Day(), 0, 0, 0, 0, f.Day.Location())
		args = append(args, dayStart, dayStart.AddDate(0, 0, 1))
		conditions = append(conditions, `e.scanned_at >= ?`, `e.scanned_at < ?`)
	}

	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY e.scanned_at DESC`
	query = r.DB.Rebind(query)

	var events []model.ScanEvent
	err := r.DB.SelectContext(ctx, &events, query, args...)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return events, nil
}

func (r *PGRepository) DeleteBySession(ctx context.Context, sessionID int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM scan_events WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
