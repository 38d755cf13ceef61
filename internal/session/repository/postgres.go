package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/yassirh/stocktake-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, createdAt time.Time) (*model.InventorySession, error) {
	var s model.InventorySession
	query := `INSERT INTO inventory_sessions (created_at) VALUES ($1) RETURNING id, created_at`
	err := r.DB.GetContext(ctx, &s, query, createdAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.InventorySession, error) {
	var s model.InventorySession
	query := `SELECT id, created_at FROM inventory_sessions WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindLatestSince(ctx context.Context, since time.Time) (*model.InventorySession, error) {
	var s model.InventorySession
	query := `
		SELECT id, created_at FROM inventory_sessions
		WHERE created_at >= $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	err := r.DB.GetContext(ctx, &s, query, since)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) CountPerMonth(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := r.DB.QueryxContext(ctx, `
		SELECT to_char(created_at, 'YYYY-MM') AS month, count(*) AS n
		FROM inventory_sessions
		WHERE created_at >= $1
		GROUP BY 1
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var month string
		var n int
		if err := rows.Scan(&month, &n); err != nil {
			return nil, err
		}
		counts[month] = n
	}
	return counts, rows.Err()
}

func (r *PGRepository) ListWithScanCounts(ctx context.Context) ([]model.SessionSummary, error) {
	var sessions []model.SessionSummary
	query := `
		SELECT s.id, s.created_at, count(e.id) AS scan_count
		FROM inventory_sessions s
		LEFT JOIN scan_events e ON e.session_id = s.id
		GROUP BY s.id, s.created_at
		ORDER BY s.created_at DESC, s.id DESC
	`
	err := r.DB.SelectContext(ctx, &sessions, query)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
