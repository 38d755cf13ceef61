package model

import "time"

// ScanEvent is one accepted scan, recorded append-only against a session.
// (session_id, barcode) is unique at the storage level.
type ScanEvent struct {
	ID        string    `db:"id" json:"id"`
	SessionID int64     `db:"session_id" json:"session_id"`
	Barcode   string    `db:"barcode" json:"barcode"`
	Depot     string    `db:"depot" json:"depot"`
	ScannedAt time.Time `db:"scanned_at" json:"scanned_at"`
}
