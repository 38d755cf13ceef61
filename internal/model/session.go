package model

import "time"

// InventorySession is one stocktaking pass. Sessions are immutable once
// created; there is no stored "closed" state.
type InventorySession struct {
	ID        int64     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SessionSummary is a session augmented with its scan count for listings.
type SessionSummary struct {
	ID        int64     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ScanCount int       `db:"scan_count" json:"scan_count"`
}
