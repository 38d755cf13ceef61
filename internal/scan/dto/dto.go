package dto

import "time"

type IngestInput struct {
	Barcode   string // raw candidate; sanitized by the gateway
	SessionID int64
	Depot     string // optional operator override; product default when empty
}

// ScanFilters narrows the global scan listing.
type ScanFilters struct {
	Model string     // case-insensitive substring on the product model
	Day   *time.Time // calendar day of the scan
}

// ScanDetail is one ledger row joined against the catalog for listings.
// Missing catalog data degrades to fallback values, never to an error.
type ScanDetail struct {
	Barcode   string    `json:"barcode"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Capacity  string    `json:"capacity"`
	Color     string    `json:"color"`
	Depot     string    `json:"depot"` // depot recorded on the scan
	Quantity  int       `json:"quantity"`
	ScannedAt time.Time `json:"scanned_at"`
	SessionID int64     `json:"session_id"`
}
