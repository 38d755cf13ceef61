package model

import "time"

// AggregateGroup is one row of a session report, keyed by product attributes
// plus the depot actually recorded on the scan.
type AggregateGroup struct {
	Model         string `json:"model"`
	Capacity      string `json:"capacity"`
	Color         string `json:"color"`
	Depot         string `json:"depot"`
	DeviceCount   int    `json:"device_count"`
	QuantityTotal int    `json:"quantity_total"`
}

// Report is recomputed on every request; it is never persisted.
type Report struct {
	SessionID   int64            `json:"session_id"`
	Groups      []AggregateGroup `json:"groups"`
	TotalDepotA int              `json:"total_depot_a"`
	TotalDepotB int              `json:"total_depot_b"`
	GrandTotal  int              `json:"grand_total"`
	DeviceCount int              `json:"device_count"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// DashboardStats are global frequencies across every recorded scan.
type DashboardStats struct {
	SessionsPerMonth   map[string]int `json:"sessions_per_month"` // "YYYY-MM" -> count
	ScansByModel       map[string]int `json:"scans_by_model"`
	ScansByColor       map[string]int `json:"scans_by_color"`
	ScansByDepot       map[string]int `json:"scans_by_depot"`
	MostFrequentModel  string         `json:"most_frequent_model"`
	LeastFrequentModel string         `json:"least_frequent_model"`
	MostFrequentColor  string         `json:"most_frequent_color"`
	MostFrequentDepot  string         `json:"most_frequent_depot"`
	TotalScans         int            `json:"total_scans"`
}
