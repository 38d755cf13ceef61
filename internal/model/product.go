package model

// Product is a catalog record keyed by barcode. The catalog is owned by an
// external editing tool; this service only reads it.
type Product struct {
	Barcode     string   `db:"barcode" json:"barcode"`
	Brand       *string  `db:"brand" json:"brand"`
	Model       *string  `db:"model" json:"model"`
	Capacity    *string  `db:"capacity" json:"capacity"`
	Color       *string  `db:"color" json:"color"`
	Depot       *string  `db:"depot" json:"depot"` // default depot, overridable at scan time
	UnitPrice   *float64 `db:"unit_price" json:"unit_price"`
	Quantity    int      `db:"quantity" json:"quantity"` // units per scanned device, >= 1
	Description *string  `db:"description" json:"description"`
}

// UnknownLabel substitutes for missing catalog attributes in reports.
const UnknownLabel = "Inconnu"

// StringOr dereferences s, falling back when nil or empty.
func StringOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
