package scan

import "errors"

// Rejection outcomes of the ingestion protocol. These are expected, frequent
// results, not server faults; handlers map them to normal responses.
var (
	ErrInvalidBarcode = errors.New("invalid barcode")
	ErrInvalidSession = errors.New("unknown inventory session")
	ErrUnknownProduct = errors.New("product not in catalog")
	ErrDuplicateScan  = errors.New("barcode already scanned in this session")
)

// Reason returns the wire label for a rejection error, or "" for anything
// that is not a rejection.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidBarcode):
		return "InvalidBarcode"
	case errors.Is(err, ErrInvalidSession):
		return "InvalidSession"
	case errors.Is(err, ErrUnknownProduct):
		return "UnknownProduct"
	case errors.Is(err, ErrDuplicateScan):
		return "DuplicateScan"
	}
	return ""
}
