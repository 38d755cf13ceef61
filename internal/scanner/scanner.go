// Package scanner drives a continuous barcode detection loop against a
// camera device. Decoding itself is an external capability; this package
// owns the state machine around it: acquiring the device, pausing after
// each read so one physical item is not recorded twice, and recovering
// from per-scan failures without dropping the session.
package scanner

import (
	"context"
	"time"
)

// State of the detection machine.
type State int32

const (
	StateIdle State = iota
	StateAcquiring
	StateActive
	StateCooldown
	StateStopped
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateActive:
		return "active"
	case StateCooldown:
		return "cooldown"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Camera is the physical device. Acquire may block on hardware permission;
// Release must be safe to call exactly once after a successful Acquire.
type Camera interface {
	Acquire(ctx context.Context) error
	Release()
}

// Decoder evaluates frames and blocks until it recognizes a candidate
// barcode string. Raw output is unsanitized decoder text.
type Decoder interface {
	Decode(ctx context.Context) (string, error)
}

// Outcome of one ingestion attempt.
type Outcome struct {
	Accepted bool
	Reason   string // rejection label when not accepted
	Label    string // operator-facing description of the product
}

// Ingester submits a sanitized candidate to the ingestion gateway.
type Ingester interface {
	Ingest(ctx context.Context, barcode string, sessionID int64, depot string) (*Outcome, error)
}

// Result is what the machine reports to its caller for each processed
// candidate. Err is set for transient ingestion failures; the loop has
// already resumed when the caller sees it.
type Result struct {
	Barcode string
	Outcome *Outcome
	Err     error
	At      time.Time
}

// Config for a detection machine.
type Config struct {
	SessionID int64
	Depot     string // optional per-scan depot override

	// Cooldown is the pause after each recognized candidate. Values below
	// 500ms re-read the same physical item at typical frame rates.
	Cooldown time.Duration
}

// DefaultCooldown matches a hand-held sweep past a single device.
const DefaultCooldown = 600 * time.Millisecond
