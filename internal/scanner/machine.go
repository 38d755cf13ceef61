package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yassirh/stocktake-service/internal/barcode"
	"github.com/yassirh/stocktake-service/pkg/logger"
	"go.uber.org/zap"
)

// ErrCameraUnavailable wraps acquisition failures: permission denied, device
// absent, decoder init failure. Terminal for the attempt; the operator
// retries by starting a new machine.
var ErrCameraUnavailable = errors.New("camera unavailable")

// Machine is the detection state machine. One machine owns one camera and
// one detection loop; only one ingestion call is in flight at a time.
type Machine struct {
	camera   Camera
	decoder  Decoder
	ingester Ingester
	cfg      Config
	logger   logger.ZapLogger

	state   atomic.Int32
	results chan Result

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
	stopped   atomic.Bool
}

func NewMachine(camera Camera, decoder Decoder, ingester Ingester, cfg Config, log logger.ZapLogger) *Machine {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	m := &Machine{
		camera:   camera,
		decoder:  decoder,
		ingester: ingester,
		cfg:      cfg,
		logger:   log,
		results:  make(chan Result, 16),
	}
	m.state.Store(int32(StateIdle))
	return m
}

// State returns the current machine state.
func (m *Machine) State() State {
	return State(m.state.Load())
}

// Results delivers one entry per processed candidate. Closed when the loop
// exits.
func (m *Machine) Results() <-chan Result {
	return m.results
}

// Start acquires the camera and launches the detection loop. It returns an
// ErrCameraUnavailable-wrapped error when acquisition fails; per-scan
// failures never surface here.
func (m *Machine) Start(ctx context.Context) error {
	if m.stopped.Load() {
		return errors.New("scanner: machine already stopped")
	}

	var startErr error
	started := false

	m.startOnce.Do(func() {
		m.ctx, m.cancel = context.WithCancel(ctx)

		m.setState(StateAcquiring)
		if err := m.camera.Acquire(m.ctx); err != nil {
			m.setState(StateError)
			m.cancel()
			close(m.results)
			startErr = fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
			return
		}

		m.setState(StateActive)
		m.wg.Add(1)
		go m.run()
		started = true
	})

	if startErr != nil {
		return startErr
	}
	if !started && m.State() != StateStopped {
		return errors.New("scanner: machine already started")
	}
	return nil
}

// Stop tears the machine down from any state. Safe to call repeatedly and
// concurrently with an in-flight ingestion; that ingestion's completion
// cannot restart the loop because the loop context is already cancelled.
func (m *Machine) Stop() {
	m.stopOnce.Do(func() {
		m.stopped.Store(true)
		if m.cancel != nil {
			m.cancel()
		}
		m.wg.Wait()
	})
}

// run is the detection loop. The camera release is deferred so it happens on
// every exit path, panics included.
func (m *Machine) run() {
	defer m.wg.Done()
	defer close(m.results)
	defer m.camera.Release()
	defer func() {
		if m.State() != StateError {
			m.setState(StateStopped)
		}
	}()

	for {
		if m.ctx.Err() != nil {
			return
		}

		raw, err := m.decoder.Decode(m.ctx)
		if err != nil {
			if m.ctx.Err() != nil {
				return
			}
			// A decoder fault mid-session is a device failure, not noise.
			m.setState(StateError)
			m.logger.Error("decoder failed", zap.Error(err))
			return
		}

		code := barcode.Sanitize(raw)
		if !barcode.Valid(code) {
			// Decoder noise: no transition, no ingestion, nothing reported.
			continue
		}

		m.setState(StateCooldown)
		m.submit(code)

		select {
		case <-m.ctx.Done():
			return
		case <-time.After(m.cfg.Cooldown):
		}
		m.setState(StateActive)
	}
}

// submit performs the single in-flight ingestion call for a candidate.
// Failures are transient: they are reported and the loop carries on.
func (m *Machine) submit(code string) {
	outcome, err := m.ingester.Ingest(m.ctx, code, m.cfg.SessionID, m.cfg.Depot)

	if m.ctx.Err() != nil {
		// Teardown raced the call; drop the result rather than touch a
		// machine that is already stopping.
		return
	}

	res := Result{Barcode: code, Outcome: outcome, Err: err, At: time.Now()}
	if err != nil {
		m.logger.Warn("scan not recorded", zap.String("barcode", code), zap.Error(err))
	}

	select {
	case m.results <- res:
	default:
		// Caller is not draining; losing a result beats stalling detection.
		m.logger.Warn("result dropped", zap.String("barcode", code))
	}
}

func (m *Machine) setState(s State) {
	m.state.Store(int32(s))
}
