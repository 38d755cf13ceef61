// Command scanner is the operator-side scan client. It binds a barcode
// reader (any HID scanner presenting as a keyboard, or a person typing),
// opens today's inventory session on the server and streams candidates
// through the detection state machine.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/yassirh/stocktake-service/internal/scanner"
	"github.com/yassirh/stocktake-service/internal/scanner/client"
	"github.com/yassirh/stocktake-service/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	var (
		serverURL = flag.String("server", envOr("STOCKTAKE_SERVER", "http://localhost:8080"), "ingestion server base URL")
		depot     = flag.String("depot", "", "depot override recorded on every scan (defaults to each product's depot)")
		sessionID = flag.Int64("session", 0, "inventory session id (0 = create or resume today's)")
		cooldown  = flag.Duration("cooldown", scanner.DefaultCooldown, "pause after each recognized barcode")
	)
	flag.Parse()

	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment: true,
		Encoding:      "console",
		Level:         "info",
	})
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := client.New(*serverURL)

	sid := *sessionID
	if sid == 0 {
		var resumed bool
		var err error
		sid, resumed, err = api.OpenSession(ctx)
		if err != nil {
			appLogger.Fatal("could not open inventory session", zap.Error(err))
		}
		if resumed {
			appLogger.Info("resumed today's session", zap.Int64("session_id", sid))
		} else {
			appLogger.Info("started new session", zap.Int64("session_id", sid))
		}
	}

	device := newConsoleDevice(os.Stdin)
	machine := scanner.NewMachine(device, device, api, scanner.Config{
		SessionID: sid,
		Depot:     *depot,
		Cooldown:  *cooldown,
	}, appLogger)

	if err := machine.Start(ctx); err != nil {
		appLogger.Fatal("scanner failed to start", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	fmt.Printf("Scanning into session #%d — present barcodes (Ctrl+C to stop)\n", sid)

	for {
		select {
		case <-quit:
			machine.Stop()
			fmt.Println("\nScanner stopped.")
			return
		case res, ok := <-machine.Results():
			if !ok {
				if machine.State() == scanner.StateError {
					appLogger.Fatal("scanner halted", zap.String("state", machine.State().String()))
				}
				return
			}
			printResult(res)
		}
	}
}

func printResult(res scanner.Result) {
	switch {
	case res.Err != nil:
		fmt.Printf("  ✗ %s — not recorded (%v), keep scanning\n", res.Barcode, res.Err)
	case res.Outcome != nil && res.Outcome.Accepted:
		fmt.Printf("  ✓ +1 %s (%s)\n", res.Outcome.Label, res.Barcode)
	case res.Outcome != nil:
		fmt.Printf("  ✗ %s — %s\n", res.Barcode, res.Outcome.Reason)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// consoleDevice adapts a line-oriented reader (wedge scanners type the code
// followed by Enter) to the Camera and Decoder interfaces.
type consoleDevice struct {
	src   io.Reader
	lines chan string
	errs  chan error
}

func newConsoleDevice(src io.Reader) *consoleDevice {
	return &consoleDevice{
		src:   src,
		lines: make(chan string),
		errs:  make(chan error, 1),
	}
}

func (d *consoleDevice) Acquire(ctx context.Context) error {
	go func() {
		sc := bufio.NewScanner(d.src)
		for sc.Scan() {
			select {
			case d.lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			d.errs <- err
			return
		}
		d.errs <- io.EOF
	}()
	return nil
}

func (d *consoleDevice) Release() {
	// Nothing to release for a console reader; the pump goroutine exits
	// with the machine context.
}

func (d *consoleDevice) Decode(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-d.errs:
		if errors.Is(err, io.EOF) {
			return "", errors.New("input closed")
		}
		return "", err
	case line := <-d.lines:
		return line, nil
	}
}
