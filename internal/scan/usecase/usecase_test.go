package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yassirh/stocktake-service/internal/model"
	"github.com/yassirh/stocktake-service/internal/scan"
	"github.com/yassirh/stocktake-service/internal/scan/dto"
	"github.com/yassirh/stocktake-service/pkg/logger"
)

// Mock scan.Repository: in-memory ledger enforcing the unique constraint.
type mockScanRepo struct {
	mu     sync.Mutex
	events map[string]model.ScanEvent
}

func newMockScanRepo() *mockScanRepo {
	return &mockScanRepo{events: make(map[string]model.ScanEvent)}
}

func ledgerKey(sessionID int64, barcode string) string {
	return fmt.Sprintf("%d:%s", sessionID, barcode)
}

func (m *mockScanRepo) Insert(ctx context.Context, e *model.ScanEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := ledgerKey(e.SessionID, e.Barcode)
	if _, ok := m.events[key]; ok {
		return scan.ErrDuplicateScan
	}
	m.events[key] = *e
	return nil
}

func (m *mockScanRepo) Exists(ctx context.Context, sessionID int64, barcode string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.events[ledgerKey(sessionID, barcode)]
	return ok, nil
}

func (m *mockScanRepo) ListBySession(ctx context.Context, sessionID int64) ([]model.ScanEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ScanEvent
	for _, e := range m.events {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockScanRepo) ListAll(ctx context.Context, f *dto.ScanFilters) ([]model.ScanEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ScanEvent
	for _, e := range m.events {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockScanRepo) DeleteBySession(ctx context.Context, sessionID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, e := range m.events {
		if e.SessionID == sessionID {
			delete(m.events, k)
			n++
		}
	}
	return n, nil
}

func (m *mockScanRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// Mock session.Repository with fixed sessions.
type mockSessionRepo struct {
	sessions map[int64]model.InventorySession
}

func newMockSessionRepo(ids ...int64) *mockSessionRepo {
	m := &mockSessionRepo{sessions: make(map[int64]model.InventorySession)}
	for _, id := range ids {
		m.sessions[id] = model.InventorySession{ID: id, CreatedAt: time.Now()}
	}
	return m
}

func (m *mockSessionRepo) Create(ctx context.Context, createdAt time.Time) (*model.InventorySession, error) {
	id := int64(len(m.sessions) + 1)
	s := model.InventorySession{ID: id, CreatedAt: createdAt}
	m.sessions[id] = s
	return &s, nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id int64) (*model.InventorySession, error) {
	if s, ok := m.sessions[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *mockSessionRepo) FindLatestSince(ctx context.Context, since time.Time) (*model.InventorySession, error) {
	return nil, nil
}

func (m *mockSessionRepo) ListWithScanCounts(ctx context.Context) ([]model.SessionSummary, error) {
	return nil, nil
}

func (m *mockSessionRepo) CountPerMonth(ctx context.Context, since time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

// Mock catalog.UseCase backed by a product map.
type mockCatalog struct {
	products map[string]model.Product
}

func (m *mockCatalog) GetProduct(ctx context.Context, barcode string) (*model.Product, error) {
	if p, ok := m.products[barcode]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *mockCatalog) GetProducts(ctx context.Context, barcodes []string) (map[string]model.Product, error) {
	out := make(map[string]model.Product)
	for _, b := range barcodes {
		if p, ok := m.products[b]; ok {
			out[b] = p
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func testProduct(barcode string) model.Product {
	return model.Product{
		Barcode:  barcode,
		Model:    strPtr("X1"),
		Capacity: strPtr("128GB"),
		Color:    strPtr("Black"),
		Depot:    strPtr("A"),
		Quantity: 1,
	}
}

func newGateway(repo *mockScanRepo, sessions *mockSessionRepo, cat *mockCatalog) scan.UseCase {
	return NewScanUseCase(repo, sessions, cat, nil, logger.NewNop())
}

func TestIngest_Accepted(t *testing.T) {
	repo := newMockScanRepo()
	cat := &mockCatalog{products: map[string]model.Product{"111222333": testProduct("111222333")}}
	uc := newGateway(repo, newMockSessionRepo(1), cat)

	p, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "111222333", SessionID: 1})
	if err != nil {
		t.Fatalf("expected accept, got %v", err)
	}
	if p == nil || p.Barcode != "111222333" {
		t.Fatalf("expected resolved product, got %+v", p)
	}
	if repo.count() != 1 {
		t.Errorf("expected 1 ledger row, got %d", repo.count())
	}
}

func TestIngest_DefaultDepotFromCatalog(t *testing.T) {
	repo := newMockScanRepo()
	cat := &mockCatalog{products: map[string]model.Product{"111222333": testProduct("111222333")}}
	uc := newGateway(repo, newMockSessionRepo(1), cat)

	if _, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "111222333", SessionID: 1}); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	e := repo.events[ledgerKey(1, "111222333")]
	if e.Depot != "A" {
		t.Errorf("expected depot A from catalog default, got %q", e.Depot)
	}
}

func TestIngest_DepotOverrideWins(t *testing.T) {
	repo := newMockScanRepo()
	cat := &mockCatalog{products: map[string]model.Product{"111222333": testProduct("111222333")}}
	uc := newGateway(repo, newMockSessionRepo(1), cat)

	if _, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "111222333", SessionID: 1, Depot: "Vente"}); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	e := repo.events[ledgerKey(1, "111222333")]
	if e.Depot != "Vente" {
		t.Errorf("expected operator depot override, got %q", e.Depot)
	}
}

func TestIngest_SanitationEquivalence(t *testing.T) {
	repo := newMockScanRepo()
	cat := &mockCatalog{products: map[string]model.Product{"12345678": testProduct("12345678")}}
	uc := newGateway(repo, newMockSessionRepo(1), cat)

	if _, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "  12-34 56 78 ", SessionID: 1}); err != nil {
		t.Fatalf("dirty barcode should ingest: %v", err)
	}

	_, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "12345678", SessionID: 1})
	if !errors.Is(err, scan.ErrDuplicateScan) {
		t.Errorf("clean form of same barcode should be a duplicate, got %v", err)
	}
}

func TestIngest_RejectsShortBarcode(t *testing.T) {
	repo := newMockScanRepo()
	uc := newGateway(repo, newMockSessionRepo(1), &mockCatalog{products: map[string]model.Product{}})

	_, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "12-34", SessionID: 1})
	if !errors.Is(err, scan.ErrInvalidBarcode) {
		t.Errorf("expected ErrInvalidBarcode, got %v", err)
	}
	if repo.count() != 0 {
		t.Error("rejection must not write to the ledger")
	}
}

func TestIngest_RejectsUnknownSession(t *testing.T) {
	repo := newMockScanRepo()
	cat := &mockCatalog{products: map[string]model.Product{"111222333": testProduct("111222333")}}
	uc := newGateway(repo, newMockSessionRepo(1), cat)

	_, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "111222333", SessionID: 42})
	if !errors.Is(err, scan.ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
}

func TestIngest_RejectsUnknownProduct(t *testing.T) {
	repo := newMockScanRepo()
	uc := newGateway(repo, newMockSessionRepo(1), &mockCatalog{products: map[string]model.Product{}})

	_, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "00000001", SessionID: 1})
	if !errors.Is(err, scan.ErrUnknownProduct) {
		t.Errorf("expected ErrUnknownProduct, got %v", err)
	}
	if repo.count() != 0 {
		t.Error("unknown product must not write to the ledger")
	}
}

func TestIngest_RejectsDuplicate(t *testing.T) {
	repo := newMockScanRepo()
	cat := &mockCatalog{products: map[string]model.Product{"111222333": testProduct("111222333")}}
	uc := newGateway(repo, newMockSessionRepo(1), cat)

	if _, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "111222333", SessionID: 1}); err != nil {
		t.Fatalf("first scan failed: %v", err)
	}

	_, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "111222333", SessionID: 1})
	if !errors.Is(err, scan.ErrDuplicateScan) {
		t.Errorf("expected ErrDuplicateScan, got %v", err)
	}
	if repo.count() != 1 {
		t.Errorf("expected exactly 1 ledger row, got %d", repo.count())
	}
}

func TestIngest_SameBarcodeDifferentSessions(t *testing.T) {
	repo := newMockScanRepo()
	cat := &mockCatalog{products: map[string]model.Product{"111222333": testProduct("111222333")}}
	uc := newGateway(repo, newMockSessionRepo(1, 2), cat)

	if _, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "111222333", SessionID: 1}); err != nil {
		t.Fatalf("session 1 scan failed: %v", err)
	}
	if _, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "111222333", SessionID: 2}); err != nil {
		t.Fatalf("same barcode in another session must be accepted: %v", err)
	}
}

// racyScanRepo reports Exists=false to every caller so concurrent requests
// all reach Insert; only the unique constraint stands between them.
type racyScanRepo struct {
	*mockScanRepo
}

func (r *racyScanRepo) Exists(ctx context.Context, sessionID int64, barcode string) (bool, error) {
	return false, nil
}

func TestIngest_ConcurrentDuplicates(t *testing.T) {
	repo := &racyScanRepo{newMockScanRepo()}
	cat := &mockCatalog{products: map[string]model.Product{"111222333": testProduct("111222333")}}
	uc := NewScanUseCase(repo, newMockSessionRepo(1), cat, nil, logger.NewNop())

	const workers = 32
	var wg sync.WaitGroup
	accepted := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "111222333", SessionID: 1})
			if err == nil {
				accepted <- struct{}{}
			} else if !errors.Is(err, scan.ErrDuplicateScan) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	close(accepted)

	var n int
	for range accepted {
		n++
	}
	if n != 1 {
		t.Errorf("expected exactly 1 accepted scan under concurrency, got %d", n)
	}
	if repo.count() != 1 {
		t.Errorf("expected exactly 1 ledger row, got %d", repo.count())
	}
}

// capturingPublisher records published messages.
type capturingPublisher struct {
	messages chan []byte
}

func (p *capturingPublisher) Publish(ctx context.Context, key, value []byte) error {
	p.messages <- value
	return nil
}

func TestIngest_PublishesAcceptedEvent(t *testing.T) {
	repo := newMockScanRepo()
	cat := &mockCatalog{products: map[string]model.Product{"111222333": testProduct("111222333")}}
	pub := &capturingPublisher{messages: make(chan []byte, 1)}
	uc := NewScanUseCase(repo, newMockSessionRepo(1), cat, pub, logger.NewNop())

	if _, err := uc.Ingest(context.Background(), &dto.IngestInput{Barcode: "111222333", SessionID: 1}); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	select {
	case msg := <-pub.messages:
		if len(msg) == 0 {
			t.Error("expected non-empty event payload")
		}
	case <-time.After(2 * time.Second):
		t.Error("accepted scan was never published")
	}
}

func TestReset_ReturnsDeletedCount(t *testing.T) {
	repo := newMockScanRepo()
	cat := &mockCatalog{products: map[string]model.Product{
		"111222333": testProduct("111222333"),
		"444555666": testProduct("444555666"),
	}}
	uc := newGateway(repo, newMockSessionRepo(1), cat)

	ctx := context.Background()
	uc.Ingest(ctx, &dto.IngestInput{Barcode: "111222333", SessionID: 1})
	uc.Ingest(ctx, &dto.IngestInput{Barcode: "444555666", SessionID: 1})

	deleted, err := uc.Reset(ctx, 1)
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}
	if repo.count() != 0 {
		t.Errorf("expected empty ledger after reset, got %d rows", repo.count())
	}
}
