package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jasonqian/suppliermatch/internal/domain"
)

func testRecord(name string) domain.SupplierRecord {
	return domain.SupplierRecord{
		CompanyName:       name,
		Category:          "consumer electronics",
		Website:           "https://example.com",
		MatchType:         domain.MatchTypeManufacturer,
		SupplierScore:     80,
		CooperationStatus: domain.StatusNotContacted,
		AddDate:           "2025-06-01",
		Source:            domain.SourceWeb,
	}
}

func openTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(Config{Dir: dir, Dimension: 4}, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func TestStoreOpenEmpty(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	if s.Size() != 0 {
		t.Errorf("got size %d, want 0", s.Size())
	}

	neighbors, err := s.Nearest([]float32{1, 0, 0, 0}, 5)
	if err != nil {
		t.Fatalf("Nearest on empty store failed: %v", err)
	}
	if len(neighbors) != 0 {
		t.Errorf("got %d neighbors, want 0", len(neighbors))
	}
}

func TestStoreLockStepInvariant(t *testing.T) {
	s := openTestStore(t, t.TempDir())

	if err := s.Add(testRecord("Acme Co"), []float32{1, 0, 0, 0}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.AddBatch(
		[]domain.SupplierRecord{testRecord("Beta Ltd"), testRecord("Gamma Inc")},
		[][]float32{{0, 1, 0, 0}, {0, 0, 1, 0}},
	); err != nil {
		t.Fatalf("AddBatch failed: %v", err)
	}

	if s.index.Size() != len(s.records) {
		t.Fatalf("lock-step broken: index %d, metadata %d", s.index.Size(), len(s.records))
	}
	if s.Size() != 3 {
		t.Errorf("got size %d, want 3", s.Size())
	}

	// A mismatched batch must not disturb either structure.
	err := s.AddBatch([]domain.SupplierRecord{testRecord("Delta")}, nil)
	if err == nil {
		t.Fatal("expected error for mismatched batch lengths")
	}
	if s.index.Size() != 3 || len(s.records) != 3 {
		t.Errorf("state changed after failed batch: index %d, metadata %d", s.index.Size(), len(s.records))
	}
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)

	records := []domain.SupplierRecord{testRecord("Acme Co"), testRecord("Beta Ltd"), testRecord("Gamma Inc")}
	vectors := [][]float32{{1, 0, 0, 0}, {0, 1, 0, 0}, {0.9, 0.1, 0, 0}}
	if err := s.AddBatch(records, vectors); err != nil {
		t.Fatalf("AddBatch failed: %v", err)
	}

	query := []float32{1, 0, 0, 0}
	before, err := s.Nearest(query, 3)
	if err != nil {
		t.Fatalf("Nearest failed: %v", err)
	}

	// Discard the in-memory instance and reload from disk.
	reloaded := openTestStore(t, dir)
	if reloaded.Size() != 3 {
		t.Fatalf("got size %d after reload, want 3", reloaded.Size())
	}
	for i, want := range records {
		got, ok := reloaded.Record(i)
		if !ok {
			t.Fatalf("record %d missing after reload", i)
		}
		if got != want {
			t.Errorf("record %d: got %+v, want %+v", i, got, want)
		}
	}

	after, err := reloaded.Nearest(query, 3)
	if err != nil {
		t.Fatalf("Nearest after reload failed: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("neighbor count changed after reload: %d vs %d", len(after), len(before))
	}
	for i := range before {
		if after[i].Ordinal != before[i].Ordinal {
			t.Errorf("neighbor %d: ordinal %d after reload, want %d", i, after[i].Ordinal, before[i].Ordinal)
		}
	}
}

func TestStoreOpenRejectsCorruptMetadata(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)
	if err := s.Add(testRecord("Acme Co"), []float32{1, 0, 0, 0}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, metadataFileName), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Open(Config{Dir: dir, Dimension: 4}, nil); !errors.Is(err, ErrCorruptStore) {
		t.Errorf("got %v, want ErrCorruptStore", err)
	}
}

func TestStoreOpenRejectsMissingCompanion(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)
	if err := s.Add(testRecord("Acme Co"), []float32{1, 0, 0, 0}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := os.Remove(filepath.Join(dir, metadataFileName)); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := Open(Config{Dir: dir, Dimension: 4}, nil); !errors.Is(err, ErrCorruptStore) {
		t.Errorf("got %v, want ErrCorruptStore", err)
	}
}

func TestStoreOpenRejectsDimensionMismatch(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)
	if err := s.Add(testRecord("Acme Co"), []float32{1, 0, 0, 0}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if _, err := Open(Config{Dir: dir, Dimension: 8}, nil); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestStoreAllRecordsIsSnapshot(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	if err := s.Add(testRecord("Acme Co"), []float32{1, 0, 0, 0}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	snapshot := s.AllRecords()
	snapshot[0].CompanyName = "Mutated"

	got, _ := s.Record(0)
	if got.CompanyName != "Acme Co" {
		t.Errorf("store record mutated through snapshot: %q", got.CompanyName)
	}
}

func TestStoreStatistics(t *testing.T) {
	s := openTestStore(t, t.TempDir())

	a := testRecord("Acme Co")
	b := testRecord("Beta Ltd")
	b.Category = "home goods"
	b.CooperationStatus = domain.StatusContacted
	c := testRecord("Gamma Inc")
	c.Category = ""

	if err := s.AddBatch(
		[]domain.SupplierRecord{a, b, c},
		[][]float32{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}},
	); err != nil {
		t.Fatalf("AddBatch failed: %v", err)
	}

	stats := s.Statistics()
	if stats.TotalCount != 3 {
		t.Errorf("total: got %d, want 3", stats.TotalCount)
	}
	if stats.Categories["consumer electronics"] != 1 {
		t.Errorf("consumer electronics: got %d, want 1", stats.Categories["consumer electronics"])
	}
	if stats.Categories["uncategorized"] != 1 {
		t.Errorf("uncategorized: got %d, want 1", stats.Categories["uncategorized"])
	}
	if stats.CooperationStatus[string(domain.StatusNotContacted)] != 2 {
		t.Errorf("not-contacted: got %d, want 2", stats.CooperationStatus[string(domain.StatusNotContacted)])
	}
	if stats.CooperationStatus[string(domain.StatusContacted)] != 1 {
		t.Errorf("contacted: got %d, want 1", stats.CooperationStatus[string(domain.StatusContacted)])
	}
}
