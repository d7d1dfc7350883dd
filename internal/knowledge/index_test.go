package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFlatIndexSearchOrdering(t *testing.T) {
	ix := newFlatIndex(3)
	vectors := [][]float32{
		{10, 0, 0},
		{1, 0, 0},
		{5, 0, 0},
	}
	if err := ix.AddBatch(vectors); err != nil {
		t.Fatalf("AddBatch failed: %v", err)
	}

	ids, dists, err := ix.Search([]float32{0, 0, 0}, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	wantIDs := []int{1, 2, 0}
	for i, want := range wantIDs {
		if ids[i] != want {
			t.Errorf("result %d: got ordinal %d, want %d", i, ids[i], want)
		}
	}
	for i := 1; i < len(dists); i++ {
		if dists[i] < dists[i-1] {
			t.Errorf("distances not ascending: %v", dists)
		}
	}
	// Squared L2: vector {1,0,0} against the origin.
	if dists[0] != 1 {
		t.Errorf("got distance %v, want 1", dists[0])
	}
}

func TestFlatIndexSearchClampsK(t *testing.T) {
	ix := newFlatIndex(2)
	if err := ix.Add([]float32{1, 2}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	ids, _, err := ix.Search([]float32{0, 0}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("got %d results, want 1", len(ids))
	}
}

func TestFlatIndexSearchEmpty(t *testing.T) {
	ix := newFlatIndex(2)
	ids, dists, err := ix.Search([]float32{0, 0}, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 0 || len(dists) != 0 {
		t.Errorf("expected empty results, got %v / %v", ids, dists)
	}
}

func TestFlatIndexDimensionMismatch(t *testing.T) {
	ix := newFlatIndex(3)
	if err := ix.Add([]float32{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Add: got %v, want ErrDimensionMismatch", err)
	}
	if _, _, err := ix.Search([]float32{1}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Search: got %v, want ErrDimensionMismatch", err)
	}

	// A bad vector anywhere in a batch must leave the index unchanged.
	err := ix.AddBatch([][]float32{{1, 2, 3}, {1, 2}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("AddBatch: got %v, want ErrDimensionMismatch", err)
	}
	if ix.Size() != 0 {
		t.Errorf("index size after failed batch: got %d, want 0", ix.Size())
	}
}

func TestFlatIndexFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vectors.index")

	ix := newFlatIndex(2)
	if err := ix.AddBatch([][]float32{{1, 2}, {3, 4}, {5, 6}}); err != nil {
		t.Fatalf("AddBatch failed: %v", err)
	}
	if err := ix.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := readIndexFile(path, 2)
	if err != nil {
		t.Fatalf("readIndexFile failed: %v", err)
	}
	if loaded.Size() != 3 {
		t.Fatalf("got size %d, want 3", loaded.Size())
	}
	for i, v := range ix.vectors {
		if loaded.vectors[i] != v {
			t.Fatalf("vector value %d: got %v, want %v", i, loaded.vectors[i], v)
		}
	}
}

func TestReadIndexFileRejectsCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vectors.index")
	if err := os.WriteFile(path, []byte("not an index"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := readIndexFile(path, 2); !errors.Is(err, ErrCorruptStore) {
		t.Errorf("got %v, want ErrCorruptStore", err)
	}
}

func TestReadIndexFileRejectsWrongDimension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vectors.index")

	ix := newFlatIndex(4)
	if err := ix.Add([]float32{1, 2, 3, 4}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := ix.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := readIndexFile(path, 8); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}
