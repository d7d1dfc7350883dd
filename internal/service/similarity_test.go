package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jasonqian/suppliermatch/internal/domain"
	"github.com/jasonqian/suppliermatch/internal/knowledge"
)

// fakeEmbedder maps known texts to fixed vectors.
type fakeEmbedder struct {
	dim     int
	vectors map[string][]float32
	failOn  map[string]bool
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.failOn[text] {
		return nil, errors.New("embedding unavailable")
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	// Unknown text gets a far-away unit vector.
	v := make([]float32, f.dim)
	v[f.dim-1] = 100
	return v, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int { return f.dim }

func newTestKnowledge(t *testing.T) (*SupplierKnowledge, *knowledge.Store, *fakeEmbedder) {
	t.Helper()
	store, err := knowledge.Open(knowledge.Config{Dir: t.TempDir(), Dimension: 4}, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	embedder := &fakeEmbedder{
		dim:     4,
		vectors: map[string][]float32{},
		failOn:  map[string]bool{},
	}
	return NewSupplierKnowledge(store, embedder), store, embedder
}

func TestSearchSimilarityConversion(t *testing.T) {
	svc, store, embedder := newTestKnowledge(t)

	// One record at distance 0, one at squared distance 4.
	if err := store.AddBatch(
		[]domain.SupplierRecord{
			{CompanyName: "Exact Match Co"},
			{CompanyName: "Near Miss Ltd"},
		},
		[][]float32{{1, 0, 0, 0}, {1, 2, 0, 0}},
	); err != nil {
		t.Fatalf("AddBatch failed: %v", err)
	}
	embedder.vectors["query"] = []float32{1, 0, 0, 0}

	matches, err := svc.Search(context.Background(), "query", 5, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}

	if matches[0].Similarity != 1 {
		t.Errorf("exact match similarity: got %v, want 1", matches[0].Similarity)
	}
	want := math.Round(math.Exp(-4.0/10)*1000) / 1000
	if matches[1].Similarity != want {
		t.Errorf("similarity: got %v, want %v", matches[1].Similarity, want)
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Error("closer record must score higher")
	}
}

func TestSearchFiltersByMinSimilarity(t *testing.T) {
	svc, store, embedder := newTestKnowledge(t)

	if err := store.AddBatch(
		[]domain.SupplierRecord{
			{CompanyName: "Close Co"},
			{CompanyName: "Far Inc"},
		},
		[][]float32{{1, 0, 0, 0}, {9, 0, 0, 0}},
	); err != nil {
		t.Fatalf("AddBatch failed: %v", err)
	}
	embedder.vectors["query"] = []float32{1, 0, 0, 0}

	matches, err := svc.Search(context.Background(), "query", 5, 0.5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1 above threshold", len(matches))
	}
	if matches[0].CompanyName != "Close Co" {
		t.Errorf("got %q", matches[0].CompanyName)
	}
}

func TestSearchThresholdUsesRawSimilarity(t *testing.T) {
	svc, store, embedder := newTestKnowledge(t)

	// Squared distance 2.634^2 ≈ 6.938 gives a raw similarity of ~0.49967,
	// which rounds to 0.500. The cut must happen before rounding.
	if err := store.AddBatch(
		[]domain.SupplierRecord{{CompanyName: "Borderline Co"}},
		[][]float32{{1, 2.634, 0, 0}},
	); err != nil {
		t.Fatalf("AddBatch failed: %v", err)
	}
	embedder.vectors["query"] = []float32{1, 0, 0, 0}

	matches, err := svc.Search(context.Background(), "query", 5, 0.5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("got %d matches, want 0: raw similarity is below the threshold", len(matches))
	}

	matches, err = svc.Search(context.Background(), "query", 5, 0.499)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Similarity != 0.5 {
		t.Errorf("reported similarity: got %v, want 0.5 after rounding", matches[0].Similarity)
	}
}

func TestSearchEmptyStore(t *testing.T) {
	svc, _, _ := newTestKnowledge(t)
	matches, err := svc.Search(context.Background(), "anything", 5, 0.5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if matches != nil {
		t.Errorf("expected nil on empty store, got %v", matches)
	}
}

func TestAddCandidatesSkipsFailedEmbeddings(t *testing.T) {
	svc, store, embedder := newTestKnowledge(t)

	fixed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	good := domain.Candidate{Title: "Good Co", Source: domain.SourceWeb}
	bad := domain.Candidate{Title: "Bad Co", Source: domain.SourceWeb}
	embedder.vectors[knowledge.BuildDocument(good)] = []float32{1, 0, 0, 0}
	embedder.failOn[knowledge.BuildDocument(bad)] = true

	count, err := svc.AddCandidates(context.Background(), []domain.Candidate{good, bad})
	if err != nil {
		t.Fatalf("AddCandidates failed: %v", err)
	}
	if count != 1 {
		t.Errorf("persisted %d, want 1", count)
	}
	if store.Size() != 1 {
		t.Errorf("store size: got %d, want 1", store.Size())
	}
	rec, _ := store.Record(0)
	if rec.CompanyName != "Good Co" {
		t.Errorf("stored record: got %q", rec.CompanyName)
	}
	if rec.AddDate != "2025-06-01" {
		t.Errorf("add date: got %q", rec.AddDate)
	}
}

func TestAddCandidatesEmpty(t *testing.T) {
	svc, _, _ := newTestKnowledge(t)
	count, err := svc.AddCandidates(context.Background(), nil)
	if err != nil || count != 0 {
		t.Errorf("got count=%d err=%v, want 0, nil", count, err)
	}
}
