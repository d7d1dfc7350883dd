package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jasonqian/suppliermatch/internal/domain"
	"github.com/jasonqian/suppliermatch/internal/knowledge"
	"github.com/jasonqian/suppliermatch/internal/logger"
)

// SupplierKnowledge performs semantic search over the supplier knowledge
// store and feeds new candidates back into it.
type SupplierKnowledge struct {
	store    *knowledge.Store
	embedder Embedder
}

// NewSupplierKnowledge wires the knowledge store to an embedder.
func NewSupplierKnowledge(store *knowledge.Store, embedder Embedder) *SupplierKnowledge {
	return &SupplierKnowledge{store: store, embedder: embedder}
}

// Search embeds the query and returns up to k known suppliers whose
// similarity clears minSimilarity, ordered most similar first.
//
// Similarity maps squared L2 distance into (0, 1] via exp(-distance/10):
// identical vectors score 1 and the score decays smoothly with distance.
// Scores and distances are rounded to 3 decimals for stable presentation.
func (s *SupplierKnowledge) Search(ctx context.Context, query string, k int, minSimilarity float64) ([]domain.SupplierMatch, error) {
	if s.store.Size() == 0 {
		return nil, nil
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	neighbors, err := s.store.Nearest(vector, k)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.SupplierMatch, 0, len(neighbors))
	for _, n := range neighbors {
		record, ok := s.store.Record(n.Ordinal)
		if !ok {
			continue
		}
		// Threshold on the raw similarity; rounding is presentation only.
		similarity := math.Exp(-n.Distance / 10)
		if similarity < minSimilarity {
			continue
		}
		matches = append(matches, domain.SupplierMatch{
			SupplierRecord: record,
			Similarity:     round3(similarity),
			Distance:       round3(n.Distance),
		})
	}
	return matches, nil
}

// AddCandidates embeds each candidate's document and persists the batch in
// one write. A candidate whose embedding fails is skipped and logged; the
// rest still go in. Returns the number persisted.
func (s *SupplierKnowledge) AddCandidates(ctx context.Context, candidates []domain.Candidate) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	records := make([]domain.SupplierRecord, 0, len(candidates))
	vectors := make([][]float32, 0, len(candidates))
	now := timeNow()

	for _, c := range candidates {
		doc := knowledge.BuildDocument(c)
		vector, err := s.embedder.Embed(ctx, doc)
		if err != nil {
			logger.CtxWarn(ctx, "skipping %q: embedding failed: %v", c.Title, err)
			continue
		}
		records = append(records, knowledge.RecordFromCandidate(c, now))
		vectors = append(vectors, vector)
	}

	if len(records) == 0 {
		return 0, nil
	}
	if err := s.store.AddBatch(records, vectors); err != nil {
		return 0, err
	}
	return len(records), nil
}

// AllSuppliers returns a snapshot of every stored supplier record.
func (s *SupplierKnowledge) AllSuppliers() []domain.SupplierRecord {
	return s.store.AllRecords()
}

// Statistics returns aggregate counts over the knowledge store.
func (s *SupplierKnowledge) Statistics() knowledge.Stats {
	return s.store.Statistics()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// timeNow is swapped out in tests for deterministic add dates.
var timeNow = time.Now
