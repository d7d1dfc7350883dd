package service

import (
	"context"
	"fmt"

	"github.com/jasonqian/suppliermatch/internal/domain"
	"github.com/jasonqian/suppliermatch/internal/logger"
)

// LocalSearcher retrieves known suppliers by semantic similarity.
type LocalSearcher interface {
	Search(ctx context.Context, query string, k int, minSimilarity float64) ([]domain.SupplierMatch, error)
	AddCandidates(ctx context.Context, candidates []domain.Candidate) (int, error)
}

// WebSearcher finds new supplier candidates on the web.
type WebSearcher interface {
	FindSuppliers(ctx context.Context, product domain.ProductInfo) []domain.Candidate
}

// SearchStats summarizes where one hybrid search's results came from.
type SearchStats struct {
	LocalCount  int            `json:"local_count"`
	GoogleCount int            `json:"google_count"`
	TotalCount  int            `json:"total_count"`
	Sources     map[string]int `json:"sources"`
}

// HybridEngine combines the local knowledge base with web search:
// local-first, web only to fill the gap, merged with dedup.
type HybridEngine struct {
	local LocalSearcher
	web   WebSearcher
}

// NewHybridEngine wires the two retrieval paths together.
func NewHybridEngine(local LocalSearcher, web WebSearcher) *HybridEngine {
	return &HybridEngine{local: local, web: web}
}

// Search runs the hybrid retrieval. Local results clearing minSimilarity
// come first; the web is consulted only when fewer than googleK local hits
// survive. Merged output dedups case-insensitively on company name, local
// hits winning, and is capped at localK+googleK.
func (e *HybridEngine) Search(ctx context.Context, product domain.ProductInfo, localK, googleK int, minSimilarity float64) ([]domain.Candidate, SearchStats, error) {
	query := product.SearchQuery()
	logger.CtxInfo(ctx, "hybrid search: query=%q local_k=%d google_k=%d", query, localK, googleK)

	localMatches, err := e.local.Search(ctx, query, localK, minSimilarity)
	if err != nil {
		return nil, SearchStats{}, fmt.Errorf("local search failed: %w", err)
	}

	var webCandidates []domain.Candidate
	if len(localMatches) < googleK {
		webCandidates = e.web.FindSuppliers(ctx, product)
	} else {
		logger.CtxInfo(ctx, "knowledge base satisfied the request, skipping web search")
	}

	merged := mergeCandidates(localMatches, webCandidates, localK+googleK)

	stats := SearchStats{
		LocalCount:  len(localMatches),
		GoogleCount: len(webCandidates),
		TotalCount:  len(merged),
		Sources:     map[string]int{},
	}
	for _, c := range merged {
		stats.Sources[c.Source]++
	}

	logger.With(logger.Fields{
		"local":  stats.LocalCount,
		"web":    stats.GoogleCount,
		"merged": stats.TotalCount,
	}).Info(ctx, "hybrid search complete")

	return merged, stats, nil
}

// mergeCandidates concatenates local matches and web candidates, skipping
// web entries whose company name (case-insensitive) already appeared.
func mergeCandidates(localMatches []domain.SupplierMatch, webCandidates []domain.Candidate, limit int) []domain.Candidate {
	merged := make([]domain.Candidate, 0, len(localMatches)+len(webCandidates))
	seen := make(map[string]bool)

	for _, m := range localMatches {
		c := candidateFromMatch(m)
		merged = append(merged, c)
		seen[c.NameKey()] = true
	}

	for _, c := range webCandidates {
		if len(merged) >= limit {
			break
		}
		if seen[c.NameKey()] {
			continue
		}
		merged = append(merged, c)
		seen[c.NameKey()] = true
	}

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// candidateFromMatch converts a knowledge base hit into the common candidate
// shape, carrying the similarity score and stored contact along.
func candidateFromMatch(m domain.SupplierMatch) domain.Candidate {
	similarity := m.Similarity
	c := domain.Candidate{
		Title:             m.CompanyName,
		Link:              m.Website,
		Category:          m.Category,
		MatchType:         m.MatchType,
		Score:             m.SupplierScore,
		Reason:            fmt.Sprintf("knowledge base match (similarity: %.2f)", m.Similarity),
		Similarity:        &similarity,
		Source:            domain.SourceLocal,
		CooperationStatus: m.CooperationStatus,
	}
	if m.ContactPerson != "" || m.Email != "" || m.Phone != "" {
		c.Contact = &domain.Contact{
			Name:  m.ContactPerson,
			Email: m.Email,
			Phone: m.Phone,
		}
	}
	return c
}

// SaveToKnowledgeBase persists web-sourced candidates. Local hits are
// already stored and never re-enter the knowledge base here.
func (e *HybridEngine) SaveToKnowledgeBase(ctx context.Context, candidates []domain.Candidate) (int, error) {
	var fresh []domain.Candidate
	for _, c := range candidates {
		if c.Source == domain.SourceWeb {
			fresh = append(fresh, c)
		}
	}
	if len(fresh) == 0 {
		logger.CtxInfo(ctx, "no new suppliers to save")
		return 0, nil
	}

	count, err := e.local.AddCandidates(ctx, fresh)
	if err != nil {
		return 0, err
	}
	logger.With(logger.Fields{
		"count":            count,
		logger.FieldSource: domain.SourceWeb,
	}).Info(ctx, "saved new suppliers to knowledge base")
	return count, nil
}
