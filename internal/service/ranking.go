package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/jasonqian/suppliermatch/internal/domain"
	"github.com/jasonqian/suppliermatch/internal/logger"
	"github.com/jasonqian/suppliermatch/internal/prompts"
)

// fallbackReason marks candidates scored without the LLM.
const fallbackReason = "based on search ranking"

// SupplierRanker scores raw search results against product requirements
// using the LLM, with a deterministic position-based fallback.
type SupplierRanker struct {
	generator Generator
}

// NewSupplierRanker creates a ranker backed by the given generator.
func NewSupplierRanker(generator Generator) *SupplierRanker {
	return &SupplierRanker{generator: generator}
}

// rankedSupplier mirrors the JSON shape the ranking prompt requests.
type rankedSupplier struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Score     int    `json:"score"`
	Reason    string `json:"reason"`
	MatchType string `json:"match_type"`
}

// Rank scores the results and returns candidates ordered by descending
// score. Any LLM or parse failure falls back to position-based scoring so
// the pipeline always gets an answer.
func (r *SupplierRanker) Rank(ctx context.Context, results []domain.OrganicResult, product domain.ProductInfo) []domain.Candidate {
	if len(results) == 0 {
		return nil
	}

	productJSON, err := json.MarshalIndent(product, "", "  ")
	if err != nil {
		return fallbackRanking(results)
	}
	resultsJSON, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fallbackRanking(results)
	}

	response, err := r.generator.Generate(ctx, prompts.FormatSupplierRanking(string(productJSON), string(resultsJSON)))
	if err != nil {
		logger.CtxWarn(ctx, "supplier ranking failed, using fallback: %v", err)
		return fallbackRanking(results)
	}

	var ranked []rankedSupplier
	if err := json.Unmarshal([]byte(cleanJSONResponse(response)), &ranked); err != nil || len(ranked) == 0 {
		logger.CtxWarn(ctx, "could not parse ranking response, using fallback: %v", err)
		return fallbackRanking(results)
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	snippets := snippetsByTitle(results)
	candidates := make([]domain.Candidate, len(ranked))
	for i, rs := range ranked {
		candidates[i] = domain.Candidate{
			Title:     rs.Title,
			Link:      rs.Link,
			Snippet:   snippets[strings.ToLower(strings.TrimSpace(rs.Title))],
			Score:     rs.Score,
			Reason:    rs.Reason,
			MatchType: normalizeMatchType(rs.MatchType),
			Source:    domain.SourceWeb,
		}
	}
	return candidates
}

// fallbackRanking keeps the first three results with descending fixed
// scores. The order Google returned is the only signal available.
func fallbackRanking(results []domain.OrganicResult) []domain.Candidate {
	n := len(results)
	if n > 3 {
		n = 3
	}
	candidates := make([]domain.Candidate, n)
	for i := 0; i < n; i++ {
		candidates[i] = domain.Candidate{
			Title:     results[i].Title,
			Link:      results[i].Link,
			Snippet:   results[i].Snippet,
			Score:     60 - i*5,
			Reason:    fallbackReason,
			MatchType: domain.MatchTypeUnknown,
			Source:    domain.SourceWeb,
		}
	}
	return candidates
}

// cleanJSONResponse strips markdown code fences the model sometimes wraps
// around JSON despite instructions.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = content[len("```json"):]
	} else if strings.HasPrefix(content, "```") {
		content = content[len("```"):]
	}
	if strings.HasSuffix(content, "```") {
		content = content[:len(content)-len("```")]
	}
	return strings.TrimSpace(content)
}

// normalizeMatchType maps free-form LLM output onto the known enum.
func normalizeMatchType(value string) domain.MatchType {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "manufacturer", "factory":
		return domain.MatchTypeManufacturer
	case "trader", "trading company":
		return domain.MatchTypeTrader
	case "platform", "marketplace":
		return domain.MatchTypePlatform
	default:
		return domain.MatchTypeUnknown
	}
}

// snippetsByTitle indexes result snippets by lowercased title so ranked
// candidates can carry their original descriptions.
func snippetsByTitle(results []domain.OrganicResult) map[string]string {
	m := make(map[string]string, len(results))
	for _, r := range results {
		m[strings.ToLower(strings.TrimSpace(r.Title))] = r.Snippet
	}
	return m
}
