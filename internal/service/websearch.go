package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jasonqian/suppliermatch/internal/domain"
	"github.com/jasonqian/suppliermatch/internal/logger"
)

const serpAPIEndpoint = "https://serpapi.com/search.json"

// WebSearchClient runs a Google search and returns organic results.
type WebSearchClient interface {
	Search(ctx context.Context, query string) ([]domain.OrganicResult, error)
}

// SerpClient queries Google through SerpAPI.
type SerpClient struct {
	client     *resty.Client
	apiKey     string
	numResults int
	country    string
	language   string
}

// SerpConfig holds configuration for the SerpAPI client.
type SerpConfig struct {
	APIKey     string
	NumResults int
	Country    string
	Language   string
}

// NewSerpClient creates a new SerpAPI client.
func NewSerpClient(cfg *SerpConfig) *SerpClient {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	num := cfg.NumResults
	if num <= 0 {
		num = 10
	}
	country := cfg.Country
	if country == "" {
		country = "us"
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}

	return &SerpClient{
		client:     client,
		apiKey:     cfg.APIKey,
		numResults: num,
		country:    country,
		language:   language,
	}
}

type serpResponse struct {
	SearchMetadata struct {
		Status string `json:"status"`
	} `json:"search_metadata"`
	OrganicResults []struct {
		Title         string `json:"title"`
		Link          string `json:"link"`
		Snippet       string `json:"snippet"`
		DisplayedLink string `json:"displayed_link"`
	} `json:"organic_results"`
	Error string `json:"error,omitempty"`
}

// Search runs one Google query. An error payload from SerpAPI (quota
// exhausted, bad key) surfaces as an error; a successful response with no
// organic results yields an empty slice.
func (s *SerpClient) Search(ctx context.Context, query string) ([]domain.OrganicResult, error) {
	var resp serpResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":       query,
			"api_key": s.apiKey,
			"engine":  "google",
			"num":     fmt.Sprintf("%d", s.numResults),
			"gl":      s.country,
			"hl":      s.language,
		}).
		SetResult(&resp).
		SetError(&resp).
		Get(serpAPIEndpoint)

	if err != nil {
		return nil, fmt.Errorf("failed to call SerpAPI: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("SerpAPI error: %s", resp.Error)
	}
	if httpResp.StatusCode() != 200 {
		return nil, fmt.Errorf("SerpAPI error: status %d", httpResp.StatusCode())
	}

	results := make([]domain.OrganicResult, 0, len(resp.OrganicResults))
	for i, r := range resp.OrganicResults {
		results = append(results, domain.OrganicResult{
			Position:      i + 1,
			Title:         r.Title,
			Link:          r.Link,
			Snippet:       r.Snippet,
			DisplayedLink: r.DisplayedLink,
		})
	}
	return results, nil
}

// SupplierWebSearch finds and ranks supplier candidates on the web. Any
// failure along the way degrades to an empty result set so the hybrid engine
// can keep serving local hits.
type SupplierWebSearch struct {
	search WebSearchClient
	ranker *SupplierRanker
	topN   int
}

// NewSupplierWebSearch creates the supplier-facing web search adapter.
func NewSupplierWebSearch(search WebSearchClient, ranker *SupplierRanker, topN int) *SupplierWebSearch {
	if topN <= 0 {
		topN = 3
	}
	return &SupplierWebSearch{search: search, ranker: ranker, topN: topN}
}

// FindSuppliers searches the web for suppliers matching the product and
// returns up to topN ranked candidates. An empty first search retries once
// with a simplified query.
func (s *SupplierWebSearch) FindSuppliers(ctx context.Context, product domain.ProductInfo) []domain.Candidate {
	query := buildSupplierQuery(product)
	results, err := s.search.Search(ctx, query)
	if err != nil {
		logger.CtxWarn(ctx, "web search failed: %v", err)
		return nil
	}

	if len(results) == 0 {
		simple := buildSimpleQuery(product)
		logger.CtxInfo(ctx, "no results for %q, retrying with simplified query %q", query, simple)
		results, err = s.search.Search(ctx, simple)
		if err != nil {
			logger.CtxWarn(ctx, "simplified web search failed: %v", err)
			return nil
		}
	}
	if len(results) == 0 {
		return nil
	}

	ranked := s.ranker.Rank(ctx, results, product)
	if len(ranked) > s.topN {
		ranked = ranked[:s.topN]
	}
	return ranked
}

// buildSupplierQuery assembles the primary search query: ASCII-filtered
// product name and category plus fixed sourcing keywords. A name with no
// ASCII portion is used verbatim; a category with none is dropped.
func buildSupplierQuery(product domain.ProductInfo) string {
	var parts []string
	if name := provided(product.Name); name != "" {
		if ascii := asciiOnly(name); ascii != "" {
			parts = append(parts, ascii)
		} else {
			parts = append(parts, name)
		}
	}
	if ascii := asciiOnly(provided(product.Category)); ascii != "" {
		parts = append(parts, ascii)
	}
	parts = append(parts, "manufacturer", "supplier", "China")
	return strings.Join(parts, " ")
}

// buildSimpleQuery assembles the fallback query from the product name alone,
// falling back further to the category.
func buildSimpleQuery(product domain.ProductInfo) string {
	if name := asciiOnly(provided(product.Name)); name != "" {
		return name + " manufacturer"
	}
	if category := asciiOnly(provided(product.Category)); category != "" {
		return category + " manufacturer China"
	}
	return "manufacturer China"
}

// provided normalizes a product field, treating the extractor's "not
// provided" marker as absent.
func provided(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "not provided") {
		return ""
	}
	return value
}

// asciiOnly strips a field down to its ASCII portion. Google sourcing
// queries work far better in English.
func asciiOnly(value string) string {
	var sb strings.Builder
	for _, r := range value {
		if r < 128 {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
