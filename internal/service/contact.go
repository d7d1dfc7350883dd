package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jasonqian/suppliermatch/internal/domain"
	"github.com/jasonqian/suppliermatch/internal/logger"
	"github.com/jasonqian/suppliermatch/internal/prompts"
)

var (
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	domainPattern = regexp.MustCompile(`https?://(?:www\.)?([^/]+)`)
)

// ContactFinder locates sales contacts for supplier companies. Strategies
// run in order of reliability: contact-page search with LLM extraction,
// LinkedIn search, then a pattern-based guess that always yields something.
type ContactFinder struct {
	search    WebSearchClient
	generator Generator
	delay     time.Duration
}

// NewContactFinder creates a finder. delay spaces out consecutive companies
// in batch mode to stay under search API rate limits.
func NewContactFinder(search WebSearchClient, generator Generator, delay time.Duration) *ContactFinder {
	return &ContactFinder{search: search, generator: generator, delay: delay}
}

// Find looks up a sales contact for one company. It never returns nil: when
// both search strategies fail the pattern guess fills in with confidence
// "low".
func (f *ContactFinder) Find(ctx context.Context, companyName, website string) *domain.Contact {
	if contact := f.searchContactPage(ctx, companyName, website); contact != nil && contact.Confidence != "low" {
		return contact
	}

	logger.CtxDebug(ctx, "trying LinkedIn search for %q", companyName)
	if contact := f.searchLinkedIn(ctx, companyName); contact != nil && contact.Confidence != "low" {
		return contact
	}

	logger.CtxDebug(ctx, "falling back to pattern guess for %q", companyName)
	return patternGuess(website)
}

// EnrichBatch attaches contact info to every candidate in place, pausing
// between companies.
func (f *ContactFinder) EnrichBatch(ctx context.Context, candidates []domain.Candidate) {
	for i := range candidates {
		if i > 0 && f.delay > 0 {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return
			}
		}

		contact := f.Find(ctx, candidates[i].Title, candidates[i].Link)
		candidates[i].Contact = contact

		if contact.Email != "" && contact.Email != domain.NotFound {
			logger.CtxInfo(ctx, "contact found for %q: %s", candidates[i].Title, contact.Email)
		} else {
			logger.CtxWarn(ctx, "no usable email for %q", candidates[i].Title)
		}
	}
}

// searchContactPage is strategy 1: search for the company's contact or sales
// pages and extract a contact with the LLM, regex as backstop.
func (f *ContactFinder) searchContactPage(ctx context.Context, companyName, website string) *domain.Contact {
	queries := []string{
		fmt.Sprintf("%q contact email", companyName),
		fmt.Sprintf("%q sales manager email", companyName),
	}

	var results []domain.OrganicResult
	for _, query := range queries {
		found, err := f.search.Search(ctx, query)
		if err != nil {
			logger.CtxDebug(ctx, "contact search failed: %v", err)
			continue
		}
		results = append(results, found...)
		if len(results) >= 5 {
			results = results[:5]
			break
		}
	}
	if len(results) == 0 {
		return nil
	}

	if contact := f.extractWithLLM(ctx, companyName, results); contact != nil {
		return contact
	}
	return extractEmailByRegex(results)
}

// searchLinkedIn is strategy 2: a LinkedIn site-search for sales or export
// staff, taking the first profile hit.
func (f *ContactFinder) searchLinkedIn(ctx context.Context, companyName string) *domain.Contact {
	query := fmt.Sprintf("site:linkedin.com %q sales director OR export manager", companyName)
	results, err := f.search.Search(ctx, query)
	if err != nil || len(results) == 0 {
		return nil
	}

	var profile string
	for _, r := range results {
		if strings.Contains(r.Link, "linkedin.com/in/") {
			profile = r.Link
			break
		}
	}
	if profile == "" {
		return nil
	}

	// LinkedIn titles read "Name - Position - Company | LinkedIn".
	parts := strings.Split(results[0].Title, "-")
	name := domain.NotFound
	position := "Sales Manager"
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		name = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		position = strings.TrimSpace(parts[1])
	}

	return &domain.Contact{
		Name:       name,
		Title:      position,
		Email:      domain.NotFound,
		LinkedIn:   profile,
		Confidence: "medium",
		Source:     "LinkedIn",
	}
}

// llmContact mirrors the JSON shape the contact-extraction prompt requests.
type llmContact struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Confidence string `json:"confidence"`
}

// extractWithLLM asks the model to pull a contact out of the search results.
// Returns nil when the response has no plausible email.
func (f *ContactFinder) extractWithLLM(ctx context.Context, companyName string, results []domain.OrganicResult) *domain.Contact {
	limited := results
	if len(limited) > 3 {
		limited = limited[:3]
	}
	resultsJSON, err := json.MarshalIndent(limited, "", "  ")
	if err != nil {
		return nil
	}

	response, err := f.generator.Generate(ctx, prompts.FormatContactExtraction(companyName, string(resultsJSON)))
	if err != nil {
		logger.CtxDebug(ctx, "contact extraction failed: %v", err)
		return nil
	}

	var parsed llmContact
	if err := json.Unmarshal([]byte(cleanJSONResponse(response)), &parsed); err != nil {
		return nil
	}
	if !strings.Contains(parsed.Email, "@") || !strings.Contains(parsed.Email, ".") {
		return nil
	}

	return &domain.Contact{
		Name:       orNotFound(parsed.Name),
		Title:      orNotFound(parsed.Title),
		Email:      parsed.Email,
		Phone:      orNotFound(parsed.Phone),
		LinkedIn:   domain.NotFound,
		Confidence: parsed.Confidence,
		Source:     results[0].Link,
	}
}

// extractEmailByRegex scans snippets and titles for any email address,
// preferring sales/export/business mailboxes.
func extractEmailByRegex(results []domain.OrganicResult) *domain.Contact {
	var found []string
	for _, r := range results {
		found = append(found, emailPattern.FindAllString(r.Snippet, -1)...)
		found = append(found, emailPattern.FindAllString(r.Title, -1)...)
	}
	if len(found) == 0 {
		return nil
	}

	selected := found[0]
	for _, email := range found {
		lower := strings.ToLower(email)
		if strings.Contains(lower, "sales") || strings.Contains(lower, "export") || strings.Contains(lower, "business") {
			selected = email
			break
		}
	}

	return &domain.Contact{
		Name:       "Contact Person",
		Title:      "Sales Department",
		Email:      selected,
		Phone:      domain.NotFound,
		LinkedIn:   domain.NotFound,
		Confidence: "medium",
		Source:     "search result extraction",
	}
}

// patternGuess is strategy 3: derive a probable sales mailbox from the
// company domain. Always low confidence; flagged for manual verification.
func patternGuess(website string) *domain.Contact {
	contact := &domain.Contact{
		Name:       "Sales Department",
		Title:      "Sales Manager",
		Email:      domain.NotFound,
		Phone:      domain.NotFound,
		LinkedIn:   domain.NotFound,
		Department: "sales",
		Confidence: "low",
		Source:     "pattern guess",
		Note:       "generated from common mailbox patterns, verify before use",
	}
	if host := extractDomain(website); host != "" {
		contact.Email = "sales@" + host
		contact.Source = website
	}
	return contact
}

func extractDomain(url string) string {
	if url == "" {
		return ""
	}
	match := domainPattern.FindStringSubmatch(url)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

func orNotFound(value string) string {
	if strings.TrimSpace(value) == "" {
		return domain.NotFound
	}
	return value
}
