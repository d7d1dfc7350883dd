package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jasonqian/suppliermatch/internal/domain"
)

type fakeLocalSearcher struct {
	matches    []domain.SupplierMatch
	saved      []domain.Candidate
	searchErr  error
	saveCalled bool
}

func (f *fakeLocalSearcher) Search(ctx context.Context, query string, k int, minSimilarity float64) ([]domain.SupplierMatch, error) {
	return f.matches, f.searchErr
}

func (f *fakeLocalSearcher) AddCandidates(ctx context.Context, candidates []domain.Candidate) (int, error) {
	f.saveCalled = true
	f.saved = candidates
	return len(candidates), nil
}

type fakeWebSearcher struct {
	candidates []domain.Candidate
	calls      int
}

func (f *fakeWebSearcher) FindSuppliers(ctx context.Context, product domain.ProductInfo) []domain.Candidate {
	f.calls++
	return f.candidates
}

func localMatch(name string, similarity float64) domain.SupplierMatch {
	return domain.SupplierMatch{
		SupplierRecord: domain.SupplierRecord{
			CompanyName:       name,
			Website:           "https://" + name + ".example",
			MatchType:         domain.MatchTypeManufacturer,
			SupplierScore:     80,
			CooperationStatus: domain.StatusNotContacted,
			Source:            domain.SourceWeb,
		},
		Similarity: similarity,
		Distance:   1.0,
	}
}

func webCandidate(title string) domain.Candidate {
	return domain.Candidate{
		Title:     title,
		Link:      "https://" + title + ".example",
		Score:     70,
		MatchType: domain.MatchTypeUnknown,
		Source:    domain.SourceWeb,
	}
}

func TestHybridSearchSkipsWebWhenLocalSuffices(t *testing.T) {
	local := &fakeLocalSearcher{matches: []domain.SupplierMatch{
		localMatch("acme", 0.9),
		localMatch("beta", 0.8),
		localMatch("gamma", 0.7),
	}}
	web := &fakeWebSearcher{candidates: []domain.Candidate{webCandidate("delta")}}
	engine := NewHybridEngine(local, web)

	results, stats, err := engine.Search(context.Background(), domain.ProductInfo{Name: "widget"}, 5, 3, 0.5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if web.calls != 0 {
		t.Errorf("web searched %d times despite %d local hits", web.calls, stats.LocalCount)
	}
	if stats.GoogleCount != 0 {
		t.Errorf("google count: got %d, want 0", stats.GoogleCount)
	}
	for _, c := range results {
		if c.Source != domain.SourceLocal {
			t.Errorf("unexpected source %q in local-only search", c.Source)
		}
	}
}

func TestHybridSearchFillsFromWeb(t *testing.T) {
	local := &fakeLocalSearcher{matches: []domain.SupplierMatch{localMatch("acme", 0.9)}}
	web := &fakeWebSearcher{candidates: []domain.Candidate{
		webCandidate("delta"),
		webCandidate("epsilon"),
	}}
	engine := NewHybridEngine(local, web)

	results, stats, err := engine.Search(context.Background(), domain.ProductInfo{Name: "widget"}, 5, 3, 0.5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if web.calls != 1 {
		t.Errorf("web search calls: got %d, want 1", web.calls)
	}
	if stats.TotalCount != 3 {
		t.Errorf("total: got %d, want 3", stats.TotalCount)
	}
	if results[0].Source != domain.SourceLocal {
		t.Errorf("local results must come first, got %q", results[0].Source)
	}
}

func TestHybridSearchDedupsLocalFirst(t *testing.T) {
	local := &fakeLocalSearcher{matches: []domain.SupplierMatch{localMatch("Acme Co", 0.9)}}
	web := &fakeWebSearcher{candidates: []domain.Candidate{
		webCandidate("ACME CO"), // same company, different case
		webCandidate("delta"),
	}}
	engine := NewHybridEngine(local, web)

	results, _, err := engine.Search(context.Background(), domain.ProductInfo{Name: "widget"}, 5, 3, 0.5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 after dedup", len(results))
	}
	if results[0].Source != domain.SourceLocal {
		t.Errorf("the surviving Acme entry must be the local one, got %q", results[0].Source)
	}
}

func TestHybridSearchCapsMergedResults(t *testing.T) {
	var webResults []domain.Candidate
	for i := 0; i < 10; i++ {
		webResults = append(webResults, webCandidate(fmt.Sprintf("company-%d", i)))
	}
	local := &fakeLocalSearcher{matches: []domain.SupplierMatch{
		localMatch("acme", 0.9),
		localMatch("beta", 0.8),
	}}
	web := &fakeWebSearcher{candidates: webResults}
	engine := NewHybridEngine(local, web)

	results, _, err := engine.Search(context.Background(), domain.ProductInfo{Name: "widget"}, 2, 3, 0.5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) > 5 {
		t.Errorf("got %d results, want at most local_k+google_k=5", len(results))
	}
}

func TestSaveToKnowledgeBaseWebOnly(t *testing.T) {
	local := &fakeLocalSearcher{}
	engine := NewHybridEngine(local, &fakeWebSearcher{})

	candidates := []domain.Candidate{
		{Title: "acme", Source: domain.SourceLocal},
		{Title: "delta", Source: domain.SourceWeb},
		{Title: "epsilon", Source: domain.SourceWeb},
	}

	count, err := engine.SaveToKnowledgeBase(context.Background(), candidates)
	if err != nil {
		t.Fatalf("SaveToKnowledgeBase failed: %v", err)
	}
	if count != 2 {
		t.Errorf("saved %d, want 2", count)
	}
	for _, c := range local.saved {
		if c.Source != domain.SourceWeb {
			t.Errorf("local-origin candidate %q must never be re-saved", c.Title)
		}
	}
}

func TestSaveToKnowledgeBaseNothingNew(t *testing.T) {
	local := &fakeLocalSearcher{}
	engine := NewHybridEngine(local, &fakeWebSearcher{})

	count, err := engine.SaveToKnowledgeBase(context.Background(), []domain.Candidate{
		{Title: "acme", Source: domain.SourceLocal},
	})
	if err != nil {
		t.Fatalf("SaveToKnowledgeBase failed: %v", err)
	}
	if count != 0 {
		t.Errorf("saved %d, want 0", count)
	}
	if local.saveCalled {
		t.Error("AddCandidates called with no web-origin candidates")
	}
}
