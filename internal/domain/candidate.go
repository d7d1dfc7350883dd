package domain

import "strings"

// Contact holds the contact details discovered for one company. Confidence is
// the extractor's own estimate: "high", "medium", or "low".
type Contact struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	LinkedIn   string `json:"linkedin"`
	Department string `json:"department,omitempty"`
	Source     string `json:"source,omitempty"`
	Confidence string `json:"confidence,omitempty"`
	Note       string `json:"note,omitempty"`
}

// Candidate is a transient, in-pipeline supplier representation. A candidate
// with Source == SourceLocal is a view projected from a persisted
// SupplierRecord; a candidate with Source == SourceWeb has no persisted
// counterpart until it is explicitly saved.
type Candidate struct {
	Title             string            `json:"title"`
	Link              string            `json:"link"`
	Snippet           string            `json:"snippet,omitempty"`
	MatchType         MatchType         `json:"match_type"`
	Score             int               `json:"score"`
	Reason            string            `json:"reason"`
	Category          string            `json:"category,omitempty"`
	Similarity        *float64          `json:"similarity_score,omitempty"`
	Source            string            `json:"source"`
	CooperationStatus CooperationStatus `json:"cooperation_status,omitempty"`
	Contact           *Contact          `json:"contact,omitempty"`
}

// NameKey returns the case-insensitive dedup key for the candidate's company
// name. Dedup is by exact name only; near-duplicates like "Acme Co." and
// "Acme Co Ltd" remain distinct entries.
func (c Candidate) NameKey() string {
	return strings.ToLower(strings.TrimSpace(c.Title))
}

// OrganicResult is one ranked web search hit as returned by the search
// provider.
type OrganicResult struct {
	Position      int    `json:"position"`
	Title         string `json:"title"`
	Link          string `json:"link"`
	Snippet       string `json:"snippet"`
	DisplayedLink string `json:"displayed_link,omitempty"`
}
