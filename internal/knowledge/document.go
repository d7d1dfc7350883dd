package knowledge

import (
	"strings"
	"time"

	"github.com/jasonqian/suppliermatch/internal/domain"
)

// BuildDocument renders the text that gets embedded for a candidate. The
// output is the record's semantic fingerprint: every future nearest-neighbor
// query compares against it, so the label set, field order, and newline
// delimiter are frozen. Empty fields are omitted.
func BuildDocument(c domain.Candidate) string {
	fields := []struct {
		label string
		value string
	}{
		{"Company name", c.Title},
		{"Category", c.Category},
		{"Type", string(c.MatchType)},
		{"Description", c.Snippet},
		{"Evaluation", c.Reason},
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if v := strings.TrimSpace(f.value); v != "" {
			lines = append(lines, f.label+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

// RecordFromCandidate builds the SupplierRecord metadata persisted alongside
// a candidate's embedding. now supplies the add date so callers and tests
// control time.
func RecordFromCandidate(c domain.Candidate, now time.Time) domain.SupplierRecord {
	name := strings.TrimSpace(c.Title)
	if name == "" {
		name = "Unknown"
	}

	rec := domain.SupplierRecord{
		CompanyName:       name,
		Category:          c.Category,
		Website:           c.Link,
		MatchType:         c.MatchType,
		SupplierScore:     c.Score,
		CooperationStatus: domain.StatusNotContacted,
		AddDate:           now.Format("2006-01-02"),
		Source:            c.Source,
	}
	if rec.Source == "" {
		rec.Source = domain.SourceWeb
	}
	if c.Contact != nil {
		rec.ContactPerson = c.Contact.Name
		rec.Email = c.Contact.Email
		rec.Phone = c.Contact.Phone
		rec.LinkedIn = c.Contact.LinkedIn
	}
	return rec
}
