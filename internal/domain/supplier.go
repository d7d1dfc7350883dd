package domain

// MatchType classifies what kind of company a supplier is.
// Values include MatchTypeManufacturer, MatchTypeTrader, MatchTypePlatform, and MatchTypeUnknown.
type MatchType string

const (
	MatchTypeManufacturer MatchType = "manufacturer"
	MatchTypeTrader       MatchType = "trader"
	MatchTypePlatform     MatchType = "platform"
	MatchTypeUnknown      MatchType = "unknown"
)

// CooperationStatus tracks the outreach state of a supplier.
type CooperationStatus string

const (
	StatusNotContacted CooperationStatus = "not-contacted"
	StatusContacted    CooperationStatus = "contacted"
	StatusCooperating  CooperationStatus = "cooperating"
	StatusRejected     CooperationStatus = "rejected"
)

// ValidStatus reports whether s is a known cooperation status.
func ValidStatus(s CooperationStatus) bool {
	switch s {
	case StatusNotContacted, StatusContacted, StatusCooperating, StatusRejected:
		return true
	}
	return false
}

// Source tags distinguish knowledge-base-origin candidates from freshly
// web-discovered ones. The tag values are part of the persisted metadata
// format and must not change.
const (
	SourceLocal = "local knowledge base"
	SourceWeb   = "web search"
)

// NotFound is the sentinel used for contact fields that could not be resolved.
const NotFound = "not found"

// SupplierRecord is a persisted knowledge-base entry. Its position in the
// metadata file corresponds, by ordinal index, to its embedding vector's
// position in the vector index; the JSON field names below are the on-disk
// metadata format and must stay stable.
type SupplierRecord struct {
	CompanyName       string            `json:"company_name"`
	Category          string            `json:"category"`
	Website           string            `json:"website"`
	MatchType         MatchType         `json:"match_type"`
	SupplierScore     int               `json:"supplier_score"`
	ContactPerson     string            `json:"contact_person"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	LinkedIn          string            `json:"linkedin"`
	CooperationStatus CooperationStatus `json:"cooperation_status"`
	AddDate           string            `json:"add_date"`
	Source            string            `json:"source"`
}

// SupplierMatch is a SupplierRecord annotated with the similarity score and
// raw L2 distance computed for one query. Matches are always copies of the
// stored record.
type SupplierMatch struct {
	SupplierRecord
	Similarity float64 `json:"similarity_score"`
	Distance   float64 `json:"distance"`
}
