package domain

import "time"

// Lead is an outreach tracking row for one recommended supplier. Leads live
// in the relational database, separate from the append-only knowledge base:
// cooperation status changes happen here and never mutate a persisted
// SupplierRecord.
type Lead struct {
	ID                string            `gorm:"type:text;primaryKey" json:"id"`
	SessionID         string            `gorm:"type:text;index:idx_leads_session" json:"session_id"`
	CompanyName       string            `gorm:"type:text;not null" json:"company_name"`
	Website           string            `gorm:"type:text" json:"website"`
	Category          string            `gorm:"type:text;index:idx_leads_category" json:"category"`
	MatchType         MatchType         `gorm:"type:text" json:"match_type"`
	Score             int               `json:"score"`
	Reason            string            `gorm:"type:text" json:"reason"`
	Source            string            `gorm:"type:text" json:"source"`
	Similarity        *float64          `json:"similarity_score,omitempty"`
	ContactPerson     string            `gorm:"type:text" json:"contact_person"`
	Email             string            `gorm:"type:text" json:"email"`
	Phone             string            `gorm:"type:text" json:"phone"`
	LinkedIn          string            `gorm:"type:text" json:"linkedin"`
	CooperationStatus CooperationStatus `gorm:"type:text;index:idx_leads_status;default:not-contacted" json:"cooperation_status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// TableName returns the database table name for Lead.
func (Lead) TableName() string {
	return "leads"
}

// SearchSession records one hybrid search run: the query that was built and
// how many candidates each source contributed.
type SearchSession struct {
	ID          string    `gorm:"type:text;primaryKey" json:"id"`
	ProductName string    `gorm:"type:text" json:"product_name"`
	Query       string    `gorm:"type:text" json:"query"`
	LocalCount  int       `json:"local_count"`
	WebCount    int       `json:"web_count"`
	TotalCount  int       `json:"total_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for SearchSession.
func (SearchSession) TableName() string {
	return "search_sessions"
}
