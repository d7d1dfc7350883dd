package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jasonqian/suppliermatch/internal/domain"
)

// LeadRepository handles lead and search-session persistence.
type LeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new LeadRepository.
func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// CreateSession inserts a search session record.
func (r *LeadRepository) CreateSession(ctx context.Context, session *domain.SearchSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// CreateLeads inserts a batch of leads for one session.
func (r *LeadRepository) CreateLeads(ctx context.Context, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&leads).Error
}

// GetLead retrieves a lead by ID.
func (r *LeadRepository) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	var lead domain.Lead
	if err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// LeadFilter narrows ListLeads results. Zero values mean no filtering.
type LeadFilter struct {
	SessionID string
	Category  string
	Status    domain.CooperationStatus
	Limit     int
	Offset    int
}

// ListLeads returns leads matching the filter, newest first, plus the total
// count before pagination.
func (r *LeadRepository) ListLeads(ctx context.Context, filter LeadFilter) ([]domain.Lead, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Lead{})

	if filter.SessionID != "" {
		query = query.Where("session_id = ?", filter.SessionID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("cooperation_status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var leads []domain.Lead
	if err := query.Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// UpdateStatus moves a lead to a new cooperation status. The status value
// must already be validated by the caller.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status domain.CooperationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("id = ?", id).
		Update("cooperation_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("lead %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// ListSessions returns the most recent search sessions.
func (r *LeadRepository) ListSessions(ctx context.Context, limit int) ([]domain.SearchSession, error) {
	if limit <= 0 {
		limit = 20
	}
	var sessions []domain.SearchSession
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
