package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jasonqian/suppliermatch/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Lead{}, &domain.SearchSession{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestLeadRepositoryRoundTrip(t *testing.T) {
	repo := NewLeadRepository(openTestDB(t))
	ctx := context.Background()

	session := &domain.SearchSession{
		ID:          "sess-1",
		ProductName: "Bluetooth Headphones",
		Query:       "Bluetooth Headphones Electronics",
		LocalCount:  1,
		WebCount:    2,
		TotalCount:  3,
	}
	if err := repo.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	leads := []domain.Lead{
		{ID: "lead-1", SessionID: "sess-1", CompanyName: "Acme Co", Category: "electronics", CooperationStatus: domain.StatusNotContacted},
		{ID: "lead-2", SessionID: "sess-1", CompanyName: "Beta Ltd", Category: "home goods", CooperationStatus: domain.StatusNotContacted},
	}
	if err := repo.CreateLeads(ctx, leads); err != nil {
		t.Fatalf("CreateLeads failed: %v", err)
	}

	got, err := repo.GetLead(ctx, "lead-1")
	if err != nil {
		t.Fatalf("GetLead failed: %v", err)
	}
	if got.CompanyName != "Acme Co" {
		t.Errorf("company: got %q", got.CompanyName)
	}

	sessions, err := repo.ListSessions(ctx, 10)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].TotalCount != 3 {
		t.Errorf("sessions: got %+v", sessions)
	}
}

func TestLeadRepositoryListFilter(t *testing.T) {
	repo := NewLeadRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.CreateLeads(ctx, []domain.Lead{
		{ID: "lead-1", SessionID: "s1", CompanyName: "Acme", Category: "electronics", CooperationStatus: domain.StatusNotContacted},
		{ID: "lead-2", SessionID: "s1", CompanyName: "Beta", Category: "home goods", CooperationStatus: domain.StatusContacted},
		{ID: "lead-3", SessionID: "s2", CompanyName: "Gamma", Category: "electronics", CooperationStatus: domain.StatusContacted},
	}); err != nil {
		t.Fatalf("CreateLeads failed: %v", err)
	}

	leads, total, err := repo.ListLeads(ctx, LeadFilter{Category: "electronics"})
	if err != nil {
		t.Fatalf("ListLeads failed: %v", err)
	}
	if total != 2 || len(leads) != 2 {
		t.Errorf("category filter: got %d/%d, want 2/2", len(leads), total)
	}

	leads, total, err = repo.ListLeads(ctx, LeadFilter{SessionID: "s1", Status: domain.StatusContacted})
	if err != nil {
		t.Fatalf("ListLeads failed: %v", err)
	}
	if total != 1 || leads[0].CompanyName != "Beta" {
		t.Errorf("combined filter: got %+v", leads)
	}
}

func TestLeadRepositoryUpdateStatus(t *testing.T) {
	repo := NewLeadRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.CreateLeads(ctx, []domain.Lead{
		{ID: "lead-1", CompanyName: "Acme", CooperationStatus: domain.StatusNotContacted},
	}); err != nil {
		t.Fatalf("CreateLeads failed: %v", err)
	}

	if err := repo.UpdateStatus(ctx, "lead-1", domain.StatusCooperating); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, _ := repo.GetLead(ctx, "lead-1")
	if got.CooperationStatus != domain.StatusCooperating {
		t.Errorf("status: got %q", got.CooperationStatus)
	}

	err := repo.UpdateStatus(ctx, "missing", domain.StatusContacted)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("missing lead: got %v, want ErrRecordNotFound", err)
	}
}
