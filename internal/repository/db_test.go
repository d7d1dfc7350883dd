package repository

import (
	"path/filepath"
	"testing"

	"github.com/jasonqian/suppliermatch/internal/config"
	"github.com/jasonqian/suppliermatch/internal/domain"
)

func TestInitDBUnknownDriverFallsBackToSQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:      "oracle",
		Path:        filepath.Join(t.TempDir(), "leads.db"),
		AutoMigrate: true,
	}

	db, err := InitDB(cfg)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	lead := domain.Lead{ID: "lead-1", CompanyName: "Acme Co", CooperationStatus: domain.StatusNotContacted}
	if err := db.Create(&lead).Error; err != nil {
		t.Fatalf("insert after fallback failed: %v", err)
	}
}
