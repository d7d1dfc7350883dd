package service

import (
	"strings"
	"testing"
	"time"

	"github.com/jasonqian/suppliermatch/internal/domain"
)

func TestBuildReport(t *testing.T) {
	similarity := 0.87
	product := domain.ProductInfo{Name: "Bluetooth Headphones", Category: "Electronics"}
	candidates := []domain.Candidate{
		{
			Title:             "Acme Co",
			Link:              "https://acme.example",
			MatchType:         domain.MatchTypeManufacturer,
			Score:             85,
			Reason:            "knowledge base match (similarity: 0.87)",
			Similarity:        &similarity,
			Source:            domain.SourceLocal,
			CooperationStatus: domain.StatusContacted,
			Contact: &domain.Contact{
				Name:  "John Zhang",
				Email: "john@acme.example",
				Phone: domain.NotFound,
			},
		},
		{
			Title:     "Beta Ltd",
			Link:      "https://beta.example",
			MatchType: domain.MatchTypeTrader,
			Score:     70,
			Reason:    "broad catalog",
			Source:    domain.SourceWeb,
		},
	}
	stats := SearchStats{LocalCount: 1, GoogleCount: 1, TotalCount: 2}

	report := BuildReport(product, candidates, stats, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	for _, want := range []string{
		"# Supplier Match Report",
		"Generated: 2025-06-01 10:00:00",
		"- Name: Bluetooth Headphones",
		"### 1. Acme Co",
		"- Similarity: 0.87",
		"- Cooperation status: contacted",
		"- Email: john@acme.example",
		"### 2. Beta Ltd",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// Phone was the not-found sentinel and must be omitted.
	if strings.Contains(report, "- Phone:") {
		t.Error("report should omit unresolved phone numbers")
	}
	// Web candidates carry no similarity line.
	if strings.Count(report, "- Similarity:") != 1 {
		t.Error("only the local candidate should show similarity")
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(domain.ProductInfo{}, nil, SearchStats{}, time.Now())
	if !strings.Contains(report, "No suppliers matched") {
		t.Error("empty report should say no suppliers matched")
	}
}
