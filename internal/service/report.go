package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/jasonqian/suppliermatch/internal/domain"
)

// BuildReport renders a markdown supplier-match report for one pipeline run.
func BuildReport(product domain.ProductInfo, candidates []domain.Candidate, stats SearchStats, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Supplier Match Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format("2006-01-02 15:04:05")))

	sb.WriteString("## Product\n\n")
	writeField(&sb, "Name", product.Name)
	writeField(&sb, "Category", product.Category)
	writeField(&sb, "Specifications", product.Specs)
	writeField(&sb, "Target Market", product.TargetMarket)
	writeField(&sb, "Requirements", product.Requirements)
	sb.WriteString("\n")

	sb.WriteString("## Search Summary\n\n")
	sb.WriteString(fmt.Sprintf("- Knowledge base hits: %d\n", stats.LocalCount))
	sb.WriteString(fmt.Sprintf("- Web search hits: %d\n", stats.GoogleCount))
	sb.WriteString(fmt.Sprintf("- Recommended suppliers: %d\n\n", stats.TotalCount))

	sb.WriteString("## Recommended Suppliers\n\n")
	if len(candidates) == 0 {
		sb.WriteString("No suppliers matched the product requirements.\n")
		return sb.String()
	}

	for i, c := range candidates {
		sb.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, orNA(c.Title)))
		sb.WriteString(fmt.Sprintf("- Source: %s\n", orNA(c.Source)))
		sb.WriteString(fmt.Sprintf("- Type: %s\n", orNA(string(c.MatchType))))
		sb.WriteString(fmt.Sprintf("- Score: %d/100\n", c.Score))
		sb.WriteString(fmt.Sprintf("- Reason: %s\n", orNA(c.Reason)))
		sb.WriteString(fmt.Sprintf("- Website: %s\n", orNA(c.Link)))

		if c.Source == domain.SourceLocal {
			if c.Similarity != nil {
				sb.WriteString(fmt.Sprintf("- Similarity: %.2f\n", *c.Similarity))
			}
			status := c.CooperationStatus
			if status == "" {
				status = domain.StatusNotContacted
			}
			sb.WriteString(fmt.Sprintf("- Cooperation status: %s\n", status))
		}

		if c.Contact != nil {
			sb.WriteString("\n**Contact**\n\n")
			sb.WriteString(fmt.Sprintf("- Name: %s\n", orNA(c.Contact.Name)))
			sb.WriteString(fmt.Sprintf("- Title: %s\n", orNA(c.Contact.Title)))
			sb.WriteString(fmt.Sprintf("- Email: %s\n", orNA(c.Contact.Email)))
			if c.Contact.Phone != "" && c.Contact.Phone != domain.NotFound {
				sb.WriteString(fmt.Sprintf("- Phone: %s\n", c.Contact.Phone))
			}
			if c.Contact.LinkedIn != "" && c.Contact.LinkedIn != domain.NotFound {
				sb.WriteString(fmt.Sprintf("- LinkedIn: %s\n", c.Contact.LinkedIn))
			}
			if c.Contact.Confidence != "" {
				sb.WriteString(fmt.Sprintf("- Confidence: %s\n", c.Contact.Confidence))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	sb.WriteString(fmt.Sprintf("- %s: %s\n", label, value))
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}
