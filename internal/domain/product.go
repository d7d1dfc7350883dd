package domain

import "strings"

// ProductInfo is the flat attribute set extracted from a product
// specification document. Values are free text; empty means the attribute was
// not provided.
type ProductInfo struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Specs        string `json:"specs"`
	TargetMarket string `json:"target_market"`
	Requirements string `json:"requirements"`
}

// SearchQuery concatenates the non-empty discriminating attributes in fixed
// precedence order: name first, then category, then specs. When all three are
// empty it falls back to a generic sourcing query.
func (p ProductInfo) SearchQuery() string {
	parts := make([]string, 0, 3)
	for _, v := range []string{p.Name, p.Category, p.Specs} {
		if s := strings.TrimSpace(v); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "manufacturer supplier"
	}
	return strings.Join(parts, " ")
}
