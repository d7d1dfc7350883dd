// Package prompts centralizes every LLM prompt template so wording changes
// never require touching service code. Templates are plain fmt strings; the
// caller supplies the dynamic parts in order.
package prompts

import "fmt"

// ============================================================================
// Product Extraction (PDF -> structured attributes)
// ============================================================================

// ProductExtraction asks the model to pull structured product attributes out
// of raw PDF text. The response must use one "Key: Value" line per field so
// the line parser in the extractor can consume it directly.
const ProductExtraction = `You are a professional product analyst. Extract the key product information from the following PDF text.

PDF content:
%s

Analyze carefully and extract the following (if the text does not state a field explicitly, infer from context or mark it "not provided"):

1. **Product Name**: the specific product name
2. **Category**: the industry/category (e.g. consumer electronics, home goods, industrial equipment)
3. **Specifications**: key technical parameters, dimensions, materials
4. **Target Market**: sales regions, target customer groups
5. **Requirements**: certifications (CE, FDA, FCC, etc.), special processes, quality standards

Return in exactly this format, one field per line:
Product Name: xxx
Category: xxx
Specifications: xxx
Target Market: xxx
Requirements: xxx

Note: extract directly, do not add extra explanation.`

// FormatProductExtraction fills the extraction template with PDF text.
func FormatProductExtraction(pdfText string) string {
	return fmt.Sprintf(ProductExtraction, pdfText)
}

// ============================================================================
// Supplier Ranking
// ============================================================================

// SupplierRanking scores web search candidates against the extracted product
// requirements. The model must answer with a bare JSON array; the ranking
// adapter strips markdown fences before parsing as a safety net.
const SupplierRanking = `You are a professional B2B supplier evaluation expert who matches cross-border e-commerce sellers with the best suppliers.

**Product requirements:**
%s

**Candidate suppliers:**
%s

**Evaluation task:**
Score each supplier from 0 to 100 using these criteria:

1. **Type match** (30 points): is it a manufacturer/factory (rather than a trading company or platform)?
2. **Product relevance** (30 points): do the product category and specialization match?
3. **Credibility** (20 points): company scale, brand recognition, website professionalism
4. **Cooperation potential** (20 points): export experience, certifications, responsiveness

**Output format:**
Return ONLY a JSON array, no other text:

[
  {
    "title": "full company name",
    "link": "website link",
    "score": 85,
    "reason": "brief scoring rationale (1-2 sentences)",
    "match_type": "manufacturer" | "trader" | "platform"
  }
]

Important: return only JSON, no markdown fences, no extra explanation.`

// FormatSupplierRanking fills the ranking template with JSON-encoded product
// info and candidate list.
func FormatSupplierRanking(productJSON, suppliersJSON string) string {
	return fmt.Sprintf(SupplierRanking, productJSON, suppliersJSON)
}

// ============================================================================
// Contact Extraction
// ============================================================================

// ContactExtraction pulls a sales/export contact for one company out of raw
// search results. Generic mailboxes (info@, contact@) are acceptable; the
// caller falls back to regex extraction when the model returns nothing usable.
const ContactExtraction = `You are a contact information extraction expert. Extract the sales/export contact details for %s from the search results below.

**Search results**:
%s

**Extraction rules**:
1. Prefer emails related to sales, export, or business development
2. If no person name is found, use a department name (e.g. "Sales Department")
3. Recognize email patterns (xxx@domain.com) inside snippets
4. If multiple emails appear, pick the one most likely to be a sales/export mailbox

**Output JSON format** (no markdown fences):
{
  "name": "contact name (department name if none found)",
  "title": "position (e.g. Sales Manager)",
  "email": "email address (must extract one)",
  "phone": "phone number (if present)",
  "confidence": "high" | "medium" | "low"
}

Important:
- Try hard to find an email inside the snippets!
- Even generic mailboxes like info@ or contact@ count
- Return only JSON, no other text.`

// FormatContactExtraction fills the contact template with a company name and
// JSON-encoded search results.
func FormatContactExtraction(companyName, resultsJSON string) string {
	return fmt.Sprintf(ContactExtraction, companyName, resultsJSON)
}
