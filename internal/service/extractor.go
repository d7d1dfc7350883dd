package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jasonqian/suppliermatch/internal/domain"
	"github.com/jasonqian/suppliermatch/internal/logger"
	"github.com/jasonqian/suppliermatch/internal/prompts"
)

// maxPromptChars bounds how much PDF text goes into the extraction prompt.
const maxPromptChars = 4000

// ProductExtractor turns a product brief PDF into structured ProductInfo.
type ProductExtractor struct {
	generator Generator
	tempDir   string
}

// NewProductExtractor creates a new extractor.
func NewProductExtractor(generator Generator) *ProductExtractor {
	tempDir := filepath.Join(os.TempDir(), "suppliermatch-pdf")
	os.MkdirAll(tempDir, 0o755)

	return &ProductExtractor{
		generator: generator,
		tempDir:   tempDir,
	}
}

// ExtractFromPDF reads the PDF, extracts its text, and asks the LLM for
// structured product attributes.
func (e *ProductExtractor) ExtractFromPDF(ctx context.Context, pdfPath string) (domain.ProductInfo, error) {
	text, err := e.ExtractText(pdfPath)
	if err != nil {
		return domain.ProductInfo{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.ProductInfo{}, fmt.Errorf("no text extracted from %s: scanned or encrypted PDF", pdfPath)
	}

	logger.With(logger.Fields{"chars": len(text)}).Info(ctx, "PDF text extracted")

	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	response, err := e.generator.Generate(ctx, prompts.FormatProductExtraction(text))
	if err != nil {
		return domain.ProductInfo{}, fmt.Errorf("product extraction failed: %w", err)
	}

	product := ParseProductInfo(response)
	if product == (domain.ProductInfo{}) {
		return domain.ProductInfo{}, fmt.Errorf("no product fields found in extraction response")
	}
	return product, nil
}

// ExtractText pulls the text content out of a PDF file. pdfcpu has no direct
// text API, so page content streams are extracted to a temp dir and
// concatenated in page order.
func (e *ProductExtractor) ExtractText(pdfPath string) (string, error) {
	pdfCtx, err := api.ReadContextFile(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}
	pageCount := pdfCtx.PageCount

	outDir, err := os.MkdirTemp(e.tempDir, "extract")
	if err != nil {
		return "", fmt.Errorf("failed to create extraction dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(pdfPath, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract PDF content: %w", err)
	}

	pageTexts := make(map[int]string)
	entries, _ := os.ReadDir(outDir)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(entry.Name(), "page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		} else if _, err := fmt.Sscanf(entry.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	var pagesInOrder []int
	for pageNum := range pageTexts {
		pagesInOrder = append(pagesInOrder, pageNum)
	}
	sort.Ints(pagesInOrder)

	var sb strings.Builder
	for _, pageNum := range pagesInOrder {
		sb.WriteString(pageTexts[pageNum])
		sb.WriteString("\n")
	}

	if sb.Len() == 0 && pageCount > 0 {
		return "", fmt.Errorf("extracted no text from %d pages", pageCount)
	}
	return sb.String(), nil
}

// ParseProductInfo parses "Key: Value" lines from the extraction response.
// Both ASCII and fullwidth colons separate, markdown emphasis markers are
// stripped from keys, and unknown keys are ignored.
func ParseProductInfo(response string) domain.ProductInfo {
	var product domain.ProductInfo

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		separator := ""
		if strings.Contains(line, ":") {
			separator = ":"
		} else if strings.Contains(line, "：") {
			separator = "："
		} else {
			continue
		}

		parts := strings.SplitN(line, separator, 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		key = strings.NewReplacer("*", "", "#", "").Replace(key)
		key = strings.ToLower(strings.TrimSpace(key))
		value := strings.TrimSpace(parts[1])

		switch key {
		case "product name":
			product.Name = value
		case "category":
			product.Category = value
		case "specifications":
			product.Specs = value
		case "target market":
			product.TargetMarket = value
		case "requirements":
			product.Requirements = value
		}
	}

	return product
}
