package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Generator produces free-form text completions.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini generateContent API.
type GeminiGenerator struct {
	client      *resty.Client
	baseURL     string
	model       string
	temperature float64
}

// GeminiGeneratorConfig holds configuration for the generator.
type GeminiGeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
}

// NewGeminiGenerator creates a new generator client.
func NewGeminiGenerator(cfg *GeminiGeneratorConfig) *GeminiGenerator {
	client := resty.New()
	client.SetHeader("x-goog-api-key", cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(60 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	return &GeminiGenerator{
		client:      client,
		baseURL:     baseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

type generateContentRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *geminiError `json:"error,omitempty"`
}

// Generate sends a single-turn prompt and returns the model's text response.
func (s *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateContentRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: s.temperature},
	}

	var resp generateContentResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model))

	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}
	if httpResp.StatusCode() != 200 {
		if resp.Error != nil {
			return "", fmt.Errorf("Gemini API error: %s", resp.Error.Message)
		}
		return "", fmt.Errorf("Gemini API error: status %d", httpResp.StatusCode())
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty completion from Gemini API")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
