package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Embedder turns text into fixed-dimension vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// GeminiEmbedder generates embeddings via the Gemini embedContent API.
type GeminiEmbedder struct {
	client     *resty.Client
	baseURL    string
	model      string
	dimensions int
}

// GeminiEmbedderConfig holds configuration for the embedder.
type GeminiEmbedderConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
}

// NewGeminiEmbedder creates a new embedder client.
func NewGeminiEmbedder(cfg *GeminiEmbedderConfig) *GeminiEmbedder {
	client := resty.New()
	client.SetHeader("x-goog-api-key", cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(30 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	return &GeminiEmbedder{
		client:     client,
		baseURL:    baseURL,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Dimensions returns the configured output dimensionality.
func (s *GeminiEmbedder) Dimensions() int {
	return s.dimensions
}

// Gemini embedContent request/response structures
type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type embedContentRequest struct {
	Model                string        `json:"model"`
	Content              geminiContent `json:"content"`
	OutputDimensionality int           `json:"outputDimensionality,omitempty"`
}

type batchEmbedRequest struct {
	Requests []embedContentRequest `json:"requests"`
}

type embeddingValues struct {
	Values []float32 `json:"values"`
}

type embedContentResponse struct {
	Embedding embeddingValues `json:"embedding"`
	Error     *geminiError    `json:"error,omitempty"`
}

type batchEmbedResponse struct {
	Embeddings []embeddingValues `json:"embeddings"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Embed generates an embedding for a single text.
func (s *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := embedContentRequest{
		Model:                "models/" + s.model,
		Content:              geminiContent{Parts: []geminiPart{{Text: text}}},
		OutputDimensionality: s.dimensions,
	}

	var resp embedContentResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(fmt.Sprintf("%s/models/%s:embedContent", s.baseURL, s.model))

	if err != nil {
		return nil, fmt.Errorf("failed to call Gemini API: %w", err)
	}
	if httpResp.StatusCode() != 200 {
		if resp.Error != nil {
			return nil, fmt.Errorf("Gemini API error: %s", resp.Error.Message)
		}
		return nil, fmt.Errorf("Gemini API error: status %d", httpResp.StatusCode())
	}

	return s.checkVector(resp.Embedding.Values)
}

// EmbedBatch generates embeddings for multiple texts in one call. Results
// come back in input order.
func (s *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	req := batchEmbedRequest{Requests: make([]embedContentRequest, len(texts))}
	for i, text := range texts {
		req.Requests[i] = embedContentRequest{
			Model:                "models/" + s.model,
			Content:              geminiContent{Parts: []geminiPart{{Text: text}}},
			OutputDimensionality: s.dimensions,
		}
	}

	var resp batchEmbedResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(fmt.Sprintf("%s/models/%s:batchEmbedContents", s.baseURL, s.model))

	if err != nil {
		return nil, fmt.Errorf("failed to call Gemini API: %w", err)
	}
	if httpResp.StatusCode() != 200 {
		if resp.Error != nil {
			return nil, fmt.Errorf("Gemini API error: %s", resp.Error.Message)
		}
		return nil, fmt.Errorf("Gemini API error: status %d", httpResp.StatusCode())
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("unexpected number of embeddings: got %d, expected %d", len(resp.Embeddings), len(texts))
	}

	embeddings := make([][]float32, len(texts))
	for i, item := range resp.Embeddings {
		vec, err := s.checkVector(item.Values)
		if err != nil {
			return nil, fmt.Errorf("embedding %d: %w", i, err)
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

// checkVector rejects empty or wrong-dimension vectors before they can reach
// the knowledge store.
func (s *GeminiEmbedder) checkVector(vec []float32) ([]float32, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	if s.dimensions > 0 && len(vec) != s.dimensions {
		return nil, fmt.Errorf("unexpected embedding dimension: got %d, expected %d", len(vec), s.dimensions)
	}
	return vec, nil
}
