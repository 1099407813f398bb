package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
)

// InferenceRequest is the payload sent to the inference backend
type InferenceRequest struct {
	Inputs  []string         `json:"inputs"`
	Options InferenceOptions `json:"options"`
}

// InferenceOptions are the backend options sent with every request
type InferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// InferenceClientConfig configures an InferenceClient
type InferenceClientConfig struct {
	BaseURL  string
	Model    string
	APIToken string
	Timeout  time.Duration
	RetryMax int
}

// InferenceClient is an HTTP client for a hosted text-classification model
type InferenceClient struct {
	endpoint   string
	model      string
	token      string
	httpClient *http.Client
}

// NewInferenceClient creates a new inference client for cfg.Model
func NewInferenceClient(cfg InferenceClientConfig, logger *zap.Logger) *InferenceClient {
	return &InferenceClient{
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.Trim(cfg.Model, "/"),
		model:      cfg.Model,
		token:      cfg.APIToken,
		httpClient: NewRetryableHTTPClient(cfg.RetryMax, cfg.Timeout, logger),
	}
}

// Model returns the model identifier the client targets
func (c *InferenceClient) Model() string {
	return c.model
}

// Infer returns the label scores of every text, one slice per text in input order
func (c *InferenceClient) Infer(ctx context.Context, texts []string) ([][]entity.LabelScore, error) {
	if len(texts) == 0 {
		return [][]entity.LabelScore{}, nil
	}

	body, err := json.Marshal(InferenceRequest{
		Inputs:  texts,
		Options: InferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("inference service", resp)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return decodeScores(raw, len(texts))
}

// decodeScores accepts both the nested shape, one list per input, and the flat
// shape some backends return for a single input.
func decodeScores(raw json.RawMessage, inputs int) ([][]entity.LabelScore, error) {
	var nested [][]entity.LabelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) != inputs {
			return nil, fmt.Errorf("inference service returned %d results for %d inputs", len(nested), inputs)
		}
		return nested, nil
	}

	var flat []entity.LabelScore
	if err := json.Unmarshal(raw, &flat); err == nil {
		if inputs != 1 {
			return nil, fmt.Errorf("inference service returned a single result for %d inputs", inputs)
		}
		return [][]entity.LabelScore{flat}, nil
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
		return nil, fmt.Errorf("inference service error: %s", apiErr.Error)
	}

	return nil, errors.New("unexpected inference response shape")
}
