package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
	"github.com/ressKim-io/sentiment-lab/internal/domain/service"
)

// MaxPageRows is the largest page the datasets server returns
const MaxPageRows = 100

var (
	textColumns  = []string{"text", "content", "review"}
	labelColumns = []string{"label", "sentiment", "label-coarse"}
)

// RowsResponse is one page of the datasets server rows endpoint
type RowsResponse struct {
	Features     []Feature  `json:"features"`
	Rows         []RowEntry `json:"rows"`
	NumRowsTotal int        `json:"num_rows_total"`
}

// Feature describes one dataset column
type Feature struct {
	Index int    `json:"feature_idx"`
	Name  string `json:"name"`
}

// RowEntry wraps a single dataset row
type RowEntry struct {
	Index int                        `json:"row_idx"`
	Row   map[string]json.RawMessage `json:"row"`
}

// DatasetClientConfig configures a DatasetClient
type DatasetClientConfig struct {
	BaseURL  string
	Split    string
	Timeout  time.Duration
	RetryMax int
}

// DatasetClient samples rows of public datasets from a datasets server
type DatasetClient struct {
	baseURL    string
	split      string
	httpClient *http.Client
}

// NewDatasetClient creates a new dataset client
func NewDatasetClient(cfg DatasetClientConfig, logger *zap.Logger) *DatasetClient {
	return &DatasetClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		split:      cfg.Split,
		httpClient: NewRetryableHTTPClient(cfg.RetryMax, cfg.Timeout, logger),
	}
}

var _ service.DatasetFetcher = (*DatasetClient)(nil)

// FetchSample returns up to limit rows from the start of the source's split
func (c *DatasetClient) FetchSample(ctx context.Context, source service.DatasetSource, limit int) ([]entity.Row, error) {
	rows := make([]entity.Row, 0, limit)
	textCol, labelCol := "", ""

	for offset := 0; offset < limit; {
		length := min(MaxPageRows, limit-offset)
		page, err := c.fetchPage(ctx, source, offset, length)
		if err != nil {
			return nil, err
		}
		if len(page.Rows) == 0 {
			break
		}

		if textCol == "" {
			textCol, labelCol = pickColumns(page.Features)
			if textCol == "" {
				return nil, fmt.Errorf("dataset %s has no columns", source.Path)
			}
		}

		for _, entry := range page.Rows {
			row := entity.Row{Text: rawText(entry.Row[textCol])}
			if labelCol != "" {
				row.Label = rawText(entry.Row[labelCol])
			}
			rows = append(rows, row)
		}

		offset += len(page.Rows)
		if page.NumRowsTotal > 0 && offset >= page.NumRowsTotal {
			break
		}
	}

	return rows, nil
}

func (c *DatasetClient) fetchPage(ctx context.Context, source service.DatasetSource, offset, length int) (*RowsResponse, error) {
	q := url.Values{}
	q.Set("dataset", source.Path)
	q.Set("config", source.Config)
	q.Set("split", c.split)
	q.Set("offset", strconv.Itoa(offset))
	q.Set("length", strconv.Itoa(length))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rows?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("datasets server", resp)
	}

	var page RowsResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &page, nil
}

// pickColumns chooses the text column and, when present, the label column
func pickColumns(features []Feature) (text, label string) {
	if len(features) == 0 {
		return "", ""
	}

	names := make(map[string]bool, len(features))
	for _, f := range features {
		names[f.Name] = true
	}

	text = features[0].Name
	for _, c := range textColumns {
		if names[c] {
			text = c
			break
		}
	}
	for _, c := range labelColumns {
		if names[c] && c != text {
			label = c
			break
		}
	}
	return text, label
}

// rawText returns JSON strings unquoted and any other value as its JSON text
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
