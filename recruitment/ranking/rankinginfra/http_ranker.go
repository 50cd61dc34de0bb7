package rankinginfra

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/jobboard/recruitment/ranking"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/rank_response.schema.json
var rankResponseSchema []byte

const (
	maxResponseBytes = 16 << 20
	maxErrorBody     = 4 << 10
)

// HTTPRanker calls the Ranking Service over HTTP JSON
type HTTPRanker struct {
	baseURL string
	client  *http.Client
	schema  *gojsonschema.Schema
}

var (
	_ ranking.Ranker        = (*HTTPRanker)(nil)
	_ ranking.HealthChecker = (*HTTPRanker)(nil)
)

// NewHTTPRanker creates a client for the service at baseURL. Callers bound
// each call through the context; timeout is a backstop on the transport.
func NewHTTPRanker(baseURL string, timeout time.Duration) (*HTTPRanker, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(rankResponseSchema))
	if err != nil {
		return nil, fmt.Errorf("compile ranking response schema: %w", err)
	}

	return &HTTPRanker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		schema:  schema,
	}, nil
}

// Rank posts req to /rank and returns the validated response
func (r *HTTPRanker) Rank(ctx context.Context, req ranking.Request) (*ranking.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal ranking request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/rank", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call ranking service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("ranking service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read ranking response: %w", err)
	}

	if err := r.validate(raw); err != nil {
		return nil, err
	}

	var out ranking.Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode ranking response: %w", err)
	}
	return &out, nil
}

func (r *HTTPRanker) validate(raw []byte) error {
	result, err := r.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("ranking response is not JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("ranking response does not match contract: %s", strings.Join(problems, "; "))
}

// Health checks GET /health
func (r *HTTPRanker) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ranking service health returned %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err == nil &&
		body.Status != "" && body.Status != "healthy" {
		return fmt.Errorf("ranking service reports %q", body.Status)
	}
	return nil
}
