// Package http provides the HTTP transport for kavach: an Analyzer that
// talks to the remote analysis backend and a Server that hosts the query
// console page.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/kavach"
)

// DefaultAnalyzeTimeout bounds a single analysis call, including reading
// the response body.
const DefaultAnalyzeTimeout = 30 * time.Second

// Ensure Analyzer implements kavach.Analyzer at compile time.
var _ kavach.Analyzer = (*Analyzer)(nil)

// Analyzer posts analysis requests to a fixed backend endpoint.
type Analyzer struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTimeout sets the timeout for analysis requests.
// Defaults to DefaultAnalyzeTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		a.timeout = d
	}
}

// WithHTTPClient sets the underlying HTTP client. Its Timeout is replaced
// by the analyzer's timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Analyzer) {
		a.client = c
	}
}

// NewAnalyzer creates an Analyzer that posts to endpoint.
func NewAnalyzer(endpoint string, opts ...Option) *Analyzer {
	a := &Analyzer{
		endpoint: endpoint,
		timeout:  DefaultAnalyzeTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}

	client := &http.Client{}
	if a.client != nil {
		*client = *a.client
	}
	client.Timeout = a.timeout
	a.client = client

	return a
}

// Endpoint returns the backend URL requests are posted to.
func (a *Analyzer) Endpoint() string {
	return a.endpoint
}

// Analyze posts req as JSON and decodes the backend's response.
func (a *Analyzer) Analyze(ctx context.Context, req *kavach.AnalysisRequest) (*kavach.AnalysisResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, kavach.Errorf(kavach.EINVALID, "invalid backend URL %q: %v", a.endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if id := kavach.SubmissionIDFromContext(ctx); id != "" {
		httpReq.Header.Set("X-Request-Id", id)
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, kavach.Errorf(kavach.EUNAVAILABLE, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, kavach.Errorf(kavach.EUNAVAILABLE, "HTTP %d %s for %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), a.endpoint)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, kavach.Errorf(kavach.EUNAVAILABLE, "read response: %v", err)
	}

	return DecodeAnalysisResponse(data)
}

// analysisResponse mirrors the backend's JSON. Pointers distinguish absent
// (or null) fields from empty ones.
type analysisResponse struct {
	InterpretedIntent *string        `json:"interpreted_intent"`
	Answer            *string        `json:"answer"`
	Evidence          []evidenceItem `json:"evidence"`
}

type evidenceItem struct {
	File   *string         `json:"file"`
	Year   json.RawMessage `json:"year"`
	Source *string         `json:"source"`
}

// DecodeAnalysisResponse parses a backend response body. Missing top-level
// fields are replaced with their defaults; evidence items must carry file,
// year and source.
func DecodeAnalysisResponse(data []byte) (*kavach.AnalysisResponse, error) {
	var raw analysisResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, kavach.Errorf(kavach.EMALFORMED, "invalid response body: %v", err)
	}

	resp := &kavach.AnalysisResponse{
		InterpretedIntent: kavach.DefaultInterpretedIntent,
		Answer:            kavach.DefaultAnswer,
	}
	if raw.InterpretedIntent != nil {
		resp.InterpretedIntent = *raw.InterpretedIntent
	}
	if raw.Answer != nil {
		resp.Answer = *raw.Answer
	}

	for i, item := range raw.Evidence {
		if item.File == nil {
			return nil, kavach.Errorf(kavach.EMALFORMED, "evidence item %d: missing file", i)
		}
		if item.Source == nil {
			return nil, kavach.Errorf(kavach.EMALFORMED, "evidence item %d: missing source", i)
		}
		year, err := decodeYear(item.Year)
		if err != nil {
			return nil, kavach.Errorf(kavach.EMALFORMED, "evidence item %d: %v", i, err)
		}
		resp.Evidence = append(resp.Evidence, kavach.EvidenceItem{
			File:   *item.File,
			Year:   year,
			Source: *item.Source,
		})
	}

	return resp, nil
}

// decodeYear accepts a JSON string or number.
func decodeYear(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.New("missing year")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}

	return "", fmt.Errorf("invalid year %s", raw)
}
