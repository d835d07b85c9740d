package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"voltaic/internal/config"
)

const userAgent = "voltaic/0.1.0"

// Record is the single-file summary forwarded to the workflow tracking system.
type Record struct {
	Filename string          `json:"filename"`
	RunID    json.RawMessage `json:"run_id"`
	Result   string          `json:"result"`
}

// Sink receives batch summaries tagged with a stage label.
type Sink interface {
	Put(ctx context.Context, stage string, record Record) error
}

// NewSink builds a workflow sink from configuration. When no endpoint is
// configured, a noop implementation is returned.
func NewSink(cfg *config.Config) Sink {
	if cfg == nil || cfg.Workflow.SinkURL == "" {
		return noopSink{}
	}

	timeout := time.Duration(cfg.Workflow.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpSink{
		endpoint: cfg.Workflow.SinkURL,
		client:   &http.Client{Timeout: timeout},
	}
}

type noopSink struct{}

func (noopSink) Put(context.Context, string, Record) error { return nil }

type httpSink struct {
	endpoint string
	client   *http.Client
}

type sinkPayload struct {
	Stage string `json:"stage"`
	Record
}

func (s *httpSink) Put(ctx context.Context, stage string, record Record) error {
	body, err := json.Marshal(sinkPayload{Stage: stage, Record: record})
	if err != nil {
		return fmt.Errorf("marshal workflow output: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build workflow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send workflow output: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("workflow sink returned status %d", resp.StatusCode)
	}
	return nil
}
