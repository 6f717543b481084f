package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"argus/internal/investigation"
)

// HTTPAnalyzer calls a remote evidence-analyzer service. The service owns the
// prompt construction and the LLM call; this client only ships the accumulated
// evidence and reads back a scored findings payload.
type HTTPAnalyzer struct {
	baseURL string
	client  *http.Client
}

// NewHTTPAnalyzer builds a client for the analyzer endpoint.
func NewHTTPAnalyzer(baseURL string, timeout time.Duration) *HTTPAnalyzer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPAnalyzer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *HTTPAnalyzer) AnalyzeEvidence(ctx context.Context, req AnalyzeRequest) (*investigation.Findings, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal analyze request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call evidence analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("evidence analyzer returned status %d", resp.StatusCode)
	}

	var out investigation.Findings
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}
	return &out, nil
}
