// Client for the draft-generation agent service. The agent runs the LLM
// workflow that drafts post copy; this backend only proxies requests to it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/postpilot/backend/internal/config"
)

type AgentClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAgentClient(cfg config.AgentConfig) *AgentClient {
	return &AgentClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			// generation can take a while
			Timeout: 120 * time.Second,
		},
	}
}

func (c *AgentClient) IsConfigured() bool {
	return c.baseURL != ""
}

// GenerateDraft forwards the draft request to the agent unchanged and returns
// its JSON response verbatim.
func (c *AgentClient) GenerateDraft(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/x-post/generate", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to agent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, string(body))
	}

	return json.RawMessage(body), nil
}
