package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jask/omnibar/internal/intent"
)

const agentPath = "/api/ai/agent"

// BackendClassifier posts the query to the application's agent endpoint.
type BackendClassifier struct {
	BaseURL string
	Client  *http.Client
}

var _ intent.Classifier = (*BackendClassifier)(nil)

func NewBackendClassifier(baseURL string) *BackendClassifier {
	return &BackendClassifier{BaseURL: strings.TrimRight(baseURL, "/"), Client: http.DefaultClient}
}

// Classify returns nil, nil when the backend answers without an intent.
func (b *BackendClassifier) Classify(ctx context.Context, query string) (*intent.Intent, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+agentPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("agent backend: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var out struct {
		Intent *wireIntent `json:"intent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode agent response: %w", err)
	}
	if out.Intent == nil {
		return nil, nil
	}
	if out.Intent.Query == "" {
		out.Intent.Query = query
	}
	return out.Intent.toIntent(), nil
}
