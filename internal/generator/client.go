// Package generator talks to the external plan generation service.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"alcyxob/fitcoach/internal/apperr"
	"alcyxob/fitcoach/internal/config"
	"alcyxob/fitcoach/internal/domain"

	log "github.com/sirupsen/logrus"
)

const opGenerate = "generator.generate"

// maxResponseSize caps the body read from the generator.
const maxResponseSize = 4 << 20

// Client proposes a plan for a user context and free-text input.
type Client interface {
	Generate(ctx context.Context, uc *domain.UserContext, input string) (*Candidate, error)
}

type generateRequest struct {
	Context *domain.UserContext `json:"context"`
	Input   string              `json:"input"`
}

type httpClient struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPClient posts {context, input} as JSON to cfg.URL. An empty URL yields a client
// that fails every call with an upstream error.
func NewHTTPClient(cfg config.GeneratorConfig) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &httpClient{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) Generate(ctx context.Context, uc *domain.UserContext, input string) (*Candidate, error) {
	if c.url == "" {
		return nil, apperr.New(apperr.KindUpstream, opGenerate, "plan generator is not configured")
	}

	body, err := json.Marshal(generateRequest{Context: uc, Input: input})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindUpstream, Op: opGenerate, Msg: "plan generator is unreachable", Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindUpstream, Op: opGenerate, Msg: "failed to read generator response", Err: err}
	}

	log.WithFields(log.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
		"bytes":    len(payload),
	}).Debug("generator responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.New(apperr.KindUpstream, opGenerate, fmt.Sprintf("plan generator returned status %d", resp.StatusCode))
	}

	var cand Candidate
	if err := json.Unmarshal(payload, &cand); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &apperr.Error{Kind: apperr.KindUpstream, Op: opGenerate, Msg: "plan generator returned malformed JSON", Err: err}
		}
		return nil, &apperr.Error{Kind: apperr.KindInvalidInput, Op: opParse, Msg: "AI returned an invalid plan", Err: err}
	}
	return &cand, nil
}
