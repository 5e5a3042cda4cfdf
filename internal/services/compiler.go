package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// SourceFile is one file handed to the remote compiler.
type SourceFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// RunRequest executes the given files with Stdin piped to the program.
type RunRequest struct {
	Language string       `json:"language"`
	Stdin    string       `json:"stdin"`
	Files    []SourceFile `json:"files"`
}

// RunResult mirrors the compiler API response. Any of the three fields may
// be empty; Error carries compile/runtime diagnostics the service reports
// outside of stderr.
type RunResult struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Error  string `json:"error"`
}

// CodeRunner abstracts the external code-execution service.
type CodeRunner interface {
	Run(ctx context.Context, req RunRequest) (*RunResult, error)
}

// CompilerClient calls a hosted "run this source against stdin" HTTP API.
type CompilerClient struct {
	url     string
	apiKey  string
	apiHost string
	client  *http.Client
}

func NewCompilerClient(url, apiKey, apiHost string) *CompilerClient {
	return &CompilerClient{
		url:     url,
		apiKey:  apiKey,
		apiHost: apiHost,
		// Per-call deadlines come from the caller's context; no client-wide
		// timeout on top of that.
		client: &http.Client{},
	}
}

func (c *CompilerClient) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build run request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-rapidapi-key", c.apiKey)
	httpReq.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("compiler request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("compiler returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	var result RunResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode compiler response: %w", err)
	}
	return &result, nil
}
