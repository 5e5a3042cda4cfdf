package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAIClientGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "secret" {
			t.Errorf("expected key query param, got %q", got)
		}
		var req aiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Role != "user" {
			t.Errorf("unexpected contents: %+v", req.Contents)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Day 1: basics"}]}}]}`))
	}))
	defer srv.Close()

	client := NewAIClient(srv.URL, "secret")
	text, err := client.GenerateText(context.Background(), "make a roadmap")
	if err != nil {
		t.Fatalf("GenerateText returned error: %v", err)
	}
	if text != "Day 1: basics" {
		t.Fatalf("expected candidate text, got %q", text)
	}
}

func TestAIClientEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := NewAIClient(srv.URL, "secret")
	if _, err := client.GenerateText(context.Background(), "p"); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestAIClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewAIClient(srv.URL, "secret")
	if _, err := client.GenerateText(context.Background(), "p"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestRoadmapPrompt(t *testing.T) {
	prompt := RoadmapPrompt("Go", 30)
	if !strings.Contains(prompt, "30-day") || !strings.Contains(prompt, "Go") {
		t.Fatalf("prompt missing inputs: %q", prompt)
	}
}

func TestFallbacksAreNonEmpty(t *testing.T) {
	if FallbackRoadmap("Go", 30) == "" {
		t.Fatal("fallback roadmap must not be empty")
	}
	if FallbackGuide("arrays") == "" {
		t.Fatal("fallback guide must not be empty")
	}
}
