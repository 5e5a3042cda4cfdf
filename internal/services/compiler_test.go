package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompilerClientRun(t *testing.T) {
	var gotReq RunRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("x-rapidapi-key"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		if got := r.Header.Get("x-rapidapi-host"); got != "test-host" {
			t.Errorf("expected api host header, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(RunResult{Stdout: "hello\n", Stderr: ""})
	}))
	defer srv.Close()

	client := NewCompilerClient(srv.URL, "test-key", "test-host")
	result, err := client.Run(context.Background(), RunRequest{
		Language: "python",
		Stdin:    "input data",
		Files:    []SourceFile{{Name: "main.py", Content: "print('hello')"}},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Stdout != "hello\n" {
		t.Fatalf("expected stdout %q, got %q", "hello\n", result.Stdout)
	}
	if gotReq.Language != "python" || gotReq.Stdin != "input data" {
		t.Fatalf("request not forwarded faithfully: %+v", gotReq)
	}
	if len(gotReq.Files) != 1 || gotReq.Files[0].Name != "main.py" {
		t.Fatalf("source files not forwarded: %+v", gotReq.Files)
	}
}

func TestCompilerClientNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limit exceeded"))
	}))
	defer srv.Close()

	client := NewCompilerClient(srv.URL, "k", "h")
	_, err := client.Run(context.Background(), RunRequest{Language: "python"})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Fatalf("error should carry status and detail, got %v", err)
	}
}

func TestCompilerClientContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewCompilerClient(srv.URL, "k", "h")
	if _, err := client.Run(ctx, RunRequest{Language: "python"}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
