package aiprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaGenerate(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: `{"ok":true}`, Done: true})
	}))
	defer srv.Close()

	p := NewOllama(Config{BaseURL: srv.URL, Model: "test-model"})
	out, err := p.Generate(context.Background(), "make me a profile")
	if err != nil {
		t.Fatal(err)
	}
	if out != `{"ok":true}` {
		t.Errorf("out = %q", out)
	}
	if got.Model != "test-model" || got.Stream || got.Format != "json" {
		t.Errorf("request = %+v", got)
	}
	if got.Prompt != "make me a profile" {
		t.Errorf("prompt = %q", got.Prompt)
	}
}

func TestOllamaGenerateNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllama(Config{BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), "x"); err == nil {
		t.Fatal("expected an error on a non-200 response")
	}
}

func TestOllamaGenerateHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewOllama(Config{BaseURL: srv.URL})
	if _, err := p.Generate(ctx, "x"); err == nil {
		t.Fatal("expected a context error")
	}
}
