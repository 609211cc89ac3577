package videometa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTitle_ViaOEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oembed" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Intro to Transformers"}`))
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL, 5*time.Second)
	title, err := c.Title(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Title: %v", err)
	}
	if title != "Intro to Transformers" {
		t.Errorf("title = %q", title)
	}
}

func TestTitle_FallsBackToWatchPageScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oembed":
			http.Error(w, "not available", http.StatusUnauthorized)
		case "/watch":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head><title>Intro to Transformers - YouTube</title></head><body></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL, 5*time.Second)
	title, err := c.Title(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Title: %v", err)
	}
	if title != "Intro to Transformers" {
		t.Errorf("title = %q, want suffix stripped", title)
	}
}

func TestTitle_BothPathsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL, 5*time.Second)
	if _, err := c.Title(context.Background(), "abc123"); err == nil {
		t.Error("err = nil, want failure when both lookups fail")
	}
}
