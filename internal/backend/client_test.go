package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"docchat-client/internal/citation"
)

func TestAnswer_MapsSourcesInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Question string `json:"question"`
			TopK     int    `json:"top_k"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.TopK != 3 {
			t.Errorf("top_k = %d, want 3", req.TopK)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"answer": "See pages 7 and 2.",
			"sources": [
				{"type":"pdf","page":7,"filename":"a.pdf","text":"first","score":0.91},
				{"type":"pdf","page":2,"filename":"a.pdf","text":"second","score":0.84},
				{"type":"hologram","text":"ignored","score":0.5}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	defer c.Close()

	ans, err := c.Answer(context.Background(), "where?", 3)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.Text != "See pages 7 and 2." {
		t.Errorf("answer text = %q", ans.Text)
	}
	if len(ans.Sources) != 2 {
		t.Fatalf("sources = %d, want 2 (unknown type skipped)", len(ans.Sources))
	}
	first, ok := ans.Sources[0].(citation.DocumentCitation)
	if !ok || first.Page != 7 {
		t.Errorf("sources[0] = %+v, want page 7 first (order preserved)", ans.Sources[0])
	}
}

func TestAnswer_ClampsTopK(t *testing.T) {
	var gotTopK int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TopK int `json:"top_k"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotTopK = req.TopK
		w.Write([]byte(`{"success":true,"answer":"ok","sources":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.Answer(context.Background(), "q", 99); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if gotTopK != 10 {
		t.Errorf("top_k = %d, want clamped 10", gotTopK)
	}
}

func TestAnswer_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"index empty"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.Answer(context.Background(), "q", 3); err == nil {
		t.Error("err = nil, want error on 500")
	}
}

func TestUploadPDF_MultipartAndProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		f.Close()
		if header.Filename != "doc.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"filename":"doc.pdf","total_chunks":15,"message":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)

	finalPct := 0
	res, err := c.UploadPDF(context.Background(), "doc.pdf", []byte("%PDF-1.4 fake"), func(pct int) {
		finalPct = pct
	})
	if err != nil {
		t.Fatalf("UploadPDF: %v", err)
	}
	if res.TotalChunks != 15 || res.Filename != "doc.pdf" {
		t.Errorf("result = %+v", res)
	}
	if finalPct != 100 {
		t.Errorf("final progress = %d, want 100", finalPct)
	}
}

func TestUploadYouTube(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload/youtube" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			URL string `json:"url"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.URL == "" {
			t.Error("empty url forwarded")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"video_id":"abc123","video_title":"X","total_chunks":9,"message":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	res, err := c.UploadYouTube(context.Background(), "https://youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("UploadYouTube: %v", err)
	}
	if res.VideoID != "abc123" || res.VideoTitle != "X" {
		t.Errorf("result = %+v", res)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if status != "healthy" {
		t.Errorf("status = %q", status)
	}
}
