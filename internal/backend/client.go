// Package backend is the HTTP client for the retrieval/answer-generation
// service. The service is an external collaborator: this client only speaks
// its request/response contract and maps wire sources into citations.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"docchat-client/internal/citation"
	"docchat-client/internal/transcript"
)

// Client communicates with the RAG backend HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client. The timeout bounds every call; the
// core delegates all timeout policy to this boundary.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type queryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

type queryResponse struct {
	Success bool            `json:"success"`
	Answer  string          `json:"answer"`
	Sources []citation.Wire `json:"sources"`
	Detail  string          `json:"detail,omitempty"`
}

// Answer asks the backend a question. Implements transcript.AnswerService.
// Sources keep their returned order; sources with an unknown type tag are
// skipped rather than failing the answer.
func (c *Client) Answer(ctx context.Context, question string, topK int) (transcript.Answer, error) {
	if topK < 1 {
		topK = 3
	}
	if topK > 10 {
		topK = 10
	}
	body, err := json.Marshal(queryRequest{Question: question, TopK: topK})
	if err != nil {
		return transcript.Answer{}, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return transcript.Answer{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transcript.Answer{}, fmt.Errorf("query backend: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return transcript.Answer{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return transcript.Answer{}, fmt.Errorf("query status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	var qr queryResponse
	if err := json.Unmarshal(respBody, &qr); err != nil {
		return transcript.Answer{}, fmt.Errorf("decode query response: %w", err)
	}
	if !qr.Success {
		return transcript.Answer{}, fmt.Errorf("query failed: %s", qr.Detail)
	}

	ans := transcript.Answer{Text: qr.Answer}
	for _, w := range qr.Sources {
		if c := citation.FromWire(w); c != nil {
			ans.Sources = append(ans.Sources, c)
		}
	}
	return ans, nil
}

// UploadResult is the backend's response to a PDF upload.
type UploadResult struct {
	Filename    string `json:"filename"`
	TotalChunks int    `json:"total_chunks"`
	Message     string `json:"message"`
}

// ProgressFunc receives the transfer percentage (0-100) during an upload.
type ProgressFunc func(pct int)

// UploadPDF sends a PDF to the backend for ingestion. progress, if non-nil,
// is called as the request body is transferred.
func (c *Client) UploadPDF(ctx context.Context, filename string, data []byte, progress ProgressFunc) (UploadResult, error) {
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return UploadResult{}, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("close form: %w", err)
	}

	body := io.Reader(&form)
	if progress != nil {
		body = &progressReader{r: &form, total: int64(form.Len()), report: progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return UploadResult{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return UploadResult{}, fmt.Errorf("upload status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	var out UploadResult
	if err := json.Unmarshal(respBody, &out); err != nil {
		return UploadResult{}, fmt.Errorf("decode upload response: %w", err)
	}
	if progress != nil {
		progress(100)
	}
	return out, nil
}

// YouTubeResult is the backend's response to a YouTube ingestion request.
type YouTubeResult struct {
	VideoID     string `json:"video_id"`
	VideoTitle  string `json:"video_title"`
	TotalChunks int    `json:"total_chunks"`
	Message     string `json:"message"`
}

// UploadYouTube asks the backend to ingest a YouTube video's transcript.
func (c *Client) UploadYouTube(ctx context.Context, videoURL string) (YouTubeResult, error) {
	body, err := json.Marshal(map[string]string{"url": videoURL})
	if err != nil {
		return YouTubeResult{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/youtube", bytes.NewReader(body))
	if err != nil {
		return YouTubeResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return YouTubeResult{}, fmt.Errorf("upload youtube: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return YouTubeResult{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return YouTubeResult{}, fmt.Errorf("upload youtube status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	var out YouTubeResult
	if err := json.Unmarshal(respBody, &out); err != nil {
		return YouTubeResult{}, fmt.Errorf("decode youtube response: %w", err)
	}
	return out, nil
}

// Health probes the backend health endpoint and returns its status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("health: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out); err != nil {
		return "", fmt.Errorf("decode health: %w", err)
	}
	if out.Status == "" {
		out.Status = "unknown"
	}
	return out.Status, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// progressReader reports transfer percentage as the request body drains.
type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.sent += int64(n)
		pct := int(p.sent * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		p.report(pct)
	}
	return n, err
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
