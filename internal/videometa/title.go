// Package videometa resolves a YouTube video's title when the backend's
// upload response omits it. It asks the oEmbed endpoint first and falls
// back to scraping the watch page's <title> tag.
package videometa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Client fetches video metadata.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client against youtube.com. baseURL overrides exist
// for tests.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    "https://www.youtube.com",
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithBase returns a client against a custom base URL.
func NewClientWithBase(baseURL string, timeout time.Duration) *Client {
	c := NewClient(timeout)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// Title resolves the title for a video id.
func (c *Client) Title(ctx context.Context, videoID string) (string, error) {
	if title, err := c.oembedTitle(ctx, videoID); err == nil && title != "" {
		return title, nil
	}
	return c.scrapeTitle(ctx, videoID)
}

func (c *Client) watchURL(videoID string) string {
	return c.baseURL + "/watch?v=" + url.QueryEscape(videoID)
}

func (c *Client) oembedTitle(ctx context.Context, videoID string) (string, error) {
	u := c.baseURL + "/oembed?format=json&url=" + url.QueryEscape(c.watchURL(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("oembed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed status %d", resp.StatusCode)
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode oembed: %w", err)
	}
	return payload.Title, nil
}

func (c *Client) scrapeTitle(ctx context.Context, videoID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.watchURL(videoID), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch watch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page status %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("parse watch page: %w", err)
	}
	title := findTitle(doc)
	if title == "" {
		return "", fmt.Errorf("no title in watch page")
	}
	return strings.TrimSuffix(title, " - YouTube"), nil
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
