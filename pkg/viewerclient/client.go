// Package viewerclient is a small Go client for the plat-viewer REST API.
package viewerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to a running viewer server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for a base URL such as http://localhost:8087.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Health is the /health response body.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Info is the /api/v1/info response body.
type Info struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
}

// PaletteGroup is one palette group with its colors.
type PaletteGroup struct {
	Name   string            `json:"name"`
	Colors map[string]string `json:"colors"`
}

// Palette is the /api/v1/palette response body.
type Palette struct {
	Groups []PaletteGroup `json:"groups"`
}

// Health checks the server.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	return out, c.get(ctx, "/health", &out)
}

// Info returns service metadata.
func (c *Client) Info(ctx context.Context) (Info, error) {
	var out Info
	return out, c.get(ctx, "/api/v1/info", &out)
}

// Palette returns the current palette.
func (c *Client) Palette(ctx context.Context) (Palette, error) {
	var out Palette
	return out, c.get(ctx, "/api/v1/palette", &out)
}

// SetColor applies a single palette edit and returns the stored color.
func (c *Client) SetColor(ctx context.Context, key, color string) (string, error) {
	body, err := json.Marshal(map[string]string{"color": color})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.baseURL+"/api/v1/palette/"+url.PathEscape(key), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Color string `json:"color"`
	}
	return out.Color, c.do(req, &out)
}

// ExportPalette returns the space-separated palette export string.
func (c *Client) ExportPalette(ctx context.Context) (string, error) {
	var out struct {
		Palette string `json:"palette"`
	}
	return out.Palette, c.get(ctx, "/api/v1/palette/export", &out)
}

// Style fetches the themed style document as raw JSON plus its ETag.
func (c *Client) Style(ctx context.Context) (json.RawMessage, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/style", nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("GET /api/v1/style: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("ETag"), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %s", req.Method, req.URL.Path, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
