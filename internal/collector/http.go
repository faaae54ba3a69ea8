package collector

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPSource fetches snapshot files from an export server, e.g.
// https://exports.example.com/bist/2024-05-10/ACILISLAR-1.csv.
type HTTPSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPSource creates a source with optional proxy support.
func NewHTTPSource(baseURL, apiKey, proxyURL string) *HTTPSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (h *HTTPSource) Name() string { return h.BaseURL }

// Open downloads name. A 404 is reported as fs.ErrNotExist so that a missing
// export is handled like a missing file.
func (h *HTTPSource) Open(name string) (io.ReadCloser, error) {
	endpoint := h.BaseURL + "/" + url.PathEscape(name)
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if h.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.APIKey)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %w", name, fs.ErrNotExist)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d, body: %s", name, resp.StatusCode, string(body))
	}
	return resp.Body, nil
}
