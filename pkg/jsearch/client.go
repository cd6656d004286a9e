package jsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHost    = "jsearch.p.rapidapi.com"
	defaultBaseURL = "https://jsearch.p.rapidapi.com"
	defaultTimeout = 30 * time.Second
)

// NewClient instantiates a JSearch API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("jsearch: api key is required")
	}

	host := cfg.Host
	if host == "" {
		host = defaultHost
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		host:       host,
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// Search runs a single search request. A 2xx response with no postings
// yields an empty slice and a nil error.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Posting, error) {
	if c == nil {
		return nil, fmt.Errorf("jsearch: client is nil")
	}

	u, err := c.buildSearchURL(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("jsearch: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if err == io.EOF {
			return []Posting{}, nil
		}
		return nil, fmt.Errorf("jsearch: decode response: %w", err)
	}

	if payload.Data == nil {
		return []Posting{}, nil
	}
	return payload.Data, nil
}

func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	if strings.TrimSpace(params.Query) == "" {
		return "", fmt.Errorf("jsearch: query is required")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("jsearch: parse base url: %w", err)
	}
	u.Path = path.Join(u.Path, "search")

	page := params.Page
	if page <= 0 {
		page = 1
	}
	numPages := params.NumPages
	if numPages <= 0 {
		numPages = 1
	}

	values := url.Values{}
	values.Set("query", params.Query)
	values.Set("page", strconv.Itoa(page))
	values.Set("num_pages", strconv.Itoa(numPages))
	if params.Country != "" {
		values.Set("country", params.Country)
	}
	if len(params.Fields) > 0 {
		values.Set("fields", strings.Join(params.Fields, ","))
	}

	u.RawQuery = values.Encode()
	return u.String(), nil
}
