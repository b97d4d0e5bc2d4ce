package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Fetcher defines the read operations exposed by the recipes API.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchRecipes(ctx context.Context) Envelope[RecipeCollection]
	FetchRecipeByID(ctx context.Context, id int) Envelope[Recipe]
	FetchRecipeByTag(ctx context.Context, tag string) Envelope[RecipeCollection]
	FetchTags(ctx context.Context) Envelope[[]Tag]
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the recipes HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// RequestTimeout bounds every request issued by a Client.
const RequestTimeout = 10 * time.Second

const (
	defaultUserAgent = "kitchen/0.1"
	contentTypeJSON  = "application/json"
	maxDrainBytes    = 64 << 10
)

// NewClient builds a Client bound to the given base endpoint.
func NewClient(endpoint string) (*Client, error) {
	base, err := parseBaseURL(endpoint)
	if err != nil {
		return nil, err
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: RequestTimeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   RequestTimeout,
		ExpectContinueTimeout: time.Second,
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   RequestTimeout,
			Transport: transport,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the endpoint every request path is appended to.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Get issues a GET for base endpoint + path and decodes the JSON body into dest.
// Failures are returned as *Error so Describe can classify them.
func (c *Client) Get(ctx context.Context, path string, dest any) error {
	if c == nil || c.baseURL == nil {
		return &Error{Kind: KindRequest, Err: errors.New("client is nil")}
	}
	reqURL := strings.TrimRight(c.baseURL.String(), "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &Error{Kind: KindRequest, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNoResponse, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		return &Error{
			Kind:       KindResponse,
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			Err:        fmt.Errorf("api %q returned status %d", displayPath(path), resp.StatusCode),
		}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &Error{Kind: KindRequest, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// statusText extracts the reason phrase from the server's status line.
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	phrase := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(resp.Status), code))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}

func displayPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func parseBaseURL(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("api endpoint is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api endpoint %q must use http or https", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api endpoint %q has no host", endpoint)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
