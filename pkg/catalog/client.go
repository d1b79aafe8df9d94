package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "cardfetch/pkg/errors"
	"cardfetch/pkg/logger"
)

// Options configures a Client
type Options struct {
	Endpoint       string
	UserAgent      string
	CatalogTimeout time.Duration
	AssetTimeout   time.Duration
	// MaxAssetSize caps a single asset body in bytes; 0 means no limit
	MaxAssetSize int64
}

// Client talks to the catalog API and the image host it points at
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	opts       Options
	logger     logger.Logger
}

// NewClient creates a new catalog client
func NewClient(opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		headers: map[string]string{
			"User-Agent": opts.UserAgent,
			"Accept":     "*/*",
		},
		opts:   opts,
		logger: log.WithField("component", "catalog"),
	}
}

// SetHeader sets a custom header sent with every request
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// Endpoint returns the catalog URL this client fetches
func (c *Client) Endpoint() string {
	return c.opts.Endpoint
}

// doRequest performs a GET with the configured headers. The caller owns the
// response body.
func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"method":      req.Method,
			"url":         url,
			"error":       err.Error(),
			"duration_ms": elapsed,
		})
		return nil, err
	}

	logger.LogRequest(c.logger, req.Method, url, resp.StatusCode, elapsed)
	return resp, nil
}

// FetchCatalog downloads and parses the full catalog. Any failure here is
// fatal to a run: transport errors and non-2xx statuses are
// catalog_unavailable, an unexpected payload shape is catalog_malformed.
func (c *Client) FetchCatalog(ctx context.Context) (*Catalog, error) {
	if c.opts.CatalogTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.CatalogTimeout)
		defer cancel()
	}

	c.logger.DebugWithFields("fetching catalog", map[string]interface{}{
		"endpoint": c.opts.Endpoint,
	})

	resp, err := c.doRequest(ctx, c.opts.Endpoint)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeCatalogUnavailable, err, "catalog request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.ErrorWithFields("catalog request rejected", map[string]interface{}{
			"endpoint": c.opts.Endpoint,
			"status":   resp.StatusCode,
		})
		return nil, errs.New(errs.ErrorTypeCatalogUnavailable, resp.StatusCode, "unexpected status %d from catalog", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeCatalogUnavailable, err, "failed to read catalog body")
	}

	cat, err := Parse(body)
	if err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse catalog", map[string]interface{}{
			"endpoint":     c.opts.Endpoint,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, err
	}

	c.logger.InfoWithFields("catalog fetched", map[string]interface{}{
		"items":   cat.Len(),
		"invalid": cat.InvalidCount(),
		"bytes":   len(body),
	})
	return cat, nil
}

// FetchAsset downloads the raw bytes at url. The content type is not checked.
func (c *Client) FetchAsset(ctx context.Context, url string) ([]byte, error) {
	if c.opts.AssetTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.AssetTimeout)
		defer cancel()
	}

	resp, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, err, "asset request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.New(errs.TypeForStatusCode(resp.StatusCode), resp.StatusCode, "unexpected status %d for %s", resp.StatusCode, url)
	}

	var body io.Reader = resp.Body
	if c.opts.MaxAssetSize > 0 {
		body = io.LimitReader(resp.Body, c.opts.MaxAssetSize+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, err, "failed to read asset body")
	}
	if c.opts.MaxAssetSize > 0 && int64(len(data)) > c.opts.MaxAssetSize {
		return nil, errs.New(errs.ErrorTypeUnknown, resp.StatusCode, "asset exceeds max size of %d bytes", c.opts.MaxAssetSize)
	}

	return data, nil
}

// Close releases idle connections held by the client
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
