// Package upstream is the client of the remote fraud analysis service.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"go.uber.org/zap"
)

// Default service settings.
const (
	DefaultBaseURL = "https://fraud-detection-api-qqgl.onrender.com"
	DefaultTimeout = 60 * time.Second
)

// APIKeyHeader carries the opaque credential on every request.
const APIKeyHeader = "x-api-key"

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

// Client calls the health and analyze endpoints.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new Client. A nil logger discards logs.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  hc,
		logger:  logger,
	}
}

// Health returns the status payload of GET /health.
func (c *Client) Health(ctx context.Context) (models.RawValue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return models.RawValue{}, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

// Analyze uploads a statement as the multipart field "file" and returns the
// analysis result. A 422 answer is returned as *ValidationError.
func (c *Client) Analyze(ctx context.Context, filename string, r io.Reader) (models.RawValue, error) {
	if err := ValidateUpload(filename); err != nil {
		return models.RawValue{}, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return models.RawValue{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return models.RawValue{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return models.RawValue{}, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-statement", &body)
	if err != nil {
		return models.RawValue{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

// AnalyzeFile is Analyze for a file on disk.
func (c *Client) AnalyzeFile(ctx context.Context, path string) (models.RawValue, error) {
	if err := ValidateUpload(path); err != nil {
		return models.RawValue{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return models.RawValue{}, err
	}
	defer f.Close()
	return c.Analyze(ctx, path, f)
}

func (c *Client) do(req *http.Request) (models.RawValue, error) {
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed",
			zap.String("path", req.URL.Path),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return models.RawValue{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream response",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		verr := &ValidationError{}
		if err := json.NewDecoder(resp.Body).Decode(verr); err != nil {
			c.logger.Warn("unreadable validation response", zap.Error(err))
		}
		return models.RawValue{}, verr
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.RawValue{}, fmt.Errorf("%w: %s returned %s: %s",
			ErrUpstreamUnavailable, req.URL.Path, resp.Status, strings.TrimSpace(string(body)))
	}

	raw, err := models.Decode(resp.Body)
	if err != nil {
		return models.RawValue{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return raw, nil
}
