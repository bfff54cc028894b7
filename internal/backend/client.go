// Package backend talks to the external keyword classification service.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/search-term-analyzer/internal/common"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/service"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultBaseURL is the hosted classification service.
const DefaultBaseURL = "https://search-term-analyzer-3.onrender.com"

// Fallback messages used when the service gives no usable reason.
const (
	processFallback  = "Failed to process files"
	downloadFallback = "Failed to download file"
)

// Config configures a Client.
type Config struct {
	Logger      *slog.Logger
	BaseURL     string
	Timeout     time.Duration // zero means no timeout
	PingWait    time.Duration
	PingRetries int
}

// Client is an HTTP client for the classification service. Only the health
// check is retried; uploads may trigger a full recomputation server-side and
// are sent exactly once.
type Client struct {
	http    *retryablehttp.Client
	logger  *slog.Logger
	baseURL string
}

var _ service.Analyzer = (*Client)(nil)

// New creates a Client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", common.ErrInvalidConfig, cfg.BaseURL)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rc := retryablehttp.NewClient()
	rc.Logger = logger
	rc.RetryMax = cfg.PingRetries
	if cfg.PingRetries < 0 {
		rc.RetryMax = 0
	}
	if cfg.PingWait > 0 {
		rc.RetryWaitMin = cfg.PingWait
		rc.RetryWaitMax = cfg.PingWait * 4
	}
	rc.HTTPClient.Timeout = cfg.Timeout

	return &Client{
		http:    rc,
		logger:  logger,
		baseURL: baseURL,
	}, nil
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Process uploads both reports and decodes the classification result.
// A non-2xx answer becomes a *RemoteError carrying the service's message.
func (c *Client) Process(ctx context.Context, req service.AnalysisRequest) (model.ClassificationResult, error) {
	httpReq, err := c.newUpload(ctx, "/process", req)
	if err != nil {
		return model.ClassificationResult{}, err
	}

	start := time.Now()
	resp, err := c.http.HTTPClient.Do(httpReq)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("process response",
		"product_type", req.ProductType,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start))

	if !success(resp.StatusCode) {
		return model.ClassificationResult{}, &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, processFallback),
			Err:        common.ErrProcessingFailed,
		}
	}

	return DecodeResult(body)
}

// Download asks the service to render the analysis as a spreadsheet. The
// caller owns the returned body.
func (c *Client) Download(ctx context.Context, req service.AnalysisRequest) (service.Artifact, error) {
	httpReq, err := c.newUpload(ctx, "/download", req)
	if err != nil {
		return service.Artifact{}, err
	}

	resp, err := c.http.HTTPClient.Do(httpReq)
	if err != nil {
		return service.Artifact{}, fmt.Errorf("request failed: %w", err)
	}

	if !success(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return service.Artifact{}, &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    downloadFallback,
			Err:        common.ErrExportFailed,
		}
	}

	return service.Artifact{Body: resp.Body, Size: resp.ContentLength}, nil
}

// Ping calls the service's health route, retrying with backoff.
func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrServerUnhealthy, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if !success(resp.StatusCode) {
		return "", fmt.Errorf("%w: status %d", common.ErrServerUnhealthy, resp.StatusCode)
	}

	return strings.TrimSpace(string(body)), nil
}

// newUpload builds the multipart POST shared by /process and /download.
func (c *Client) newUpload(ctx context.Context, path string, req service.AnalysisRequest) (*http.Request, error) {
	if req.SearchFile == "" || req.TargetingFile == "" {
		return nil, common.ErrMissingFiles
	}

	body, contentType, err := encodeForm(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	return httpReq, nil
}

// encodeForm writes the four form fields the service expects.
func encodeForm(req service.AnalysisRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := attachFile(w, "search_file", req.SearchFile); err != nil {
		return nil, "", err
	}
	if err := attachFile(w, "targeting_file", req.TargetingFile); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("positive_order_threshold", strconv.Itoa(req.Threshold)); err != nil {
		return nil, "", fmt.Errorf("failed to write threshold: %w", err)
	}
	if err := w.WriteField("product_type", string(req.ProductType)); err != nil {
		return nil, "", fmt.Errorf("failed to write product type: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func attachFile(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path) // #nosec G304 -- user-selected report
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", common.ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}
