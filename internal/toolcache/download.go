package toolcache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Minute
	// DefaultAttempts is the default number of download attempts
	DefaultAttempts = 3
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "setup-shellcheck"
)

// HTTPError is a download response with an unexpected status.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status downloading %s: %s", e.URL, e.Status)
}

// Downloader handles HTTP downloads with retry logic
type Downloader struct {
	client       *http.Client
	tempDir      string
	userAgent    string
	attempts     int
	initialDelay time.Duration
	progress     io.Writer
	log          *zap.SugaredLogger
}

// NewDownloader creates a downloader that writes into tempDir and draws a
// progress bar on progress (nil disables it).
func NewDownloader(tempDir string, progress io.Writer, log *zap.SugaredLogger) *Downloader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Release downloads redirect to object storage; allow up to 10 redirects
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		tempDir:      tempDir,
		userAgent:    DefaultUserAgent,
		attempts:     DefaultAttempts,
		initialDelay: time.Second,
		progress:     progress,
		log:          log,
	}
}

// DownloadTool downloads url to a new file under the temp dir and returns its path.
func (d *Downloader) DownloadTool(ctx context.Context, url string) (string, error) {
	destPath := filepath.Join(d.tempDir, uuid.NewString())
	if err := d.DownloadToFile(ctx, url, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

// DownloadToFile downloads url to destPath. Transport failures and 408, 429
// and 5xx responses are retried with exponential backoff; other statuses fail
// immediately.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = d.initialDelay

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := d.downloadOnce(ctx, url, destPath)
		if err != nil && !isRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(d.attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			d.log.Warnf("Download attempt %d/%d failed: %v. Retrying in %s", attempt, d.attempts, err, next.Round(time.Millisecond))
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("download failed after %d attempts: %w", attempt, err)
	}
	return nil
}

func isRetryable(err error) bool {
	httpErr, ok := err.(*HTTPError)
	if !ok {
		return true
	}
	switch {
	case httpErr.StatusCode == http.StatusRequestTimeout,
		httpErr.StatusCode == http.StatusTooManyRequests,
		httpErr.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// downloadOnce performs a single download attempt
func (d *Downloader) downloadOnce(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	var dst io.Writer = tmpFile
	if d.progress != nil {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(d.progress),
			progressbar.OptionSetDescription(filepath.Base(url)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		dst = io.MultiWriter(tmpFile, bar)
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}
