// Package release resolves a shellcheck version specifier to a concrete
// version, querying the GitHub releases API for "latest".
package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	// DefaultAPIURL is the GitHub REST API base URL.
	DefaultAPIURL = "https://api.github.com"
	// DefaultOwner and DefaultRepo identify the upstream repository.
	DefaultOwner = "koalaman"
	DefaultRepo  = "shellcheck"
	// DefaultAttempts is the number of metadata fetch attempts.
	DefaultAttempts = 3
	// DefaultRetryDelay is the fixed delay between attempts.
	DefaultRetryDelay = 2000 * time.Millisecond
	// DefaultTimeout bounds a single metadata request.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "setup-shellcheck"
)

// Options configures a Resolver. Zero values select the defaults.
type Options struct {
	APIURL     string
	Owner      string
	Repo       string
	Token      string
	Attempts   int
	RetryDelay time.Duration
	Client     *http.Client
	Logger     *zap.SugaredLogger
}

// Resolver turns a version specifier into a concrete version.
type Resolver struct {
	apiURL     string
	owner      string
	repo       string
	token      string
	attempts   int
	retryDelay time.Duration
	client     *http.Client
	log        *zap.SugaredLogger
}

// NewResolver creates a resolver from opts.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		apiURL:     opts.APIURL,
		owner:      opts.Owner,
		repo:       opts.Repo,
		token:      opts.Token,
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
		client:     opts.Client,
		log:        opts.Logger,
	}
	if r.apiURL == "" {
		r.apiURL = DefaultAPIURL
	}
	if r.owner == "" {
		r.owner = DefaultOwner
	}
	if r.repo == "" {
		r.repo = DefaultRepo
	}
	if r.attempts <= 0 {
		r.attempts = DefaultAttempts
	}
	if r.retryDelay < 0 {
		r.retryDelay = 0
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: DefaultTimeout}
	}
	if r.log == nil {
		r.log = zap.NewNop().Sugar()
	}
	return r
}

type releaseResponse struct {
	TagName *string `json:"tag_name"`
}

// statusError is a non-200 response from the releases API.
type statusError struct {
	status      string
	rateLimited bool
	reset       string
}

func (e *statusError) Error() string {
	if e.rateLimited {
		return fmt.Sprintf("GitHub API responded %s: rate limit exceeded (resets at %s)", e.status, e.reset)
	}
	return fmt.Sprintf("GitHub API responded %s", e.status)
}

// ResolveVersion returns specifier unchanged when it is a strict version and
// the tag of the latest upstream release when it is "latest".
func (r *Resolver) ResolveVersion(ctx context.Context, specifier string) (string, error) {
	if specifier != Latest {
		if !IsStrictVersion(specifier) {
			return "", fmt.Errorf("%w: %q (use %q or a version like 0.10.0)", ErrInvalidVersionSpecifier, specifier, Latest)
		}
		return specifier, nil
	}

	tag, err := r.fetchLatestTag(ctx)
	if err != nil {
		return "", err
	}

	version := stripTagPrefix(tag)
	if !IsStrictVersion(version) {
		return "", fmt.Errorf("%w: tag_name %q is not a version", ErrMalformedReleaseMetadata, tag)
	}

	r.log.Debugf("Resolved latest %s release to %s", r.repo, version)
	return version, nil
}

func (r *Resolver) latestURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/releases/latest", r.apiURL, r.owner, r.repo)
}

// fetchLatestTag retries transport failures only. A response that arrives,
// whatever its status, is final.
func (r *Resolver) fetchLatestTag(ctx context.Context) (string, error) {
	attempt := 0
	operation := func() (string, error) {
		attempt++
		return r.fetchOnce(ctx)
	}

	notify := func(err error, _ time.Duration) {
		r.log.Warnf("Failed to get the latest version of %s. (%v) Retry... %d/%d", r.repo, err, attempt, r.attempts)
	}

	tag, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(r.retryDelay)),
		backoff.WithMaxTries(uint(r.attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(notify),
	)
	if err == nil {
		return tag, nil
	}

	var statusErr *statusError
	switch {
	case errors.As(err, &statusErr):
		return "", fmt.Errorf("%w: failed to get the latest version of %s: %v", ErrLatestVersionUnavailable, r.repo, statusErr)
	case errors.Is(err, ErrMalformedReleaseMetadata):
		return "", err
	case ctx.Err() != nil:
		return "", fmt.Errorf("%w: failed to get the latest version of %s: %v", ErrLatestVersionUnavailable, r.repo, ctx.Err())
	default:
		return "", fmt.Errorf("%w: failed to get the latest version of %s after %d attempts: %v. "+
			"The GitHub API rate limit may have been exceeded; set the token input to authenticate",
			ErrLatestVersionUnavailable, r.repo, attempt, err)
	}
}

// fetchOnce performs a single metadata request. Errors that must not be
// retried are wrapped with backoff.Permanent.
func (r *Resolver) fetchOnce(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.latestURL(), nil)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", DefaultUserAgent)
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := &statusError{status: resp.Status}
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			statusErr.rateLimited = true
			statusErr.reset = rateLimitReset(resp.Header.Get("X-RateLimit-Reset"))
		}
		return "", backoff.Permanent(statusErr)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	var release releaseResponse
	if err := json.Unmarshal(body, &release); err != nil {
		return "", backoff.Permanent(fmt.Errorf("%w: %v", ErrMalformedReleaseMetadata, err))
	}
	if release.TagName == nil || *release.TagName == "" {
		return "", backoff.Permanent(fmt.Errorf("%w: tag_name is missing", ErrMalformedReleaseMetadata))
	}

	return *release.TagName, nil
}

func rateLimitReset(header string) string {
	var epoch int64
	if _, err := fmt.Sscanf(header, "%d", &epoch); err != nil || epoch <= 0 {
		return "an unknown time"
	}
	return time.Unix(epoch, 0).UTC().Format(time.RFC3339)
}
