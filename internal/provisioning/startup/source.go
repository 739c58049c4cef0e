package startup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/imamik/genesis/internal/config"
	"github.com/imamik/genesis/internal/platform/gcs"
	"github.com/imamik/genesis/internal/platform/s3"
	"github.com/imamik/genesis/internal/provisioning"
)

// EnvS3Endpoint points s3:// URLs at an S3-compatible service.
const EnvS3Endpoint = "GENESIS_S3_ENDPOINT"

// FetchFunc downloads the object addressed by u.
type FetchFunc func(ctx context.Context, u *url.URL) ([]byte, error)

// Source loads the startup script from a local file or a URL.
type Source struct {
	path       string
	rawURL     string
	executable func() (string, error)
	fetchers   map[string]FetchFunc
	timeout    time.Duration
	logger     provisioning.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithExecutable replaces os.Executable when resolving relative paths.
func WithExecutable(fn func() (string, error)) Option {
	return func(s *Source) {
		s.executable = fn
	}
}

// WithHTTPClient sets the client used for http:// and https:// URLs.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Source) {
		s.fetchers["http"] = HTTPFetcher(hc)
		s.fetchers["https"] = HTTPFetcher(hc)
	}
}

// WithFetcher registers fn for URLs with the given scheme.
func WithFetcher(scheme string, fn FetchFunc) Option {
	return func(s *Source) {
		s.fetchers[scheme] = fn
	}
}

// WithLogger sets where the chosen source is reported.
func WithLogger(l provisioning.Logger) Option {
	return func(s *Source) {
		s.logger = l
	}
}

// NewSource creates a Source for cfg.
// A zero cfg.Timeout falls back to config.DefaultStartupTimeout.
func NewSource(cfg config.StartupConfig, opts ...Option) *Source {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultStartupTimeout
	}
	hc := &http.Client{Timeout: timeout}

	s := &Source{
		path:       cfg.Path,
		rawURL:     cfg.URL,
		executable: os.Executable,
		timeout:    timeout,
		fetchers: map[string]FetchFunc{
			"http":  HTTPFetcher(hc),
			"https": HTTPFetcher(hc),
			"s3":    fetchS3,
			"gs":    fetchGCS,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolvePath returns the local script path. Relative paths are taken
// relative to the directory holding the executable.
func (s *Source) ResolvePath() (string, error) {
	if s.path == "" || filepath.IsAbs(s.path) {
		return s.path, nil
	}
	exe, err := s.executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), s.path), nil
}

// Load returns the startup script.
func (s *Source) Load(ctx context.Context) (string, error) {
	path, err := s.ResolvePath()
	if err != nil {
		return "", err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			s.logf("Using local startup script %s", path)
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to read startup script: %w", err)
		}
	}

	if s.rawURL == "" {
		return "", fmt.Errorf("startup script %q not found and no startup URL configured", path)
	}

	u, err := url.Parse(s.rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid startup URL %q: %w", s.rawURL, err)
	}
	fetch, ok := s.fetchers[u.Scheme]
	if !ok {
		return "", fmt.Errorf("unsupported startup URL scheme %q", u.Scheme)
	}

	s.logf("Fetching startup script from %s", s.rawURL)
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	data, err := fetch(fetchCtx, u)
	if err != nil {
		return "", fmt.Errorf("failed to fetch startup script from %s: %w", s.rawURL, err)
	}
	return string(data), nil
}

func (s *Source) logf(format string, v ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, v...)
	}
}

// HTTPFetcher returns a FetchFunc that GETs the URL with hc. Any status
// outside 2xx is an error.
func HTTPFetcher(hc *http.Client) FetchFunc {
	return func(ctx context.Context, u *url.URL) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := hc.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
}

// objectPath splits bucket-style URLs such as s3://bucket/key.
func objectPath(u *url.URL) (bucket, key string, err error) {
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("URL %q must name a bucket and an object", u.String())
	}
	return bucket, key, nil
}

func fetchS3(ctx context.Context, u *url.URL) ([]byte, error) {
	bucket, key, err := objectPath(u)
	if err != nil {
		return nil, err
	}
	endpoint := os.Getenv(EnvS3Endpoint)
	client, err := s3.NewClient(ctx, s3.Options{
		Endpoint:     endpoint,
		UsePathStyle: endpoint != "",
	})
	if err != nil {
		return nil, err
	}
	return client.GetObject(ctx, bucket, key)
}

func fetchGCS(ctx context.Context, u *url.URL) ([]byte, error) {
	bucket, object, err := objectPath(u)
	if err != nil {
		return nil, err
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = client.Close()
	}()
	return client.ReadObject(ctx, bucket, object)
}
