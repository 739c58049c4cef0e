package startup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/genesis/internal/config"
	testutil "github.com/imamik/genesis/internal/testing"
)

// fakeExecutable places the executable in dir.
func fakeExecutable(dir string) Option {
	return WithExecutable(func() (string, error) {
		return filepath.Join(dir, "genesis"), nil
	})
}

func payloadServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	hits := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, hits
}

func TestLoad_PrefersLocalFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bigbang.sh"), []byte("local"), 0o600))
	server, hits := payloadServer(t, http.StatusOK, "remote")
	logger := testutil.NewRecordingObserver()

	src := NewSource(config.StartupConfig{Path: "bigbang.sh", URL: server.URL}, fakeExecutable(dir), WithLogger(logger))

	script, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local", script)
	assert.Zero(t, hits.Load())
	assert.Equal(t, []string{"Using local startup script " + filepath.Join(dir, "bigbang.sh")}, logger.Messages)
}

func TestLoad_FallsBackToURL(t *testing.T) {
	t.Parallel()
	server, hits := payloadServer(t, http.StatusOK, "#!/bin/bash\necho remote\n")

	src := NewSource(config.StartupConfig{Path: "bigbang.sh", URL: server.URL + "/bigbang.sh"},
		fakeExecutable(t.TempDir()), WithHTTPClient(server.Client()))

	script, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/bash\necho remote\n", script)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLoad_Non2xxIsError(t *testing.T) {
	t.Parallel()
	server, _ := payloadServer(t, http.StatusNotFound, "404: Not Found")

	src := NewSource(config.StartupConfig{Path: "bigbang.sh", URL: server.URL}, fakeExecutable(t.TempDir()))

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected HTTP status 404")
}

func TestLoad_AbsolutePathIgnoresExecutable(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "custom.sh")
	require.NoError(t, os.WriteFile(path, []byte("custom"), 0o600))

	src := NewSource(config.StartupConfig{Path: path}, WithExecutable(func() (string, error) {
		return "", errors.New("must not be called")
	}))

	script, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "custom", script)
}

func TestLoad_ObjectStoreSchemes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rawURL     string
		wantBucket string
		wantKey    string
	}{
		{"s3://payloads/bootstrap/bigbang.sh", "payloads", "bootstrap/bigbang.sh"},
		{"gs://payloads/bigbang.sh", "payloads", "bigbang.sh"},
	}
	for _, tt := range tests {
		t.Run(tt.rawURL, func(t *testing.T) {
			t.Parallel()
			var bucket, key string
			fetch := func(_ context.Context, u *url.URL) ([]byte, error) {
				var err error
				bucket, key, err = objectPath(u)
				return []byte("object"), err
			}
			u, _ := url.Parse(tt.rawURL)

			src := NewSource(config.StartupConfig{URL: tt.rawURL}, WithFetcher(u.Scheme, fetch))
			script, err := src.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "object", script)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.StartupConfig
		wantErr string
	}{
		{"no url", config.StartupConfig{Path: "missing.sh"}, "no startup URL configured"},
		{"unsupported scheme", config.StartupConfig{URL: "ftp://example.com/bigbang.sh"}, `unsupported startup URL scheme "ftp"`},
		{"invalid url", config.StartupConfig{URL: "http://[::1"}, "invalid startup URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := NewSource(tt.cfg, fakeExecutable(t.TempDir()))
			_, err := src.Load(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ExecutableLookupFails(t *testing.T) {
	t.Parallel()
	src := NewSource(config.StartupConfig{Path: "bigbang.sh"}, WithExecutable(func() (string, error) {
		return "", errors.New("no proc")
	}))

	_, err := src.Load(context.Background())
	assert.ErrorContains(t, err, "failed to locate executable")
}

func TestObjectPath_RequiresBucketAndKey(t *testing.T) {
	t.Parallel()
	u, _ := url.Parse("s3://payloads/")
	_, _, err := objectPath(u)
	assert.Error(t, err)
}

// stalledServer accepts requests and never answers until the client gives up.
func stalledServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLoad_StalledDownloadTimesOut(t *testing.T) {
	t.Parallel()
	server := stalledServer(t)

	src := NewSource(config.StartupConfig{
		Path:    "bigbang.sh",
		URL:     server.URL + "/bigbang.sh",
		Timeout: 50 * time.Millisecond,
	}, fakeExecutable(t.TempDir()))

	start := time.Now()
	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch startup script")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestLoad_TimeoutAppliesToCustomFetchers(t *testing.T) {
	t.Parallel()

	var deadline time.Time
	src := NewSource(config.StartupConfig{URL: "s3://bucket/bigbang.sh", Timeout: time.Minute},
		WithFetcher("s3", func(ctx context.Context, _ *url.URL) ([]byte, error) {
			var ok bool
			deadline, ok = ctx.Deadline()
			assert.True(t, ok)
			return []byte("script"), nil
		}))

	_, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}
