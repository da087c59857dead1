package network

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestPublicIP_StripsTrailingNewline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("203.0.113.7\n"))
	}))
	defer server.Close()

	svc := NewWithClient(testLogger(), server.Client(), server.URL, server.URL)
	ip, err := svc.PublicIP(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)
}

func TestPublicIP_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewWithClient(testLogger(), server.Client(), server.URL, server.URL)
	_, err := svc.PublicIP(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestDownloadMinio_WritesExecutableBinary(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		_, _ = w.Write([]byte("minio-binary-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "minio")

	svc := NewWithClient(testLogger(), server.Client(), server.URL, server.URL)
	err := svc.DownloadMinio(context.Background(), "amd64", dest)

	require.NoError(t, err)
	assert.Equal(t, "/linux-amd64/minio", requestedPath)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "minio-binary-bytes", string(content))
}

func TestDownloadMinio_RejectsUnknownArchitecture(t *testing.T) {
	requested := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "minio")

	svc := NewWithClient(testLogger(), server.Client(), server.URL, server.URL)
	err := svc.DownloadMinio(context.Background(), "riscv64; rm -rf /", dest)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported architecture")
	// Validation happens before the URL is built: no request goes out and
	// no file is created.
	assert.False(t, requested)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadMinio_SupportedArchitectures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("bin"))
	}))
	defer server.Close()

	for _, arch := range []string{"amd64", "arm64", "ppc64le", "s390x"} {
		t.Run(arch, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "minio")

			svc := NewWithClient(testLogger(), server.Client(), server.URL, server.URL)
			assert.NoError(t, svc.DownloadMinio(context.Background(), arch, dest))
		})
	}
}

func TestDownloadMinio_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "minio")

	svc := NewWithClient(testLogger(), server.Client(), server.URL, server.URL)
	err := svc.DownloadMinio(context.Background(), "amd64", dest)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	// The error page must not end up on disk as an executable.
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}
