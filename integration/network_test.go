//go:build integration

package integration

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcc-chat/vcc-installer/internal/services/network"
)

func requireLiveNetwork(t *testing.T) {
	t.Helper()

	if os.Getenv("TEST_LIVE_NETWORK") == "" {
		t.Skip("TEST_LIVE_NETWORK not set")
	}
}

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func TestPublicIP_Integration(t *testing.T) {
	requireLiveNetwork(t)

	svc := network.New(testLogger())
	ip, err := svc.PublicIP(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, net.ParseIP(ip), "IP-echo response should parse as an address: %q", ip)
}

func TestDownloadMinio_Integration(t *testing.T) {
	requireLiveNetwork(t)

	// The server binary is large; only fetch it when explicitly asked for.
	if os.Getenv("TEST_MINIO_DOWNLOAD") == "" {
		t.Skip("TEST_MINIO_DOWNLOAD not set")
	}

	dest := filepath.Join(t.TempDir(), "minio")

	svc := network.New(testLogger())
	err := svc.DownloadMinio(context.Background(), "amd64", dest)

	require.NoError(t, err)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	assert.Greater(t, info.Size(), int64(1<<20), "server binary should be at least a megabyte")
}
