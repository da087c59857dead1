// Package network performs the installer's two HTTPS fetches: the public IP
// discovery and the MinIO server binary download.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vcc-chat/vcc-installer/internal/models"
)

const (
	defaultIPEchoURL       = "https://checkip.amazonaws.com"
	defaultDownloadBaseURL = "https://dl.min.io/server/minio/release"
)

// Service defines the interface for network fetches.
type Service interface {
	PublicIP(ctx context.Context) (string, error)
	DownloadMinio(ctx context.Context, arch, dest string) error
}

// HTTPClient allows mocking HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Impl implements the network Service interface.
type Impl struct {
	httpClient      HTTPClient
	logger          zerolog.Logger
	ipEchoURL       string
	downloadBaseURL string
}

// New creates a new network service. Requests carry no fixed timeout; they
// are cancelled through the caller's context.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		httpClient:      &http.Client{},
		logger:          logger,
		ipEchoURL:       defaultIPEchoURL,
		downloadBaseURL: defaultDownloadBaseURL,
	}
}

// NewWithClient creates a new network service with a custom HTTP client and
// endpoints (for testing).
func NewWithClient(logger zerolog.Logger, httpClient HTTPClient, ipEchoURL, downloadBaseURL string) *Impl {
	return &Impl{
		httpClient:      httpClient,
		logger:          logger,
		ipEchoURL:       ipEchoURL,
		downloadBaseURL: downloadBaseURL,
	}
}

// PublicIP asks the IP-echo endpoint for this host's public address and
// strips the trailing newline from the response body.
func (s *Impl) PublicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ipEchoURL, nil)
	if err != nil {
		return "", fmt.Errorf("building IP lookup request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("looking up public IP: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("IP lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading IP lookup response: %w", err)
	}

	ip := strings.TrimRight(string(body), "\r\n")
	s.logger.Info().Str("ip", ip).Msg("public IP discovered")
	return ip, nil
}

// DownloadMinio fetches the MinIO server build for arch and writes it to
// dest. The architecture is validated before the URL is built, and the
// destination is created with owner-executable permissions before any
// content is written, so a non-executable binary never exists on disk.
func (s *Impl) DownloadMinio(ctx context.Context, arch, dest string) error {
	if !models.ValidArchitecture(arch) {
		return fmt.Errorf("unsupported architecture %q (supported: %s)", arch, strings.Join(models.Architectures, ", "))
	}

	url := fmt.Sprintf("%s/linux-%s/minio", s.downloadBaseURL, arch)
	s.logger.Info().Str("url", url).Str("dest", dest).Msg("downloading minio")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building download request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading minio: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("minio download returned status %d", resp.StatusCode)
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o700)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dest, err)
	}

	s.logger.Info().Str("dest", dest).Msg("minio downloaded")
	return nil
}
