// Package workdir manages the installation root directory.
package workdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ErrAlreadyInstalled signals that the installation root already exists.
// It is the sole idempotency guard: a prior run, even a failed one, blocks
// re-running at the same path until the operator removes the directory.
var ErrAlreadyInstalled = errors.New("vcc has already been installed")

// Service defines the interface for installation root management.
type Service interface {
	DefaultPath() string
	Prepare(path string) (string, error)
	EnsureLogDir(root string) error
}

// Impl implements the workdir Service interface.
type Impl struct {
	logger zerolog.Logger
}

// New creates a new workdir service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{logger: logger}
}

// DefaultPath returns the default installation root, $HOME/.vcc.
func (s *Impl) DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vcc"
	}
	return filepath.Join(home, ".vcc")
}

// Prepare resolves path to an absolute location, refuses to proceed when it
// already exists, creates it with owner-only permissions and makes it the
// process working directory so later relative paths land under the root.
func (s *Impl) Prepare(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}

	if _, err := os.Stat(abs); err == nil {
		return "", fmt.Errorf("%s: %w", abs, ErrAlreadyInstalled)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking %s: %w", abs, err)
	}

	if err := os.Mkdir(abs, 0o700); err != nil {
		return "", fmt.Errorf("creating %s: %w", abs, err)
	}

	if err := os.Chdir(abs); err != nil {
		return "", fmt.Errorf("entering %s: %w", abs, err)
	}

	s.logger.Info().Str("path", abs).Msg("installation directory created")
	return abs, nil
}

// EnsureLogDir creates the log directory the rendered supervisor config
// points its programs at.
func (s *Impl) EnsureLogDir(root string) error {
	dir := filepath.Join(root, "log")
	if err := os.Mkdir(dir, 0o700); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}
