// Package tools wraps the external programs the installer shells out to:
// git for cloning the vcc source trees and pip for installing their
// dependencies. Only the exit status of an invocation matters; captured
// output is kept off the operator's terminal and surfaced at debug level.
package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vcc-chat/vcc-installer/internal/models"
)

// Service defines the interface for external tool invocations.
type Service interface {
	Clone(ctx context.Context, session models.Session, repo string) error
	PipInstall(ctx context.Context, session models.Session, module string) error
	PipInstallRequirements(ctx context.Context, session models.Session, file string) error
	PythonVersion(ctx context.Context, session models.Session) (major, minor int, err error)
}

// CommandExecutor allows mocking exec.Command in tests.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultExecutor is the default command executor using os/exec.
type DefaultExecutor struct{}

// Execute runs a command and returns its combined output.
func (e *DefaultExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// ToolError reports an external tool exiting nonzero. Its message is
// deliberately generic: tool output never reaches the operator.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string { return fmt.Sprintf("%s failed", e.Tool) }

func (e *ToolError) Unwrap() error { return e.Err }

// Impl implements the tools Service interface.
type Impl struct {
	executor CommandExecutor
	logger   zerolog.Logger
}

// New creates a new tools service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		executor: &DefaultExecutor{},
		logger:   logger,
	}
}

// NewWithExecutor creates a new tools service with a custom executor (for testing).
func NewWithExecutor(logger zerolog.Logger, executor CommandExecutor) *Impl {
	return &Impl{
		executor: executor,
		logger:   logger,
	}
}

// CloneURL returns the remote URL for a vcc-chat repository, honoring the
// session's transport preference.
func CloneURL(session models.Session, repo string) string {
	if session.UseSSH {
		return fmt.Sprintf("git@github.com:vcc-chat/%s.git", repo)
	}
	return fmt.Sprintf("https://github.com/vcc-chat/%s.git", repo)
}

// Clone clones a vcc-chat repository into the current working directory.
func (s *Impl) Clone(ctx context.Context, session models.Session, repo string) error {
	url := CloneURL(session, repo)

	s.logger.Info().Str("repo", repo).Str("url", url).Msg("cloning repository")

	output, err := s.executor.Execute(ctx, "git", "clone", url)
	if err != nil {
		s.logger.Debug().Err(err).Str("output", string(output)).Msg("git clone output")
		return &ToolError{Tool: "git clone", Err: err}
	}

	return nil
}

// PipInstall installs a single Python module with the session's interpreter.
func (s *Impl) PipInstall(ctx context.Context, session models.Session, module string) error {
	s.logger.Info().Str("module", module).Msg("installing module")

	output, err := s.executor.Execute(ctx, session.Python, "-m", "pip", "install", module)
	if err != nil {
		s.logger.Debug().Err(err).Str("output", string(output)).Msg("pip install output")
		return &ToolError{Tool: "pip install", Err: err}
	}

	return nil
}

// PipInstallRequirements installs the dependencies declared in a
// requirements manifest.
func (s *Impl) PipInstallRequirements(ctx context.Context, session models.Session, file string) error {
	s.logger.Info().Str("file", file).Msg("installing requirements")

	output, err := s.executor.Execute(ctx, session.Python, "-m", "pip", "install", "-r", file)
	if err != nil {
		s.logger.Debug().Err(err).Str("output", string(output)).Msg("pip install output")
		return &ToolError{Tool: "pip install", Err: err}
	}

	return nil
}

// PythonVersion reports the major and minor version of the session's
// interpreter, parsed from `python --version` output such as "Python 3.11.2".
func (s *Impl) PythonVersion(ctx context.Context, session models.Session) (int, int, error) {
	output, err := s.executor.Execute(ctx, session.Python, "--version")
	if err != nil {
		s.logger.Debug().Err(err).Str("output", string(output)).Msg("python --version output")
		return 0, 0, &ToolError{Tool: "python --version", Err: err}
	}

	fields := strings.Fields(strings.TrimSpace(string(output)))
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("unexpected python version output: %q", strings.TrimSpace(string(output)))
	}

	parts := strings.SplitN(fields[len(fields)-1], ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("unexpected python version output: %q", strings.TrimSpace(string(output)))
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parsing python version %q: %w", fields[len(fields)-1], err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parsing python version %q: %w", fields[len(fields)-1], err)
	}

	return major, minor, nil
}
