// Package runner orchestrates the installation workflow: it collects the
// operator's answers and executes the ordered installation steps.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/vcc-chat/vcc-installer/internal/models"
	"github.com/vcc-chat/vcc-installer/internal/services/network"
	"github.com/vcc-chat/vcc-installer/internal/services/prompt"
	"github.com/vcc-chat/vcc-installer/internal/services/tools"
	"github.com/vcc-chat/vcc-installer/internal/services/workdir"
	"github.com/vcc-chat/vcc-installer/internal/supervisor"
)

// ConfigFileName is the supervisor configuration written under the
// installation root.
const ConfigFileName = "supervisord.conf"

// Step is one ordered unit of the installation. Steps have no identity
// beyond their position; they are never retried and never rolled back.
type Step struct {
	Label  string
	Action func(ctx context.Context) error
}

// Service defines the interface for the installation runner.
type Service interface {
	Run(ctx context.Context, answers models.Answers) error
}

// Impl implements the runner Service interface.
type Impl struct {
	promptSvc  prompt.Service
	toolsSvc   tools.Service
	networkSvc network.Service
	workdirSvc workdir.Service
	logger     zerolog.Logger
	out        io.Writer
	errOut     io.Writer
}

// New creates a new installation runner bound to the process terminal.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		promptSvc:  prompt.New(logger),
		toolsSvc:   tools.New(logger),
		networkSvc: network.New(logger),
		workdirSvc: workdir.New(logger),
		logger:     logger,
		out:        os.Stdout,
		errOut:     os.Stderr,
	}
}

// NewWithServices creates a new runner with custom services (for testing).
func NewWithServices(
	logger zerolog.Logger,
	promptSvc prompt.Service,
	toolsSvc tools.Service,
	networkSvc network.Service,
	workdirSvc workdir.Service,
	out io.Writer,
	errOut io.Writer,
) *Impl {
	return &Impl{
		promptSvc:  promptSvc,
		toolsSvc:   toolsSvc,
		networkSvc: networkSvc,
		workdirSvc: workdirSvc,
		logger:     logger,
		out:        out,
		errOut:     errOut,
	}
}

// Run executes the complete installation workflow. The first failing step
// stops everything; the error travels up to the single exit point in main.
func (s *Impl) Run(ctx context.Context, answers models.Answers) error {
	session, err := s.collectSession(answers)
	if err != nil {
		return err
	}

	if err := s.runStep(ctx, Step{
		Label: "Checking python version",
		Action: func(ctx context.Context) error {
			return s.checkPython(ctx, session)
		},
	}); err != nil {
		return err
	}

	if err := s.runStep(ctx, Step{
		Label: "Creating installation directory",
		Action: func(ctx context.Context) error {
			abs, err := s.workdirSvc.Prepare(session.InstallPath)
			if err != nil {
				return err
			}
			session.InstallPath = abs
			return nil
		},
	}); err != nil {
		return err
	}

	steps := []Step{
		{Label: "Cloning vcc_rpc", Action: func(ctx context.Context) error {
			return s.toolsSvc.Clone(ctx, session, "vcc_rpc")
		}},
		{Label: "Installing requirements", Action: func(ctx context.Context) error {
			return s.toolsSvc.PipInstallRequirements(ctx, session, "vcc_rpc/requirements.txt")
		}},
		{Label: "Cloning web-vcc", Action: func(ctx context.Context) error {
			return s.toolsSvc.Clone(ctx, session, "web-vcc")
		}},
		{Label: "Installing requirements", Action: func(ctx context.Context) error {
			return s.toolsSvc.PipInstallRequirements(ctx, session, "web-vcc/backend/requirements.txt")
		}},
		{Label: "Installing supervisord", Action: func(ctx context.Context) error {
			return s.toolsSvc.PipInstall(ctx, session, "supervisor")
		}},
	}
	if err := s.runSteps(ctx, steps); err != nil {
		return err
	}

	minio, err := s.collectMinio(ctx, answers, session)
	if err != nil {
		return err
	}

	var publicIP string
	if err := s.runStep(ctx, Step{
		Label: "Getting your public ip address",
		Action: func(ctx context.Context) error {
			ip, err := s.networkSvc.PublicIP(ctx)
			if err != nil {
				return err
			}
			publicIP = ip
			return nil
		},
	}); err != nil {
		return err
	}

	minio.Hostname = answers.Minio.Hostname
	if minio.Hostname == "" {
		minio.Hostname, err = s.promptSvc.Input("What's your preferred host name for minio?", publicIP)
		if err != nil {
			return err
		}
	}

	if err := s.runStep(ctx, Step{
		Label: "Writing " + ConfigFileName,
		Action: func(ctx context.Context) error {
			return s.writeConfig(session, minio)
		},
	}); err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Installation success! Run the following commands to start the vcc server:")
	fmt.Fprintf(s.out, "    cd %s\n", session.InstallPath)
	fmt.Fprintln(s.out, "    supervisord")
	fmt.Fprintln(s.out, "    supervisorctl status")

	return nil
}

// collectSession gathers the session values, preferring answers-file values
// over prompting.
func (s *Impl) collectSession(answers models.Answers) (models.Session, error) {
	session := models.Session{}

	if answers.UseSSH != nil {
		session.UseSSH = *answers.UseSSH
	} else {
		useSSH, err := s.promptSvc.YesNo("Use ssh for git clone?")
		if err != nil {
			return session, err
		}
		session.UseSSH = useSSH
	}

	session.InstallPath = answers.InstallPath
	if session.InstallPath == "" {
		path, err := s.promptSvc.Input("Where do you want to install vcc?", s.workdirSvc.DefaultPath())
		if err != nil {
			return session, err
		}
		session.InstallPath = path
	}

	session.Python = answers.Python
	if session.Python == "" {
		python, err := s.promptSvc.Input("Which python should run the vcc services?", defaultPython())
		if err != nil {
			return session, err
		}
		session.Python = python
	}

	return session, nil
}

// collectMinio gathers the object-storage decisions, downloading the server
// binary when the operator wants this installer to provision it.
func (s *Impl) collectMinio(ctx context.Context, answers models.Answers, session models.Session) (models.MinioConfig, error) {
	minio := models.MinioConfig{}

	if answers.Minio.Installed != nil {
		minio.AlreadyInstalled = *answers.Minio.Installed
	} else {
		installed, err := s.promptSvc.YesNo("Have you installed minio and started it already?")
		if err != nil {
			return minio, err
		}
		minio.AlreadyInstalled = installed
	}

	if minio.AlreadyInstalled {
		return minio, nil
	}

	minio.BinaryPath = filepath.Join(session.InstallPath, "minio")

	if info, err := os.Stat(minio.BinaryPath); err != nil || !info.Mode().IsRegular() {
		minio.Architecture = answers.Minio.Architecture
		if minio.Architecture == "" {
			arch, err := s.promptSvc.Input("What's your machine's architecture? (one of amd64, arm64, ppc64le, s390x)", runtime.GOARCH)
			if err != nil {
				return minio, err
			}
			minio.Architecture = arch
		}

		if err := s.runStep(ctx, Step{
			Label: "Downloading minio",
			Action: func(ctx context.Context) error {
				return s.networkSvc.DownloadMinio(ctx, minio.Architecture, minio.BinaryPath)
			},
		}); err != nil {
			return minio, err
		}
	}

	minio.Username = answers.Minio.Username
	if minio.Username == "" {
		username, err := s.promptSvc.Input("Enter your new username for minio", "")
		if err != nil {
			return minio, err
		}
		minio.Username = username
	}

	password, err := s.promptSvc.Secret("Enter your new password for minio")
	if err != nil {
		return minio, err
	}
	minio.Password = password

	return minio, nil
}

func (s *Impl) checkPython(ctx context.Context, session models.Session) error {
	major, minor, err := s.toolsSvc.PythonVersion(ctx, session)
	if err != nil {
		return err
	}
	if major < 3 || (major == 3 && minor < 10) {
		return fmt.Errorf("vcc requires at least python3.10, found %d.%d", major, minor)
	}
	return nil
}

func (s *Impl) writeConfig(session models.Session, minio models.MinioConfig) error {
	doc := supervisor.Build(session, minio)
	text := doc.Render()

	path := filepath.Join(session.InstallPath, ConfigFileName)
	if err := os.WriteFile(path, []byte(text), 0o700); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	// The rendered config points its programs at ./log; create it so
	// supervisord does not fail on first launch.
	return s.workdirSvc.EnsureLogDir(session.InstallPath)
}

// runSteps executes steps strictly in order, stopping at the first failure.
func (s *Impl) runSteps(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if err := s.runStep(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

// runStep prints the step label before the action runs so the operator sees
// progress, then appends the outcome marker. The action's only diagnostic
// sink is the logger, which stays quiet unless verbose logging is enabled.
func (s *Impl) runStep(ctx context.Context, step Step) error {
	fmt.Fprintf(s.out, "%s...", step.Label)

	if err := step.Action(ctx); err != nil {
		fmt.Fprintf(s.errOut, " ERROR: %v\n", err)
		return fmt.Errorf("%s: %w", step.Label, err)
	}

	fmt.Fprintln(s.out, " OK")
	return nil
}

func defaultPython() string {
	if path, err := exec.LookPath("python3"); err == nil {
		return path
	}
	return "python3"
}
