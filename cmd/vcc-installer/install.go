package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vcc-chat/vcc-installer/internal/config"
	"github.com/vcc-chat/vcc-installer/internal/models"
	"github.com/vcc-chat/vcc-installer/internal/services/runner"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Run the interactive vcc installation",
	Long: `Run the complete installation workflow:
1. Check the Python interpreter version
2. Create the installation directory
3. Clone vcc_rpc and install its requirements
4. Clone web-vcc and install its requirements
5. Install supervisord
6. Optionally download the MinIO binary
7. Write supervisord.conf`,
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	// The deployment this tool prepares only runs on Linux; refuse
	// before touching anything.
	if runtime.GOOS != "linux" {
		log.Error().Str("os", runtime.GOOS).Msg("unsupported operating system")
		return fmt.Errorf("vcc requires linux, running on %s", runtime.GOOS)
	}

	answers := models.Answers{}
	if answersFile != "" {
		parser := config.NewParser()
		loaded, err := parser.LoadFile(answersFile)
		if err != nil {
			log.Error().Err(err).Str("file", answersFile).Msg("failed to load answers")
			return err
		}
		if err := config.Validate(loaded); err != nil {
			log.Error().Err(err).Msg("invalid answers")
			return err
		}
		answers = *loaded
	}

	// Set up context with signal handling. An interrupt aborts the run;
	// partial on-disk state is left in place for the operator to inspect.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, aborting")
		cancel()
	}()

	runnerSvc := runner.New(log.Logger)
	if err := runnerSvc.Run(ctx, answers); err != nil {
		log.Error().Err(err).Msg("installation failed")
		return err
	}

	return nil
}
