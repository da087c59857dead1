package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Configuration flags.
	answersFile string
	verbose     bool
	quiet       bool
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:   "vcc-installer",
	Short: "An interactive installer for the vcc chat platform",
	Long: `vcc-installer prepares a single-host vcc deployment:
  - Clones the vcc_rpc and web-vcc source trees
  - Installs their Python dependencies with pip
  - Installs the supervisor process manager
  - Optionally downloads the MinIO object-storage binary
  - Writes a supervisord.conf describing every managed process

The run is interactive; an optional answers file can pre-answer
non-secret prompts.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&answersFile, "answers", "a", "", "answers file pre-answering non-secret prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose (debug) output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode (errors only)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output logs in JSON format")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(validateCmd)
}

func setupLogging() {
	// Set output format. Diagnostics go to stderr: stdout carries the
	// installer transcript (prompts, step labels, OK markers).
	if jsonOutput {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		output.FormatLevel = func(i interface{}) string {
			if s, ok := i.(string); ok {
				return strings.ToUpper(s)
			}
			return ""
		}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set log level. The default keeps service diagnostics off the
	// terminal so the operator only sees the transcript.
	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
