package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vcc-chat/vcc-installer/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an answers file",
	Long:  `Validate an answers file without performing any installation.`,
	RunE:  validateAnswers,
}

func validateAnswers(cmd *cobra.Command, args []string) error {
	if answersFile == "" {
		log.Error().Msg("answers file is required")
		return cmd.Help()
	}

	// Check if file exists
	if _, err := os.Stat(answersFile); os.IsNotExist(err) {
		log.Error().Str("file", answersFile).Msg("answers file not found")
		return fmt.Errorf("answers file not found: %s", answersFile)
	}

	parser := config.NewParser()
	answers, err := parser.LoadFile(answersFile)
	if err != nil {
		log.Error().Err(err).Str("file", answersFile).Msg("failed to parse answers")
		return err
	}

	if err := config.Validate(answers); err != nil {
		log.Error().Err(err).Msg("answers validation failed")
		return err
	}

	// Print answers summary
	fmt.Println("Answers file is valid!")
	fmt.Println()
	fmt.Println("Pre-answered prompts:")
	if answers.InstallPath != "" {
		fmt.Printf("  Install path: %s\n", answers.InstallPath)
	}
	if answers.UseSSH != nil {
		fmt.Printf("  Clone over SSH: %v\n", *answers.UseSSH)
	}
	if answers.Python != "" {
		fmt.Printf("  Python interpreter: %s\n", answers.Python)
	}
	if answers.Minio.Installed != nil {
		fmt.Printf("  MinIO already installed: %v\n", *answers.Minio.Installed)
	}
	if answers.Minio.Architecture != "" {
		fmt.Printf("  MinIO architecture: %s\n", answers.Minio.Architecture)
	}
	if answers.Minio.Username != "" {
		fmt.Printf("  MinIO username: %s\n", answers.Minio.Username)
	}
	if answers.Minio.Hostname != "" {
		fmt.Printf("  MinIO hostname: %s\n", answers.Minio.Hostname)
	}
	fmt.Println()
	fmt.Println("The MinIO password is always prompted interactively.")

	return nil
}
