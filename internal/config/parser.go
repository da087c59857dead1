// Package config provides answers file parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/vcc-chat/vcc-installer/internal/models"
)

// Parser handles answers file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new answers file parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads answers from a file path.
func (p *Parser) LoadFile(path string) (*models.Answers, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading answers file: %w", err)
	}

	return p.parse()
}

// LoadReader loads answers from a string (useful for testing).
func (p *Parser) LoadReader(content string) (*models.Answers, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading answers: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.Answers, error) {
	a := &models.Answers{}

	a.InstallPath = os.ExpandEnv(p.v.GetString("install_path"))
	a.Python = os.ExpandEnv(p.v.GetString("python"))

	if p.v.IsSet("use_ssh") {
		v := p.v.GetBool("use_ssh")
		a.UseSSH = &v
	}

	if p.v.IsSet("minio") {
		// Secrets never come from the answers file.
		if p.v.IsSet("minio.password") {
			return nil, fmt.Errorf("minio.password must not be set in an answers file; the password is always prompted")
		}

		if p.v.IsSet("minio.installed") {
			v := p.v.GetBool("minio.installed")
			a.Minio.Installed = &v
		}

		a.Minio.Architecture = p.v.GetString("minio.architecture")
		a.Minio.Username = p.v.GetString("minio.username")
		a.Minio.Hostname = p.v.GetString("minio.hostname")

		if a.Minio.Architecture != "" && !models.ValidArchitecture(a.Minio.Architecture) {
			return nil, fmt.Errorf("minio.architecture must be one of: %s", strings.Join(models.Architectures, ", "))
		}
	}

	return a, nil
}

// Validate performs validation on loaded answers.
func Validate(a *models.Answers) error {
	if a == nil {
		return fmt.Errorf("answers are nil")
	}

	if a.Minio.Architecture != "" && !models.ValidArchitecture(a.Minio.Architecture) {
		return fmt.Errorf("minio.architecture must be one of: %s", strings.Join(models.Architectures, ", "))
	}

	return nil
}
