// Package prompt provides the interactive terminal primitives used to
// collect operator decisions during an installation run.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Service defines the interface for operator prompts. All primitives block
// until the operator answers; the only failure mode is end-of-input.
type Service interface {
	YesNo(label string) (bool, error)
	Input(label, defaultVal string) (string, error)
	Secret(label string) (string, error)
}

// SecretReader reads one secret value without echoing it.
type SecretReader func() (string, error)

// Impl implements the prompt Service interface.
type Impl struct {
	in         *bufio.Reader
	out        io.Writer
	readSecret SecretReader
	logger     zerolog.Logger
}

// New creates a prompt service bound to the process terminal. Secrets are
// read without echo when stdin is a terminal; otherwise they fall back to
// an ordinary line read so piped input still works.
func New(logger zerolog.Logger) *Impl {
	s := &Impl{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		logger: logger,
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		s.readSecret = func() (string, error) {
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return "", fmt.Errorf("reading secret: %w", err)
			}
			return string(raw), nil
		}
	} else {
		s.readSecret = s.readLine
	}
	return s
}

// NewWithStreams creates a prompt service on arbitrary streams (for testing).
// Secrets are read as plain lines.
func NewWithStreams(logger zerolog.Logger, in io.Reader, out io.Writer) *Impl {
	s := &Impl{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
	s.readSecret = s.readLine
	return s
}

// YesNo asks a yes/no question. "y" answers true, "n" or an empty line
// answers false, anything else re-prompts until a recognized answer arrives.
func (s *Impl) YesNo(label string) (bool, error) {
	for {
		fmt.Fprintf(s.out, "%s (y/N): ", label)
		line, err := s.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y":
			return true, nil
		case "n", "":
			return false, nil
		}
		fmt.Fprint(s.out, `Please enter "y" or "n". `)
	}
}

// Input asks for a value, offering defaultVal for an empty answer. Non-empty
// input is returned exactly as entered.
func (s *Impl) Input(label, defaultVal string) (string, error) {
	if defaultVal != "" {
		fmt.Fprintf(s.out, "%s [%s]: ", label, defaultVal)
	} else {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	line, err := s.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return defaultVal, nil
	}
	return line, nil
}

// Secret asks for a value that must not be echoed back to the terminal.
func (s *Impl) Secret(label string) (string, error) {
	fmt.Fprintf(s.out, "%s: ", label)
	value, err := s.readSecret()
	if err != nil {
		return "", err
	}
	// ReadPassword swallows the operator's newline.
	fmt.Fprintln(s.out)
	return strings.TrimRight(value, "\r\n"), nil
}

func (s *Impl) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
