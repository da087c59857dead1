// Package models contains the data structures used throughout vcc-installer.
package models

// Session holds the values collected at the start of an installation run.
// It is built once during prompting and not mutated afterwards.
type Session struct {
	InstallPath string // absolute path, must not exist before the run
	UseSSH      bool   // clone over SSH instead of HTTPS
	Python      string // interpreter used to launch the managed programs
}

// MinioConfig describes how the MinIO object store is provisioned.
// Username and Password are empty exactly when AlreadyInstalled is true.
type MinioConfig struct {
	AlreadyInstalled bool
	Architecture     string
	BinaryPath       string
	Username         string
	Password         string // write-only secret, never echoed or logged
	Hostname         string // defaults to the discovered public IP
}

// Architectures lists the platforms MinIO server builds are published for.
var Architectures = []string{"amd64", "arm64", "ppc64le", "s390x"}

// ValidArchitecture reports whether arch is a supported MinIO build target.
func ValidArchitecture(arch string) bool {
	for _, a := range Architectures {
		if a == arch {
			return true
		}
	}
	return false
}
