package models

// Answers holds values read from an optional answers file. A value present
// in the file answers the corresponding prompt, which is then skipped.
// Pointer fields distinguish "not provided" from a zero value.
type Answers struct {
	InstallPath string
	UseSSH      *bool
	Python      string
	Minio       MinioAnswers
}

// MinioAnswers pre-answers the object-storage prompts. The MinIO password
// is deliberately absent: secrets are always prompted, never read from disk.
type MinioAnswers struct {
	Installed    *bool
	Architecture string
	Username     string
	Hostname     string
}
