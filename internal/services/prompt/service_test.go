package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestYesNo_Answers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "lowercase y", input: "y\n", want: true},
		{name: "uppercase Y", input: "Y\n", want: true},
		{name: "lowercase n", input: "n\n", want: false},
		{name: "uppercase N", input: "N\n", want: false},
		{name: "empty", input: "\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewWithStreams(testLogger(), strings.NewReader(tt.input), io.Discard)

			got, err := svc.YesNo("Use ssh for git clone?")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYesNo_RepromptsUntilRecognized(t *testing.T) {
	var out bytes.Buffer
	svc := NewWithStreams(testLogger(), strings.NewReader("maybe\nwhat\ny\n"), &out)

	got, err := svc.YesNo("Continue?")

	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, 2, strings.Count(out.String(), `Please enter "y" or "n".`))
}

func TestYesNo_EOF(t *testing.T) {
	svc := NewWithStreams(testLogger(), strings.NewReader(""), io.Discard)

	_, err := svc.YesNo("Continue?")

	assert.Error(t, err)
}

func TestInput_EmptyReturnsDefault(t *testing.T) {
	svc := NewWithStreams(testLogger(), strings.NewReader("\n"), io.Discard)

	got, err := svc.Input("Where do you want to install vcc?", "/home/user/.vcc")

	require.NoError(t, err)
	assert.Equal(t, "/home/user/.vcc", got)
}

func TestInput_NonEmptyReturnedVerbatim(t *testing.T) {
	svc := NewWithStreams(testLogger(), strings.NewReader("  /opt/vcc \n"), io.Discard)

	got, err := svc.Input("Where do you want to install vcc?", "/home/user/.vcc")

	require.NoError(t, err)
	// No trimming beyond the line ending: the answer is taken as typed.
	assert.Equal(t, "  /opt/vcc ", got)
}

func TestInput_ShowsDefaultInLabel(t *testing.T) {
	var out bytes.Buffer
	svc := NewWithStreams(testLogger(), strings.NewReader("\n"), &out)

	_, err := svc.Input("Where do you want to install vcc?", "/home/user/.vcc")

	require.NoError(t, err)
	assert.Contains(t, out.String(), "[/home/user/.vcc]")
}

func TestInput_LastLineWithoutNewline(t *testing.T) {
	svc := NewWithStreams(testLogger(), strings.NewReader("amd64"), io.Discard)

	got, err := svc.Input("Architecture?", "arm64")

	require.NoError(t, err)
	assert.Equal(t, "amd64", got)
}

func TestSecret_ValueNotEchoed(t *testing.T) {
	var out bytes.Buffer
	svc := NewWithStreams(testLogger(), strings.NewReader("hunter2\n"), &out)

	got, err := svc.Secret("Enter your new password for minio")

	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
	assert.NotContains(t, out.String(), "hunter2")
}

func TestSecret_EOF(t *testing.T) {
	svc := NewWithStreams(testLogger(), strings.NewReader(""), io.Discard)

	_, err := svc.Secret("Enter your new password for minio")

	assert.Error(t, err)
}
