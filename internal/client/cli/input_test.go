package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSecret_FromReader(t *testing.T) {
	cmd := &cobra.Command{}
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetIn(strings.NewReader("  abc.def  \nignored\n"))

	got, err := readSecret(cmd, "Token: ")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", got)
	assert.Equal(t, "Token: ", out.String())
}

func TestReadSecret_PartialLineAtEOF(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader("tok"))

	got, err := readSecret(cmd, "")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)
}

func TestReadSecret_TerminalUsesReadPassword(t *testing.T) {
	oldRead, oldTerm := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = oldRead, oldTerm })

	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte(" secret "), nil }

	cmd := &cobra.Command{}
	out := new(bytes.Buffer)
	cmd.SetOut(out)

	got, err := readSecret(cmd, "Token: ")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
	assert.Equal(t, "Token: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("tty gone") }
	_, err = readSecret(cmd, "Token: ")
	assert.EqualError(t, err, "tty gone")
}

func TestParseToggle(t *testing.T) {
	for _, s := range []string{"on", "ON", "true", "yes", "1"} {
		v, err := parseToggle(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"off", "False", "no", "0"} {
		v, err := parseToggle(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := parseToggle("sometimes")
	assert.Error(t, err)
}
