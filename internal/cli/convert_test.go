package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/itf"
)

func TestConvertToStdout(t *testing.T) {
	path := writeTraceFile(t, counterTrace)

	buf := &bytes.Buffer{}
	cmd := NewConvertCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	out := buf.Bytes()
	require.True(t, bytes.HasSuffix(out, []byte("\n")))

	// Canonical form: no incidental whitespace, decodes to the same
	// trace.
	canonical := bytes.TrimSuffix(out, []byte("\n"))
	assert.NotContains(t, string(canonical), "\n")

	tr, err := itf.DecodeTrace[*itf.Record](canonical)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, tr.Vars)
	assert.Len(t, tr.States, 2)
	assert.Equal(t, "Counter.tla", tr.Meta.Source)
}

func TestConvertIsStable(t *testing.T) {
	path := writeTraceFile(t, counterTrace)

	run := func(in string) string {
		buf := &bytes.Buffer{}
		cmd := NewConvertCommand(&RootOptions{Format: "text"})
		cmd.SetOut(buf)
		cmd.SetArgs([]string{in})
		require.NoError(t, cmd.Execute())
		return buf.String()
	}

	first := run(path)

	// Converting the converted output changes nothing.
	second := filepath.Join(t.TempDir(), "canonical.itf.json")
	require.NoError(t, os.WriteFile(second, []byte(first), 0o644))
	assert.Equal(t, first, run(second))
}

func TestConvertToFile(t *testing.T) {
	path := writeTraceFile(t, counterTrace)
	outPath := filepath.Join(t.TempDir(), "out.itf.json")

	cmd := NewConvertCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{path, "-o", outPath})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	_, err = itf.DecodeTrace[*itf.Record](bytes.TrimSpace(data))
	assert.NoError(t, err)
}

func TestConvertBadTrace(t *testing.T) {
	path := writeTraceFile(t, `{"vars": ["x"], "states": [{"x": {"#set": [1, 1]}}]}`)

	cmd := NewConvertCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
