package commands_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/pixsecret/internal/commands"
	"github.com/idelchi/pixsecret/internal/config"
	"github.com/idelchi/pixsecret/internal/export"
	"github.com/idelchi/pixsecret/pkg/secret"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var cfg config.Config

	root := commands.NewRootCommand(&cfg, "test")

	var out bytes.Buffer

	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.Execute()

	return out.String(), err
}

func TestDeriveFromStdinPassword(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stdin.pxs")

	_, err := run(t, "password\n", "derive", "-n", "4", "-o", path, "-q")
	require.NoError(t, err)

	info, err := export.ReadFile(path, nil)
	require.NoError(t, err)

	want, err := secret.Build([]byte("password"), 4)
	require.NoError(t, err)
	assert.True(t, want.Equal(info.Secret))

	_, err = run(t, "", "inspect", "-p", "password", "-n", "4", path)
	require.NoError(t, err)
}

func TestDeriveRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := run(t, "", "derive", "-p", "x", "-n", "0", "-o", "out.pxs")
	require.ErrorContains(t, err, "length")

	_, err = run(t, "", "derive", "-p", "x", "--digest", "md5", "-o", "out.pxs")
	require.ErrorContains(t, err, "digest")

	_, err = run(t, "", "derive", "-p", "x", "--password-file", "seed", "-o", "out.pxs")
	require.ErrorContains(t, err, "password")
}

func TestShowMasksSecrets(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "derive", "--show", "-p", "topsecret")
	require.Error(t, err)

	assert.NotContains(t, out, "topsecret")
	assert.Contains(t, out, "length: 256")
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "generate", "--chars", "24")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 24)

	_, err = run(t, "", "generate", "--chars", "0")
	require.Error(t, err)
}
