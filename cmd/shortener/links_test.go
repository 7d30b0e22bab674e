package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), err
}

func TestCLI_CreateListResolve(t *testing.T) {
	dir := t.TempDir()
	common := []string{
		"--env-file", filepath.Join(dir, ".env"),
		"--backend", "file",
		"--file", filepath.Join(dir, "links.json"),
	}

	out, err := run(t, append([]string{"create", "--url", "https://go.dev/doc/", "--code", "godoc"}, common...)...)
	require.NoError(t, err)
	assert.Equal(t, "godoc\n", out)

	out, err = run(t, append([]string{"create", "--url", "https://example.com"}, common...)...)
	require.NoError(t, err)
	generated := strings.TrimSpace(out)
	assert.Regexp(t, `^[0-9a-f]{8}$`, generated)

	_, err = run(t, append([]string{"create", "--url", "https://example.com/other", "--code", "godoc"}, common...)...)
	assert.Error(t, err)

	out, err = run(t, append([]string{"list"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "godoc\thttps://go.dev/doc/\n")
	assert.Contains(t, out, generated+"\thttps://example.com\n")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	out, err = run(t, append([]string{"resolve", "godoc"}, common...)...)
	require.NoError(t, err)
	assert.Equal(t, "https://go.dev/doc/\n", out)

	_, err = run(t, append([]string{"resolve", "missing"}, common...)...)
	assert.Error(t, err)
}

func TestCLI_InvalidConfig(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "list", "--env-file", filepath.Join(dir, ".env"), "--backend", "nosuch")
	assert.Error(t, err)
}
