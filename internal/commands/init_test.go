package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/recon/internal/config"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "recon-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "recon")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/recon")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

// runRecon runs the binary from an empty working directory and returns
// combined stdout and stderr.
func runRecon(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = t.TempDir()
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runReconIn runs the binary from dir and returns combined stdout and stderr.
func runReconIn(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runReconStdout is runRecon without stderr, for machine-readable output.
func runReconStdout(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = t.TempDir()
	out, err := cmd.Output()
	return string(out), err
}

func testdata(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	return path
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runRecon(t, "init", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Initialized recon workspace at")

	expectedDirs := []string{
		"import",
		filepath.Join("import", "processed"),
		"logs",
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runRecon(t, "init", dir)
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := runRecon(t, "init", dir)
	require.NoError(t, err)

	out, err := runRecon(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	_, err = runRecon(t, "init", dir, "--force")
	require.NoError(t, err)
}

func TestInit_RefusalLeavesNoPartialState(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recon.yaml"), []byte("log:\n  level: debug\n"), 0o644))

	out, err := runRecon(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	for _, d := range []string{"import", "logs"} {
		_, err := os.Stat(filepath.Join(dir, d))
		assert.ErrorIs(t, err, os.ErrNotExist, "%s should not be created", d)
	}
	data, err := os.ReadFile(filepath.Join(dir, "recon.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "log:\n  level: debug\n", string(data))
}

func TestVersion(t *testing.T) {
	out, err := runRecon(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "recon version dev")
}
