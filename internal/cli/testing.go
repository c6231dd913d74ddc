package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CLI provides a clean interface for running CLI commands in tests.
// It manages a temp directory tree and environment variables.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI rooted in a temp directory. The data dir and
// recent-items dir live inside it, so tests never touch real user state.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	dir := t.TempDir()

	for _, sub := range []string{"recent", "data"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o750); err != nil {
			t.Fatalf("failed to create %s dir: %v", sub, err)
		}
	}

	return &CLI{
		t:   t,
		Dir: dir,
		Env: map[string]string{},
	}
}

// Run executes the CLI with the given args and returns stdout, stderr, and
// exit code. The workdir, data-dir, and recent-dir flags are added
// automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{
		"rf",
		"-C", r.Dir,
		"--data-dir", r.DataDir(),
		"--recent-dir", r.RecentDir(),
	}, args...)
	code := Run(nil, &outBuf, &errBuf, fullArgs, r.Env)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// DataDir returns the path of the data directory.
func (r *CLI) DataDir() string {
	return filepath.Join(r.Dir, "data")
}

// RecentDir returns the path of the recent-items directory.
func (r *CLI) RecentDir() string {
	return filepath.Join(r.Dir, "recent")
}

// MkFolder creates a folder under the temp root and returns its path.
func (r *CLI) MkFolder(name string) string {
	r.t.Helper()

	path := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(path, 0o750); err != nil {
		r.t.Fatalf("failed to create folder %s: %v", name, err)
	}

	return path
}

// AddRecent creates a folder and points a recent-items symlink at it,
// simulating the desktop environment recording a visit. Returns the folder
// path.
func (r *CLI) AddRecent(name string) string {
	r.t.Helper()

	path := r.MkFolder(name)

	link := filepath.Join(r.RecentDir(), name+".lnk")
	if err := os.Symlink(path, link); err != nil {
		r.t.Fatalf("failed to link %s: %v", name, err)
	}

	return path
}

// ReadHistory reads and returns the raw history file content.
func (r *CLI) ReadHistory() string {
	r.t.Helper()

	content, err := os.ReadFile(filepath.Join(r.DataDir(), "history.json"))
	if err != nil {
		r.t.Fatalf("failed to read history: %v", err)
	}

	return string(content)
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
