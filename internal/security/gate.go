// Package security validates every filesystem-touching and process-launching
// operation before any side effect happens. Two independent policies apply:
// a launch allowlist of well-known application and binary directories, and a
// home restriction for open/browse paths. Paths are canonicalized (absolute,
// `..`-free, symlinks resolved) before either check so the prefixes cannot
// be escaped.
package security

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// PolicyLaunch names the launch allowlist policy in denial errors.
	PolicyLaunch = "launch-allowlist"
	// PolicyHome names the home restriction policy in denial errors.
	PolicyHome = "home-restriction"
)

// DeniedError reports a policy rejection. It is distinct from "path does not
// exist" so callers can surface the policy boundary to the user.
type DeniedError struct {
	Path   string
	Policy string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("path %q denied by %s policy", e.Path, e.Policy)
}

// IsDenied reports whether err is a policy denial.
func IsDenied(err error) bool {
	var denied *DeniedError
	return errors.As(err, &denied)
}

// Gate holds the resolved policy roots for one process.
type Gate struct {
	home        string
	launchRoots []string
}

// New builds a gate with the platform default launch roots for home.
func New(home string) *Gate {
	return NewWithRoots(home, defaultLaunchRoots(home))
}

// NewWithRoots builds a gate with an explicit launch allowlist. Roots are
// cleaned but not canonicalized; symlinked roots should be passed resolved.
func NewWithRoots(home string, roots []string) *Gate {
	cleaned := make([]string, 0, len(roots))
	for _, root := range roots {
		if root == "" {
			continue
		}
		cleaned = append(cleaned, filepath.Clean(root))
	}
	return &Gate{home: filepath.Clean(home), launchRoots: cleaned}
}

func defaultLaunchRoots(home string) []string {
	var roots []string
	switch runtime.GOOS {
	case "darwin":
		roots = []string{
			"/Applications",
			"/System/Applications",
			"/usr/bin",
			"/usr/local/bin",
			"/opt/homebrew/bin",
		}
	case "windows":
		roots = []string{
			os.Getenv("ProgramFiles"),
			os.Getenv("ProgramFiles(x86)"),
			os.Getenv("windir"),
		}
	default:
		roots = []string{
			"/usr/bin",
			"/usr/local/bin",
			"/bin",
			"/opt",
			"/snap/bin",
			"/usr/share/applications",
			"/var/lib/flatpak/exports/bin",
		}
	}
	if home != "" {
		roots = append(roots,
			filepath.Join(home, "Applications"),
			filepath.Join(home, ".local", "bin"),
			filepath.Join(home, ".local", "share", "applications"),
		)
	}
	return roots
}

// CheckLaunch validates an executable path against the allowlist and returns
// the canonical path to run. Bare command names (no separator) are resolved
// through PATH first, the way a shell would find them.
func (g *Gate) CheckLaunch(command string) (string, error) {
	if command == "" {
		return "", &DeniedError{Path: command, Policy: PolicyLaunch}
	}

	path := command
	if !strings.ContainsRune(command, os.PathSeparator) && !strings.ContainsRune(command, '/') {
		resolved, err := exec.LookPath(command)
		if err != nil {
			return "", fmt.Errorf("resolving %q: %w", command, err)
		}
		path = resolved
	}

	canonical, err := Canonicalize(path)
	if err != nil {
		return "", err
	}
	for _, root := range g.launchRoots {
		if underDir(canonical, root) {
			return canonical, nil
		}
	}
	return "", &DeniedError{Path: command, Policy: PolicyLaunch}
}

// CheckOpen validates that a path to open or browse lies under the home
// directory and returns its canonical form.
func (g *Gate) CheckOpen(path string) (string, error) {
	if path == "" {
		return "", &DeniedError{Path: path, Policy: PolicyHome}
	}
	canonical, err := Canonicalize(path)
	if err != nil {
		return "", err
	}
	if !underDir(canonical, g.home) {
		return "", &DeniedError{Path: path, Policy: PolicyHome}
	}
	return canonical, nil
}

// Home returns the home directory the gate restricts open operations to.
func (g *Gate) Home() string { return g.home }

// Canonicalize resolves a path to its absolute, `..`-free, symlink-free
// form. When the path does not exist, symlink resolution is skipped but the
// lexical cleanup still applies, so `/Applications/../tmp/x` can never pass
// a prefix check as `/Applications/...`.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}

func underDir(path, root string) bool {
	if root == "" {
		return false
	}
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(os.PathSeparator))
}
