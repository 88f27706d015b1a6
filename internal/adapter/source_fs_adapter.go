// Package adapter contains the infrastructure adapters of the cobfus CLI:
// filesystem, native toolchain, object inspection and report storage.
package adapter

import (
	"context"
	"os"
	"path/filepath"

	m "cobfus.dev/pkg/cobfus/internal/model"
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain
// layer relies on. It hides direct `os` access so the workflow logic can be
// tested without touching the disk.
type SourceFSAdapter interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// FileInfo returns metadata for a path so the domain can check existence or
	// distinguish between files and directories when necessary.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// CreateTempDir creates an exclusive temporary directory for artifacts.
	CreateTempDir(ctx context.Context, pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(ctx context.Context, path m.Path) error

	// AbsPath returns an absolute representation of path.
	AbsPath(ctx context.Context, path m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(ctx context.Context, elem ...string) m.Path
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(_ context.Context, path m.Path) ([]byte, error) {
	// #nosec G304 - path is provided by the user on purpose
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(_ context.Context, path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(_ context.Context, path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// CreateTempDir creates a temporary directory.
func (a *LocalSourceFSAdapter) CreateTempDir(_ context.Context, pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(_ context.Context, path m.Path) error {
	return os.RemoveAll(string(path))
}

// AbsPath returns the absolute form of path.
func (a *LocalSourceFSAdapter) AbsPath(_ context.Context, path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(_ context.Context, elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
