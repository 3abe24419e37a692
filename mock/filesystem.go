package mock

import (
	"context"
	"io/fs"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/davfs"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
)

// FileSystem is a mock implementation of davfs.FileSystemOps.
type FileSystem struct {
	MvFunc       func(ctx context.Context, source, dest string, timeout time.Duration) error
	RmFunc       func(ctx context.Context, path string, timeout time.Duration) error
	MkDirFunc    func(ctx context.Context, path string, flags davtypes.MkDirFlags, mode fs.FileMode, timeout time.Duration) error
	RmDirFunc    func(ctx context.Context, path string, timeout time.Duration) error
	DirListFunc  func(ctx context.Context, path string, flags davtypes.DirListFlags, timeout time.Duration) (*davtypes.DirectoryList, error)
	StatFunc     func(ctx context.Context, path string, timeout time.Duration) (*davtypes.StatInfo, error)
	TruncateFunc func(ctx context.Context, path string, size uint64, timeout time.Duration) error
	ChModFunc    func(ctx context.Context, path string, mode fs.FileMode, timeout time.Duration) error

	props properties
}

// Mv mocks davfs.FileSystem.Mv.
func (m *FileSystem) Mv(ctx context.Context, source, dest string, timeout time.Duration) error {
	if m.MvFunc != nil {
		return m.MvFunc(ctx, source, dest, timeout)
	}
	return nil
}

// Rm mocks davfs.FileSystem.Rm.
func (m *FileSystem) Rm(ctx context.Context, path string, timeout time.Duration) error {
	if m.RmFunc != nil {
		return m.RmFunc(ctx, path, timeout)
	}
	return nil
}

// MkDir mocks davfs.FileSystem.MkDir.
func (m *FileSystem) MkDir(
	ctx context.Context, path string, flags davtypes.MkDirFlags, mode fs.FileMode, timeout time.Duration,
) error {
	if m.MkDirFunc != nil {
		return m.MkDirFunc(ctx, path, flags, mode, timeout)
	}
	return nil
}

// RmDir mocks davfs.FileSystem.RmDir.
func (m *FileSystem) RmDir(ctx context.Context, path string, timeout time.Duration) error {
	if m.RmDirFunc != nil {
		return m.RmDirFunc(ctx, path, timeout)
	}
	return nil
}

// DirList mocks davfs.FileSystem.DirList. Without DirListFunc it returns an
// empty listing of path.
func (m *FileSystem) DirList(
	ctx context.Context, path string, flags davtypes.DirListFlags, timeout time.Duration,
) (*davtypes.DirectoryList, error) {
	if m.DirListFunc != nil {
		return m.DirListFunc(ctx, path, flags, timeout)
	}
	return &davtypes.DirectoryList{Parent: path}, nil
}

// Stat mocks davfs.FileSystem.Stat.
func (m *FileSystem) Stat(ctx context.Context, path string, timeout time.Duration) (*davtypes.StatInfo, error) {
	if m.StatFunc != nil {
		return m.StatFunc(ctx, path, timeout)
	}
	return nil, nil
}

// Truncate mocks davfs.FileSystem.Truncate.
func (m *FileSystem) Truncate(ctx context.Context, path string, size uint64, timeout time.Duration) error {
	if m.TruncateFunc != nil {
		return m.TruncateFunc(ctx, path, size, timeout)
	}
	return nil
}

// ChMod mocks davfs.FileSystem.ChMod.
func (m *FileSystem) ChMod(ctx context.Context, path string, mode fs.FileMode, timeout time.Duration) error {
	if m.ChModFunc != nil {
		return m.ChModFunc(ctx, path, mode, timeout)
	}
	return nil
}

// SetProperty stores a property in memory.
func (m *FileSystem) SetProperty(name, value string) {
	m.props.set(name, value)
}

// GetProperty returns a property stored with SetProperty.
func (m *FileSystem) GetProperty(name string) (string, bool) {
	return m.props.get(name)
}

var _ davfs.FileSystemOps = (*FileSystem)(nil)
