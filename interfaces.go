package davfs

import (
	"context"
	"io/fs"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
)

// FileOps is the capability set of a file session. File is the production
// implementation; mock.File is a test double.
type FileOps interface {
	// Open opens url with flags. Only valid while the session is closed.
	Open(ctx context.Context, url string, flags davtypes.OpenFlags, mode fs.FileMode, timeout time.Duration) error

	// Close releases the open handle. A failed Close leaves the session open.
	Close(ctx context.Context, timeout time.Duration) error

	// Stat returns the stat record of the open file.
	Stat(ctx context.Context, timeout time.Duration) (*davtypes.StatInfo, error)

	// Read reads into buf at offset. The returned chunk is shorter than buf
	// at the end of the file.
	Read(ctx context.Context, offset uint64, buf []byte, timeout time.Duration) (*davtypes.ChunkInfo, error)

	// Write writes buf at offset.
	Write(ctx context.Context, offset uint64, buf []byte, timeout time.Duration) error

	// Sync flushes the open file.
	Sync(ctx context.Context, timeout time.Duration) error

	// Truncate is not supported.
	Truncate(ctx context.Context, size uint64, timeout time.Duration) error

	// VectorRead reads every chunk in one request. Each chunk lands at its
	// own offset in buf, or in its own Buffer when buf is nil.
	VectorRead(ctx context.Context, chunks davtypes.ChunkList, buf []byte, timeout time.Duration) (*davtypes.VectorReadInfo, error)

	// Fcntl is not supported.
	Fcntl(ctx context.Context, arg []byte, timeout time.Duration) ([]byte, error)

	// IsOpen reports whether the session holds a handle.
	IsOpen() bool

	SetProperty(name, value string)
	GetProperty(name string) (string, bool)
}

// FileSystemOps is the capability set of a filesystem session. Paths are
// relative to the session's base URL and are confined to it: "../x" at the
// base names "x" under the base.
type FileSystemOps interface {
	Mv(ctx context.Context, source, dest string, timeout time.Duration) error
	Rm(ctx context.Context, path string, timeout time.Duration) error
	MkDir(ctx context.Context, path string, flags davtypes.MkDirFlags, mode fs.FileMode, timeout time.Duration) error
	RmDir(ctx context.Context, path string, timeout time.Duration) error
	DirList(ctx context.Context, path string, flags davtypes.DirListFlags, timeout time.Duration) (*davtypes.DirectoryList, error)
	Stat(ctx context.Context, path string, timeout time.Duration) (*davtypes.StatInfo, error)

	// Truncate is not supported.
	Truncate(ctx context.Context, path string, size uint64, timeout time.Duration) error

	// ChMod is not supported.
	ChMod(ctx context.Context, path string, mode fs.FileMode, timeout time.Duration) error

	SetProperty(name, value string)
	GetProperty(name string) (string, bool)
}

// Compile-time interface checks.
var (
	_ FileOps       = (*File)(nil)
	_ FileSystemOps = (*FileSystem)(nil)
)
