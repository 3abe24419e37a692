// Package transport defines the contract between davfs and a remote storage
// backend.
//
// A Transport offers the primitives an HTTP/WebDAV style store can provide:
// opening a handle, single-level directory creation, stat, rename, removal
// and listing. Handles offer positioned reads, seeks, sequential writes and a
// scatter-gather read. Implementations live in the webdav, minio and billy
// subpackages; the transporttest subpackage holds a conformance suite.
//
// Every failure is reported as an *Error carrying a backend-neutral Code.
package transport

import (
	"context"
	"io/fs"
)

// Transport is a remote storage backend addressed by absolute slash paths.
type Transport interface {
	// Open opens path with POSIX open flags (os.O_*). O_CREATE with O_EXCL
	// fails with CodeExists when path exists; without O_CREATE a missing path
	// fails with CodeNotFound.
	Open(ctx context.Context, path string, flags int) (Handle, error)

	// Stat returns the record "<id> <size> <mode> <mtime>" for path.
	Stat(ctx context.Context, path string) (string, error)

	// Mkdir creates a single directory level. It fails with CodeExists when
	// path exists and CodeNotFound when the parent is missing.
	Mkdir(ctx context.Context, path string, mode fs.FileMode) error

	// Rmdir removes an empty directory.
	Rmdir(ctx context.Context, path string) error

	// Rename moves oldPath to newPath, replacing a file at newPath.
	Rename(ctx context.Context, oldPath, newPath string) error

	// Unlink removes a file.
	Unlink(ctx context.Context, path string) error

	// ReadDir lists the direct children of a directory.
	ReadDir(ctx context.Context, path string) ([]DirEntry, error)
}

// Handle is an open remote file.
type Handle interface {
	// ReadAt reads up to len(p) bytes at off. Like pread, reaching the end of
	// the file yields a short count and a nil error.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)

	// Seek sets the position for the next Write and returns the new position.
	Seek(ctx context.Context, offset int64, whence int) (int64, error)

	// Write writes p at the current position, or at the end of the file for
	// handles opened with O_APPEND.
	Write(ctx context.Context, p []byte) (int, error)

	// ReadVec reads every vector and returns one output per vector, in the
	// same order as vecs.
	ReadVec(ctx context.Context, vecs []IOVec) ([][]byte, error)

	// Close flushes pending writes and releases the handle. A failed Close
	// leaves the handle usable.
	Close(ctx context.Context) error
}

// IOVec is one region of a scatter-gather read.
type IOVec struct {
	Offset int64
	Length int
}

// DirEntry is one child of a listed directory.
type DirEntry struct {
	// Name is the base name of the child
	Name string

	// Stat is the child's stat record, in the same form as Transport.Stat
	Stat string
}
