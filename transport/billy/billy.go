// Package billy implements transport.Transport on a go-billy filesystem.
//
// The in-memory variant backs tests and scratch sessions; the OS variant
// serves file:// endpoints. go-billy only offers MkdirAll, so single-level
// directory creation is emulated by checking the parent first.
package billy

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// MaxOSFileSize bounds the end of writes on OS-backed transports.
const MaxOSFileSize int64 = 1 << 44

// FS implements transport.Transport using go-billy.
type FS struct {
	fs      billy.Filesystem
	id      string
	maxSize int64
}

// NewFS creates a transport over the given go-billy filesystem.
func NewFS(fsys billy.Filesystem) *FS {
	return &FS{
		fs:      fsys,
		id:      "billy",
		maxSize: transport.DefaultMaxStagedSize,
	}
}

// NewInMemoryFS creates a transport over a fresh in-memory filesystem.
func NewInMemoryFS() *FS {
	return &FS{
		fs:      memfs.New(),
		id:      "mem",
		maxSize: transport.DefaultMaxStagedSize,
	}
}

// NewOSFS creates a transport rooted at a local directory.
func NewOSFS(path string) *FS {
	return &FS{
		fs:      osfs.New(path),
		id:      "local",
		maxSize: MaxOSFileSize,
	}
}

// Raw returns the underlying go-billy filesystem.
//
//nolint:ireturn // returning interface here is intentional to expose the adapter target.
func (b *FS) Raw() billy.Filesystem {
	return b.fs
}

func fail(op, path string, err error) error {
	return transport.Wrap(op, path, fmt.Errorf("billy: %s %q: %w", op, path, err))
}

func (b *FS) stat(p string) (os.FileInfo, error) {
	fi, err := b.fs.Stat(p)
	if err != nil && p == "/" {
		return rootInfo{}, nil
	}
	return fi, err
}

// statDir returns CodeNotFound or CodeNotDir unless p is a directory.
func (b *FS) statDir(op, p string) error {
	fi, err := b.stat(p)
	if err != nil {
		return fail(op, p, err)
	}
	if !fi.IsDir() {
		return transport.NewError(op, p, transport.CodeNotDir)
	}
	return nil
}

// Open implements transport.Transport.
func (b *FS) Open(ctx context.Context, path string, flags int) (transport.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, transport.Wrap("open", path, err)
	}
	p := transport.CleanPath(path)

	fi, err := b.stat(p)
	switch {
	case err == nil:
		if flags&os.O_CREATE != 0 && flags&os.O_EXCL != 0 {
			return nil, transport.NewError("open", p, transport.CodeExists)
		}
		if fi.IsDir() {
			return nil, transport.NewError("open", p, transport.CodeIsDir)
		}
	case !os.IsNotExist(err):
		return nil, fail("open", p, err)
	case flags&os.O_CREATE == 0:
		return nil, transport.NewError("open", p, transport.CodeNotFound)
	default:
		if err := b.statDir("open", transport.ParentPath(p)); err != nil {
			return nil, err
		}
	}

	f, err := b.fs.OpenFile(p, flags, 0o644)
	if err != nil {
		return nil, fail("open", p, err)
	}
	return &handle{file: f, path: p, flags: flags, limit: b.maxSize}, nil
}

// Stat implements transport.Transport.
func (b *FS) Stat(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", transport.Wrap("stat", path, err)
	}
	p := transport.CleanPath(path)

	fi, err := b.stat(p)
	if err != nil {
		return "", fail("stat", p, err)
	}
	return transport.FormatFileInfo(b.id, fi), nil
}

// Mkdir implements transport.Transport.
func (b *FS) Mkdir(ctx context.Context, path string, mode fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return transport.Wrap("mkdir", path, err)
	}
	p := transport.CleanPath(path)

	if _, err := b.stat(p); err == nil {
		return transport.NewError("mkdir", p, transport.CodeExists)
	}
	if err := b.statDir("mkdir", transport.ParentPath(p)); err != nil {
		return err
	}
	if err := b.fs.MkdirAll(p, mode.Perm()); err != nil {
		return fail("mkdir", p, err)
	}
	return nil
}

// Rmdir implements transport.Transport.
func (b *FS) Rmdir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return transport.Wrap("rmdir", path, err)
	}
	p := transport.CleanPath(path)

	if p == "/" {
		return &transport.Error{Op: "rmdir", Path: p, Code: transport.CodePermission, Message: "cannot remove root"}
	}
	if err := b.statDir("rmdir", p); err != nil {
		return err
	}
	children, err := b.fs.ReadDir(p)
	if err != nil {
		return fail("rmdir", p, err)
	}
	if len(children) > 0 {
		return transport.NewError("rmdir", p, transport.CodeNotEmpty)
	}
	if err := b.fs.Remove(p); err != nil {
		return fail("rmdir", p, err)
	}
	return nil
}

// Rename implements transport.Transport.
func (b *FS) Rename(ctx context.Context, oldPath, newPath string) error {
	if err := ctx.Err(); err != nil {
		return transport.Wrap("rename", oldPath, err)
	}
	from := transport.CleanPath(oldPath)
	to := transport.CleanPath(newPath)

	src, err := b.stat(from)
	if err != nil {
		return fail("rename", from, err)
	}
	if err := b.statDir("rename", transport.ParentPath(to)); err != nil {
		return err
	}
	if dst, err := b.stat(to); err == nil {
		switch {
		case dst.IsDir() && !src.IsDir():
			return transport.NewError("rename", to, transport.CodeIsDir)
		case !dst.IsDir() && src.IsDir():
			return transport.NewError("rename", to, transport.CodeNotDir)
		case dst.IsDir():
			return transport.NewError("rename", to, transport.CodeExists)
		}
		if err := b.fs.Remove(to); err != nil {
			return fail("rename", to, err)
		}
	}

	if err := b.fs.Rename(from, to); err != nil {
		return fail("rename", from, err)
	}
	return nil
}

// Unlink implements transport.Transport.
func (b *FS) Unlink(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return transport.Wrap("unlink", path, err)
	}
	p := transport.CleanPath(path)

	fi, err := b.stat(p)
	if err != nil {
		return fail("unlink", p, err)
	}
	if fi.IsDir() {
		return transport.NewError("unlink", p, transport.CodeIsDir)
	}
	if err := b.fs.Remove(p); err != nil {
		return fail("unlink", p, err)
	}
	return nil
}

// ReadDir implements transport.Transport.
func (b *FS) ReadDir(ctx context.Context, path string) ([]transport.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, transport.Wrap("readdir", path, err)
	}
	p := transport.CleanPath(path)

	if err := b.statDir("readdir", p); err != nil {
		return nil, err
	}
	list, err := b.fs.ReadDir(p)
	if err != nil {
		return nil, fail("readdir", p, err)
	}

	entries := make([]transport.DirEntry, 0, len(list))
	for _, fi := range list {
		entries = append(entries, transport.DirEntry{
			Name: fi.Name(),
			Stat: transport.FormatFileInfo(b.id, fi),
		})
	}
	return entries, nil
}

// rootInfo describes "/" for filesystems that cannot stat their root.
type rootInfo struct{}

func (rootInfo) Name() string       { return "/" }
func (rootInfo) Size() int64        { return 0 }
func (rootInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o755 }
func (rootInfo) ModTime() time.Time { return time.Time{} }
func (rootInfo) IsDir() bool        { return true }
func (rootInfo) Sys() interface{}   { return nil }

// Compile-time interface checks.
var _ transport.Transport = (*FS)(nil)
