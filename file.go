package davfs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"net/url"
	"os"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
	derrors "github.com/input-output-hk/catalyst-forge-libs/davfs/errors"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/internal/posix"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// DefaultDirMode is used for parent directories created on open when the
// requested mode carries no permission bits.
const DefaultDirMode fs.FileMode = 0o755

// File is a file session over a transport. It starts closed, holds at most
// one handle and is not safe for overlapping calls.
type File struct {
	t      transport.Transport
	logger *slog.Logger
	props  Properties

	handle transport.Handle
	url    string
	path   string
}

// NewFile creates a closed file session.
func NewFile(t transport.Transport, opts ...Option) *File {
	options := applyOptions(opts)
	return &File{
		t:      t,
		logger: options.logger,
		props:  newProperties(options.properties),
	}
}

// remotePath extracts the absolute remote path from a URL or bare path.
func remotePath(op, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", derrors.InvalidArgs(op, fmt.Sprintf("invalid url %q: %v", rawURL, err))
	}
	if u.Path == "" && u.Host == "" {
		return "", derrors.InvalidArgs(op, fmt.Sprintf("url %q has no path", rawURL))
	}
	return transport.CleanPath(u.Path), nil
}

func dirMode(mode fs.FileMode) fs.FileMode {
	if mode.Perm() == 0 {
		return DefaultDirMode
	}
	return mode.Perm() | 0o700
}

// Open opens url with flags. Flags implying creation first create every
// missing parent directory. Delete combined with Write or Update removes an
// existing target before it is opened.
func (f *File) Open(ctx context.Context, rawURL string, flags davtypes.OpenFlags, mode fs.FileMode, timeout time.Duration) error {
	if f.handle != nil {
		return f.fail(derrors.InvalidOperation("open", "file is already open"))
	}

	p, err := remotePath("open", rawURL)
	if err != nil {
		return f.fail(err)
	}

	posixFlags := posix.Translate(flags)
	f.logger.Debug("opening file", "url", rawURL, "flags", flags.String(), "posix_flags", posixFlags)

	if posixFlags&os.O_CREATE != 0 {
		parent := transport.ParentPath(p)
		if err := posix.EnsureAncestors(ctx, f.t, parent, dirMode(mode), timeout); err != nil {
			return f.fail(err)
		}
	}

	if flags.Has(davtypes.OpenDelete) && (flags.Has(davtypes.OpenWrite) || flags.Has(davtypes.OpenUpdate)) {
		if _, err := posix.Stat(ctx, f.t, p, timeout); err == nil {
			f.logger.Debug("replacing existing file", "url", rawURL)
			if err := posix.Unlink(ctx, f.t, p, timeout); err != nil {
				return f.fail(err)
			}
		}
	}

	h, err := posix.Open(ctx, f.t, p, posixFlags, timeout)
	if err != nil {
		return f.fail(err)
	}

	f.handle = h
	f.url = rawURL
	f.path = p
	f.logger.Debug("opened file", "url", rawURL)
	return nil
}

// Close releases the handle. On failure the session stays open and Close may
// be retried.
func (f *File) Close(ctx context.Context, timeout time.Duration) error {
	if f.handle == nil {
		return f.fail(derrors.InvalidOperation("close", "file is not open"))
	}

	if err := posix.Close(ctx, f.handle, timeout); err != nil {
		return f.fail(withPath(err, f.path))
	}

	f.logger.Debug("closed file", "url", f.url)
	f.handle = nil
	f.url = ""
	f.path = ""
	return nil
}

// Stat returns the stat record of the open file.
func (f *File) Stat(ctx context.Context, timeout time.Duration) (*davtypes.StatInfo, error) {
	if f.handle == nil {
		return nil, f.fail(derrors.InvalidOperation("stat", "file is not open"))
	}

	info, err := posix.Stat(ctx, f.t, f.path, timeout)
	if err != nil {
		return nil, f.fail(err)
	}
	f.logger.Debug("stat file", "url", f.url, "size", info.Size, "mode", fmt.Sprintf("%o", info.Mode))
	return info, nil
}

// Read reads into buf at offset. At most math.MaxUint32 bytes are read per
// call.
func (f *File) Read(ctx context.Context, offset uint64, buf []byte, timeout time.Duration) (*davtypes.ChunkInfo, error) {
	if f.handle == nil {
		return nil, f.fail(derrors.InvalidOperation("read", "file is not open"))
	}

	if limit := uint64(math.MaxUint32); uint64(len(buf)) > limit {
		buf = buf[:limit]
	}
	n, err := posix.PRead(ctx, f.handle, buf, offset, timeout)
	if err != nil {
		return nil, f.fail(withPath(err, f.path))
	}

	f.logger.Debug("read file", "url", f.url, "offset", offset, "requested", len(buf), "read", n)
	return &davtypes.ChunkInfo{Offset: offset, Length: uint32(n), Buffer: buf[:n]}, nil
}

// Write writes buf at offset.
func (f *File) Write(ctx context.Context, offset uint64, buf []byte, timeout time.Duration) error {
	if f.handle == nil {
		return f.fail(derrors.InvalidOperation("write", "file is not open"))
	}

	n, err := posix.PWrite(ctx, f.handle, offset, buf, timeout)
	if err != nil {
		return f.fail(withPath(err, f.path))
	}

	f.logger.Debug("wrote file", "url", f.url, "offset", offset, "written", n)
	return nil
}

// Sync succeeds without a backend call while the file is open; the backend
// offers nothing to flush before Close.
func (f *File) Sync(_ context.Context, _ time.Duration) error {
	if f.handle == nil {
		return f.fail(derrors.InvalidOperation("sync", "file is not open"))
	}
	return nil
}

// Truncate always fails with NotSupported.
func (f *File) Truncate(_ context.Context, _ uint64, _ time.Duration) error {
	return f.fail(derrors.NotSupported("truncate"))
}

// VectorRead reads every chunk with one scatter-gather request.
func (f *File) VectorRead(
	ctx context.Context, chunks davtypes.ChunkList, buf []byte, timeout time.Duration,
) (*davtypes.VectorReadInfo, error) {
	if f.handle == nil {
		return nil, f.fail(derrors.InvalidOperation("vector_read", "file is not open"))
	}

	n, err := posix.PReadVec(ctx, f.handle, chunks, buf, timeout)
	if err != nil {
		return nil, f.fail(withPath(err, f.path))
	}

	out := make(davtypes.ChunkList, len(chunks))
	for i, c := range chunks {
		out[i] = c
		if buf != nil {
			out[i].Buffer = buf[c.Offset:c.End()]
		}
	}

	f.logger.Debug("vector read file", "url", f.url, "chunks", len(chunks), "read", n)
	return &davtypes.VectorReadInfo{Size: uint32(n), Chunks: out}, nil
}

// Fcntl always fails with NotSupported.
func (f *File) Fcntl(_ context.Context, _ []byte, _ time.Duration) ([]byte, error) {
	return nil, f.fail(derrors.NotSupported("fcntl"))
}

// IsOpen reports whether the session holds a handle.
func (f *File) IsOpen() bool {
	return f.handle != nil
}

// SetProperty stores a session property.
func (f *File) SetProperty(name, value string) {
	f.props.SetProperty(name, value)
}

// GetProperty returns a session property.
func (f *File) GetProperty(name string) (string, bool) {
	return f.props.GetProperty(name)
}

func (f *File) fail(err error) error {
	logFailure(f.logger, err)
	return err
}

// logFailure logs err at Error level with its status fields.
func logFailure(logger *slog.Logger, err error) {
	s, ok := derrors.AsStatus(err)
	if !ok {
		logger.Error("operation failed", "error", err)
		return
	}
	logger.Error("operation failed",
		"op", s.Op,
		"path", s.Path,
		"code", s.Code,
		"backend_code", s.BackendCode,
		"message", s.Message,
	)
}

// withPath attaches path to handle-level statuses, which carry none.
func withPath(err error, path string) error {
	if s, ok := derrors.AsStatus(err); ok && s.Path == "" {
		return s.WithPath(path)
	}
	return err
}
