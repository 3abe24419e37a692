package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultReadConcurrency bounds the parallel range reads of ReadVec.
	DefaultReadConcurrency = 4

	// DefaultMaxStagedSize bounds the content a BufferedHandle stages in
	// memory before upload.
	DefaultMaxStagedSize int64 = 1 << 30
)

// ExceedsSize reports whether writing n bytes at pos would end past limit.
// A limit of zero or less means no limit.
func ExceedsSize(pos int64, n int, limit int64) bool {
	if limit <= 0 {
		return false
	}
	return int64(n) > limit || pos > limit-int64(n)
}

// RangeReader opens length bytes of the object at off. A negative length
// reads to the end of the object.
type RangeReader func(ctx context.Context, off, length int64) (io.ReadCloser, error)

// Uploader replaces the object's content with data.
type Uploader func(ctx context.Context, data []byte) error

// BufferedConfig configures a BufferedHandle.
type BufferedConfig struct {
	// Path is the remote path, used in errors
	Path string

	// Flags are the POSIX open flags the handle was opened with
	Flags int

	// Size is the object's size at open time
	Size int64

	// Empty marks a handle whose object was just created or truncated, so
	// no remote content needs to be loaded before writing
	Empty bool

	// ReadRange serves positioned reads of the remote object
	ReadRange RangeReader

	// Upload stores the staged content on Close
	Upload Uploader

	// ReadConcurrency bounds the parallel range reads of ReadVec
	ReadConcurrency int

	// MaxStagedSize bounds the staged content; writes ending past it fail
	// with CodeTooLarge
	MaxStagedSize int64
}

// BufferedHandle implements Handle for stores that have ranged reads and
// whole-object uploads but no in-place writes. Reads go to the remote object
// until the first write, which stages the full content in memory; Close
// uploads the staged content.
type BufferedHandle struct {
	cfg    BufferedConfig
	pos    int64
	size   int64
	staged *bytes.Buffer
	dirty  bool
	closed bool
	mu     sync.Mutex
}

// NewBufferedHandle creates a handle over a remote object.
func NewBufferedHandle(cfg BufferedConfig) *BufferedHandle {
	if cfg.ReadConcurrency <= 0 {
		cfg.ReadConcurrency = DefaultReadConcurrency
	}
	if cfg.MaxStagedSize <= 0 {
		cfg.MaxStagedSize = DefaultMaxStagedSize
	}
	h := &BufferedHandle{cfg: cfg, size: cfg.Size}
	if cfg.Empty {
		h.staged = new(bytes.Buffer)
		h.size = 0
	}
	return h
}

func (h *BufferedHandle) readable() bool {
	return h.cfg.Flags&(os.O_WRONLY|os.O_RDWR) != os.O_WRONLY
}

func (h *BufferedHandle) writable() bool {
	return h.cfg.Flags&(os.O_WRONLY|os.O_RDWR) != 0
}

// ReadAt reads from the staged content when there is one, from the remote
// object otherwise.
func (h *BufferedHandle) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return 0, NewError("read", h.cfg.Path, CodeBadHandle)
	}
	if !h.readable() {
		h.mu.Unlock()
		return 0, &Error{Op: "read", Path: h.cfg.Path, Code: CodeBadHandle, Message: "handle not open for reading"}
	}
	if off < 0 {
		h.mu.Unlock()
		return 0, NewError("read", h.cfg.Path, CodeInvalid)
	}
	if h.staged != nil {
		defer h.mu.Unlock()
		data := h.staged.Bytes()
		if off >= int64(len(data)) {
			return 0, nil
		}
		return copy(p, data[off:]), nil
	}
	size := h.size
	h.mu.Unlock()

	if len(p) == 0 || off >= size {
		return 0, nil
	}
	length := int64(len(p))
	if off+length > size {
		length = size - off
	}

	rc, err := h.cfg.ReadRange(ctx, off, length)
	if err != nil {
		return 0, Wrap("read", h.cfg.Path, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	n, err := io.ReadFull(rc, p[:length])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return n, Wrap("read", h.cfg.Path, err)
	}
	return n, nil
}

// Seek sets the write position. SEEK_END is relative to the current size.
func (h *BufferedHandle) Seek(_ context.Context, offset int64, whence int) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, NewError("seek", h.cfg.Path, CodeBadHandle)
	}

	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = h.pos
	case io.SeekEnd:
		base = h.currentSize()
	default:
		return 0, NewError("seek", h.cfg.Path, CodeInvalid)
	}
	if base+offset < 0 {
		return 0, NewError("seek", h.cfg.Path, CodeInvalid)
	}
	h.pos = base + offset
	return h.pos, nil
}

// Write stages p at the current position. The first write on a handle that
// was not created empty loads the remote content.
func (h *BufferedHandle) Write(ctx context.Context, p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, NewError("write", h.cfg.Path, CodeBadHandle)
	}
	if !h.writable() {
		return 0, &Error{Op: "write", Path: h.cfg.Path, Code: CodeBadHandle, Message: "handle not open for writing"}
	}
	if h.cfg.Flags&os.O_APPEND == 0 && ExceedsSize(h.pos, len(p), h.cfg.MaxStagedSize) {
		return 0, NewError("write", h.cfg.Path, CodeTooLarge)
	}
	if err := h.load(ctx); err != nil {
		return 0, err
	}

	if h.cfg.Flags&os.O_APPEND != 0 {
		h.pos = int64(h.staged.Len())
		if ExceedsSize(h.pos, len(p), h.cfg.MaxStagedSize) {
			return 0, NewError("write", h.cfg.Path, CodeTooLarge)
		}
	}

	data := h.staged.Bytes()
	end := h.pos + int64(len(p))
	if end > int64(len(data)) {
		grown := make([]byte, end)
		copy(grown, data)
		data = grown
	}
	copy(data[h.pos:], p)
	h.staged = bytes.NewBuffer(data)
	h.pos = end
	h.dirty = true
	return len(p), nil
}

func (h *BufferedHandle) load(ctx context.Context) error {
	if h.staged != nil {
		return nil
	}
	buf := new(bytes.Buffer)
	if h.size > 0 {
		rc, err := h.cfg.ReadRange(ctx, 0, -1)
		if err != nil {
			return Wrap("write", h.cfg.Path, err)
		}
		_, err = io.Copy(buf, rc)
		_ = rc.Close()
		if err != nil {
			return Wrap("write", h.cfg.Path, err)
		}
	}
	h.staged = buf
	return nil
}

func (h *BufferedHandle) currentSize() int64 {
	if h.staged != nil {
		return int64(h.staged.Len())
	}
	return h.size
}

// ReadVec reads every vector with bounded parallelism.
func (h *BufferedHandle) ReadVec(ctx context.Context, vecs []IOVec) ([][]byte, error) {
	out := make([][]byte, len(vecs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.ReadConcurrency)
	for i, v := range vecs {
		g.Go(func() error {
			if v.Length < 0 {
				return NewError("readv", h.cfg.Path, CodeInvalid)
			}
			buf := make([]byte, v.Length)
			n, err := h.ReadAt(gctx, buf, v.Offset)
			if err != nil {
				return err
			}
			out[i] = buf[:n]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close uploads staged writes. After a failed upload the handle stays open
// and Close may be retried.
func (h *BufferedHandle) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return NewError("close", h.cfg.Path, CodeBadHandle)
	}
	if h.dirty {
		if err := h.cfg.Upload(ctx, h.staged.Bytes()); err != nil {
			return Wrap("close", h.cfg.Path, err)
		}
		h.dirty = false
	}
	h.closed = true
	h.staged = nil
	return nil
}

var _ Handle = (*BufferedHandle)(nil)
