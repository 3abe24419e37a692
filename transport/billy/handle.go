package billy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// handle wraps a go-billy File.
type handle struct {
	file   billy.File
	path   string
	flags  int
	limit  int64
	closed bool
}

func (h *handle) check(ctx context.Context, op string) error {
	if h.closed {
		return transport.NewError(op, h.path, transport.CodeBadHandle)
	}
	if err := ctx.Err(); err != nil {
		return transport.Wrap(op, h.path, err)
	}
	return nil
}

// ReadAt implements transport.Handle.
func (h *handle) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := h.check(ctx, "read"); err != nil {
		return 0, err
	}
	if h.flags&(os.O_WRONLY|os.O_RDWR) == os.O_WRONLY {
		return 0, &transport.Error{Op: "read", Path: h.path, Code: transport.CodeBadHandle, Message: "handle not open for reading"}
	}
	if off < 0 {
		return 0, transport.NewError("read", h.path, transport.CodeInvalid)
	}

	n, err := h.file.ReadAt(p, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fail("readat", h.path, err)
	}
	return n, nil
}

// Seek implements transport.Handle.
func (h *handle) Seek(ctx context.Context, offset int64, whence int) (int64, error) {
	if err := h.check(ctx, "seek"); err != nil {
		return 0, err
	}
	pos, err := h.file.Seek(offset, whence)
	if err != nil {
		return pos, transport.Wrap("seek", h.path,
			fmt.Errorf("billy: seek %q off=%d whence=%d: %w", h.path, offset, whence, err))
	}
	return pos, nil
}

// Write implements transport.Handle. Handles opened with O_APPEND always
// write at the end of the file.
func (h *handle) Write(ctx context.Context, p []byte) (int, error) {
	if err := h.check(ctx, "write"); err != nil {
		return 0, err
	}
	if h.flags&(os.O_WRONLY|os.O_RDWR) == 0 {
		return 0, &transport.Error{Op: "write", Path: h.path, Code: transport.CodeBadHandle, Message: "handle not open for writing"}
	}
	whence := io.SeekCurrent
	if h.flags&os.O_APPEND != 0 {
		whence = io.SeekEnd
	}
	pos, err := h.file.Seek(0, whence)
	if err != nil {
		return 0, fail("write", h.path, err)
	}
	if transport.ExceedsSize(pos, len(p), h.limit) {
		return 0, transport.NewError("write", h.path, transport.CodeTooLarge)
	}

	n, err := h.file.Write(p)
	if err != nil {
		return n, fail("write", h.path, err)
	}
	return n, nil
}

// ReadVec implements transport.Handle with one local read per vector.
func (h *handle) ReadVec(ctx context.Context, vecs []transport.IOVec) ([][]byte, error) {
	out := make([][]byte, len(vecs))
	for i, v := range vecs {
		if v.Length < 0 {
			return nil, transport.NewError("readv", h.path, transport.CodeInvalid)
		}
		buf := make([]byte, v.Length)
		n, err := h.ReadAt(ctx, buf, v.Offset)
		if err != nil {
			return nil, err
		}
		out[i] = buf[:n]
	}
	return out, nil
}

// Close implements transport.Handle.
func (h *handle) Close(_ context.Context) error {
	if h.closed {
		return transport.NewError("close", h.path, transport.CodeBadHandle)
	}
	if err := h.file.Close(); err != nil {
		return fail("close", h.path, err)
	}
	h.closed = true
	return nil
}

var _ transport.Handle = (*handle)(nil)
