package posix

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
	derrors "github.com/input-output-hk/catalyst-forge-libs/davfs/errors"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// Open opens path with POSIX flags.
func Open(ctx context.Context, t transport.Transport, path string, flags int, timeout time.Duration) (transport.Handle, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	h, err := t.Open(ctx, path, flags)
	if err != nil {
		return nil, mapError("open", path, err)
	}
	return h, nil
}

// Close releases h.
func Close(ctx context.Context, h transport.Handle, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	return mapError("close", "", h.Close(ctx))
}

// PRead reads len(buf) bytes at offset. Fewer bytes are returned at the end
// of the file.
func PRead(ctx context.Context, h transport.Handle, buf []byte, offset uint64, timeout time.Duration) (int, error) {
	if offset > math.MaxInt64 {
		return 0, derrors.InvalidArgs("read", fmt.Sprintf("offset %d out of range", offset))
	}

	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	n, err := h.ReadAt(ctx, buf, int64(offset))
	if err != nil {
		return 0, mapError("read", "", err)
	}
	if n < 0 {
		return 0, mapError("read", "", &transport.Error{
			Op:      "read",
			Code:    transport.CodeIO,
			Message: fmt.Sprintf("backend returned negative byte count %d", n),
		})
	}
	return n, nil
}

// PWrite writes buf at offset. It seeks first and issues no write when the
// resulting position differs from offset.
func PWrite(ctx context.Context, h transport.Handle, offset uint64, buf []byte, timeout time.Duration) (int, error) {
	if offset > math.MaxInt64 {
		return 0, derrors.InvalidArgs("write", fmt.Sprintf("offset %d out of range", offset))
	}

	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	pos, err := h.Seek(ctx, int64(offset), io.SeekStart)
	if err != nil {
		return 0, mapError("write", "", err)
	}
	if pos != int64(offset) {
		return 0, mapError("write", "", &transport.Error{
			Op:      "seek",
			Code:    transport.CodeIO,
			Message: fmt.Sprintf("seek to %d landed at %d", offset, pos),
		})
	}

	n, err := h.Write(ctx, buf)
	if err != nil {
		return 0, mapError("write", "", err)
	}
	return n, nil
}

// PReadVec reads every chunk with one scatter-gather request and places each
// output at its chunk's offset in dst, or in the chunk's Buffer when dst is
// nil.
func PReadVec(ctx context.Context, h transport.Handle, chunks davtypes.ChunkList, dst []byte, timeout time.Duration) (int, error) {
	if err := checkChunks(chunks, dst); err != nil {
		return 0, err
	}

	vecs := make([]transport.IOVec, len(chunks))
	for i, c := range chunks {
		if c.Offset > math.MaxInt64 {
			return 0, derrors.InvalidArgs("vector_read", fmt.Sprintf("chunk %d offset %d out of range", i, c.Offset))
		}
		vecs[i] = transport.IOVec{Offset: int64(c.Offset), Length: int(c.Length)}
	}

	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	outputs, err := h.ReadVec(ctx, vecs)
	if err != nil {
		return 0, mapError("vector_read", "", err)
	}
	return Assemble(chunks, outputs, dst)
}

// Stat returns the parsed stat record of path. A record that does not parse
// is a data error, distinct from a backend failure.
func Stat(ctx context.Context, t transport.Transport, path string, timeout time.Duration) (*davtypes.StatInfo, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	record, err := t.Stat(ctx, path)
	if err != nil {
		return nil, mapError("stat", path, err)
	}

	info, err := davtypes.ParseStatInfo(record)
	if err != nil {
		return nil, derrors.DataError("stat", path, err.Error())
	}
	return info, nil
}

// RmDir removes an empty directory.
func RmDir(ctx context.Context, t transport.Transport, path string, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	return mapError("rmdir", path, t.Rmdir(ctx, path))
}

// Rename moves source to dest.
func Rename(ctx context.Context, t transport.Transport, source, dest string, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	return mapError("rename", source, t.Rename(ctx, source, dest))
}

// Unlink removes a file.
func Unlink(ctx context.Context, t transport.Transport, path string, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	return mapError("unlink", path, t.Unlink(ctx, path))
}

// ReadDir lists the direct children of a directory.
func ReadDir(ctx context.Context, t transport.Transport, path string, timeout time.Duration) ([]transport.DirEntry, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	entries, err := t.ReadDir(ctx, path)
	if err != nil {
		return nil, mapError("dirlist", path, err)
	}
	return entries, nil
}
