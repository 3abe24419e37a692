// Package mock provides function-field test doubles of the davfs session
// interfaces. Unset functions return zero values and nil errors; properties
// fall back to an in-memory map.
package mock

import (
	"context"
	"io/fs"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/davfs"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
)

// File is a mock implementation of davfs.FileOps.
type File struct {
	OpenFunc       func(ctx context.Context, url string, flags davtypes.OpenFlags, mode fs.FileMode, timeout time.Duration) error
	CloseFunc      func(ctx context.Context, timeout time.Duration) error
	StatFunc       func(ctx context.Context, timeout time.Duration) (*davtypes.StatInfo, error)
	ReadFunc       func(ctx context.Context, offset uint64, buf []byte, timeout time.Duration) (*davtypes.ChunkInfo, error)
	WriteFunc      func(ctx context.Context, offset uint64, buf []byte, timeout time.Duration) error
	SyncFunc       func(ctx context.Context, timeout time.Duration) error
	TruncateFunc   func(ctx context.Context, size uint64, timeout time.Duration) error
	VectorReadFunc func(ctx context.Context, chunks davtypes.ChunkList, buf []byte, timeout time.Duration) (*davtypes.VectorReadInfo, error)
	FcntlFunc      func(ctx context.Context, arg []byte, timeout time.Duration) ([]byte, error)
	IsOpenFunc     func() bool

	props properties
}

// Open mocks davfs.File.Open.
func (m *File) Open(ctx context.Context, url string, flags davtypes.OpenFlags, mode fs.FileMode, timeout time.Duration) error {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, url, flags, mode, timeout)
	}
	return nil
}

// Close mocks davfs.File.Close.
func (m *File) Close(ctx context.Context, timeout time.Duration) error {
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx, timeout)
	}
	return nil
}

// Stat mocks davfs.File.Stat.
func (m *File) Stat(ctx context.Context, timeout time.Duration) (*davtypes.StatInfo, error) {
	if m.StatFunc != nil {
		return m.StatFunc(ctx, timeout)
	}
	return nil, nil
}

// Read mocks davfs.File.Read.
func (m *File) Read(ctx context.Context, offset uint64, buf []byte, timeout time.Duration) (*davtypes.ChunkInfo, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, offset, buf, timeout)
	}
	return nil, nil
}

// Write mocks davfs.File.Write.
func (m *File) Write(ctx context.Context, offset uint64, buf []byte, timeout time.Duration) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, offset, buf, timeout)
	}
	return nil
}

// Sync mocks davfs.File.Sync.
func (m *File) Sync(ctx context.Context, timeout time.Duration) error {
	if m.SyncFunc != nil {
		return m.SyncFunc(ctx, timeout)
	}
	return nil
}

// Truncate mocks davfs.File.Truncate.
func (m *File) Truncate(ctx context.Context, size uint64, timeout time.Duration) error {
	if m.TruncateFunc != nil {
		return m.TruncateFunc(ctx, size, timeout)
	}
	return nil
}

// VectorRead mocks davfs.File.VectorRead.
func (m *File) VectorRead(
	ctx context.Context, chunks davtypes.ChunkList, buf []byte, timeout time.Duration,
) (*davtypes.VectorReadInfo, error) {
	if m.VectorReadFunc != nil {
		return m.VectorReadFunc(ctx, chunks, buf, timeout)
	}
	return nil, nil
}

// Fcntl mocks davfs.File.Fcntl.
func (m *File) Fcntl(ctx context.Context, arg []byte, timeout time.Duration) ([]byte, error) {
	if m.FcntlFunc != nil {
		return m.FcntlFunc(ctx, arg, timeout)
	}
	return nil, nil
}

// IsOpen mocks davfs.File.IsOpen.
func (m *File) IsOpen() bool {
	if m.IsOpenFunc != nil {
		return m.IsOpenFunc()
	}
	return false
}

// SetProperty stores a property in memory.
func (m *File) SetProperty(name, value string) {
	m.props.set(name, value)
}

// GetProperty returns a property stored with SetProperty.
func (m *File) GetProperty(name string) (string, bool) {
	return m.props.get(name)
}

type properties map[string]string

func (p *properties) set(name, value string) {
	if *p == nil {
		*p = make(properties)
	}
	(*p)[name] = value
}

func (p properties) get(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

var _ davfs.FileOps = (*File)(nil)
