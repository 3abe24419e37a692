// Package testutil provides test doubles for the transport contract.
// This package is internal and should only be used for testing within davfs.
package testutil

import (
	"context"
	"io/fs"
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// Calls counts invocations per operation name.
type Calls struct {
	mu     sync.Mutex
	counts map[string]int
	order  []string
}

func (c *Calls) record(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[op]++
	c.order = append(c.order, op)
}

// Count returns how many times op was called.
func (c *Calls) Count(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[op]
}

// Order returns the operation names in call order.
func (c *Calls) Order() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...)
}

// MockTransport is a mock implementation of transport.Transport.
// It allows customization of each operation through function fields and
// records every call.
type MockTransport struct {
	Calls

	OpenFunc    func(ctx context.Context, path string, flags int) (transport.Handle, error)
	StatFunc    func(ctx context.Context, path string) (string, error)
	MkdirFunc   func(ctx context.Context, path string, mode fs.FileMode) error
	RmdirFunc   func(ctx context.Context, path string) error
	RenameFunc  func(ctx context.Context, oldPath, newPath string) error
	UnlinkFunc  func(ctx context.Context, path string) error
	ReadDirFunc func(ctx context.Context, path string) ([]transport.DirEntry, error)
}

// Open mocks opening a handle. Without OpenFunc it returns an empty MockHandle.
func (m *MockTransport) Open(ctx context.Context, path string, flags int) (transport.Handle, error) {
	m.record("open")
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, path, flags)
	}
	return &MockHandle{}, nil
}

// Stat mocks stat. Without StatFunc it reports CodeNotFound.
func (m *MockTransport) Stat(ctx context.Context, path string) (string, error) {
	m.record("stat")
	if m.StatFunc != nil {
		return m.StatFunc(ctx, path)
	}
	return "", transport.NewError("stat", path, transport.CodeNotFound)
}

// Mkdir mocks single-level directory creation.
func (m *MockTransport) Mkdir(ctx context.Context, path string, mode fs.FileMode) error {
	m.record("mkdir")
	if m.MkdirFunc != nil {
		return m.MkdirFunc(ctx, path, mode)
	}
	return nil
}

// Rmdir mocks directory removal.
func (m *MockTransport) Rmdir(ctx context.Context, path string) error {
	m.record("rmdir")
	if m.RmdirFunc != nil {
		return m.RmdirFunc(ctx, path)
	}
	return nil
}

// Rename mocks rename.
func (m *MockTransport) Rename(ctx context.Context, oldPath, newPath string) error {
	m.record("rename")
	if m.RenameFunc != nil {
		return m.RenameFunc(ctx, oldPath, newPath)
	}
	return nil
}

// Unlink mocks file removal.
func (m *MockTransport) Unlink(ctx context.Context, path string) error {
	m.record("unlink")
	if m.UnlinkFunc != nil {
		return m.UnlinkFunc(ctx, path)
	}
	return nil
}

// ReadDir mocks directory listing.
func (m *MockTransport) ReadDir(ctx context.Context, path string) ([]transport.DirEntry, error) {
	m.record("readdir")
	if m.ReadDirFunc != nil {
		return m.ReadDirFunc(ctx, path)
	}
	return nil, nil
}

// MockHandle is a mock implementation of transport.Handle.
type MockHandle struct {
	Calls

	ReadAtFunc  func(ctx context.Context, p []byte, off int64) (int, error)
	SeekFunc    func(ctx context.Context, offset int64, whence int) (int64, error)
	WriteFunc   func(ctx context.Context, p []byte) (int, error)
	ReadVecFunc func(ctx context.Context, vecs []transport.IOVec) ([][]byte, error)
	CloseFunc   func(ctx context.Context) error
}

// ReadAt mocks a positioned read.
func (m *MockHandle) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	m.record("read")
	if m.ReadAtFunc != nil {
		return m.ReadAtFunc(ctx, p, off)
	}
	return 0, nil
}

// Seek mocks a seek. Without SeekFunc it returns offset unchanged.
func (m *MockHandle) Seek(ctx context.Context, offset int64, whence int) (int64, error) {
	m.record("seek")
	if m.SeekFunc != nil {
		return m.SeekFunc(ctx, offset, whence)
	}
	return offset, nil
}

// Write mocks a write. Without WriteFunc it accepts all of p.
func (m *MockHandle) Write(ctx context.Context, p []byte) (int, error) {
	m.record("write")
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, p)
	}
	return len(p), nil
}

// ReadVec mocks a scatter-gather read. Without ReadVecFunc every output is
// zero filled to its requested length.
func (m *MockHandle) ReadVec(ctx context.Context, vecs []transport.IOVec) ([][]byte, error) {
	m.record("readv")
	if m.ReadVecFunc != nil {
		return m.ReadVecFunc(ctx, vecs)
	}
	out := make([][]byte, len(vecs))
	for i, v := range vecs {
		out[i] = make([]byte, v.Length)
	}
	return out, nil
}

// Close mocks close.
func (m *MockHandle) Close(ctx context.Context) error {
	m.record("close")
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx)
	}
	return nil
}

// Compile-time interface checks.
var (
	_ transport.Transport = (*MockTransport)(nil)
	_ transport.Handle    = (*MockHandle)(nil)
)
