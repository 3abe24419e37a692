package mock_test

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
	derrors "github.com/input-output-hk/catalyst-forge-libs/davfs/errors"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/mock"
)

func TestFile_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &mock.File{}

	assert.NoError(t, m.Open(ctx, "/f", davtypes.OpenRead, 0, 0))
	assert.NoError(t, m.Write(ctx, 0, []byte("x"), 0))
	assert.NoError(t, m.Close(ctx, 0))
	assert.False(t, m.IsOpen())

	info, err := m.Stat(ctx, 0)
	assert.NoError(t, err)
	assert.Nil(t, info)

	_, ok := m.GetProperty("k")
	assert.False(t, ok)
	m.SetProperty("k", "v")
	v, ok := m.GetProperty("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFile_Funcs(t *testing.T) {
	ctx := context.Background()
	var gotURL string
	var gotTimeout time.Duration
	m := &mock.File{
		OpenFunc: func(_ context.Context, url string, _ davtypes.OpenFlags, _ fs.FileMode, timeout time.Duration) error {
			gotURL, gotTimeout = url, timeout
			return nil
		},
		ReadFunc: func(_ context.Context, offset uint64, buf []byte, _ time.Duration) (*davtypes.ChunkInfo, error) {
			n := copy(buf, "payload")
			return &davtypes.ChunkInfo{Offset: offset, Length: uint32(n), Buffer: buf[:n]}, nil
		},
		TruncateFunc: func(context.Context, uint64, time.Duration) error {
			return derrors.NotSupported("truncate")
		},
	}

	require.NoError(t, m.Open(ctx, "dav://h/f", davtypes.OpenRead, 0, time.Second))
	assert.Equal(t, "dav://h/f", gotURL)
	assert.Equal(t, time.Second, gotTimeout)

	chunk, err := m.Read(ctx, 4, make([]byte, 16), 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), chunk.Buffer)

	assert.True(t, derrors.IsNotSupported(m.Truncate(ctx, 0, 0)))
}

func TestFileSystem_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &mock.FileSystem{}

	list, err := m.DirList(ctx, "dir", davtypes.DirListStat, 0)
	require.NoError(t, err)
	assert.Equal(t, "dir", list.Parent)
	assert.Zero(t, list.Len())

	assert.NoError(t, m.Mv(ctx, "a", "b", 0))
	assert.NoError(t, m.MkDir(ctx, "d", davtypes.MkDirMakePath, 0o755, 0))

	m.SetProperty("k", "v")
	v, ok := m.GetProperty("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
