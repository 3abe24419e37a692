package posix

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
	derrors "github.com/input-output-hk/catalyst-forge-libs/davfs/errors"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/internal/testutil"
)

func TestAssemble(t *testing.T) {
	t.Run("order of chunks does not affect layout", func(t *testing.T) {
		a := davtypes.Chunk{Offset: 4, Length: 2}
		b := davtypes.Chunk{Offset: 0, Length: 3}

		dst1 := make([]byte, 6)
		_, err := Assemble(davtypes.ChunkList{a, b}, [][]byte{[]byte("aa"), []byte("bbb")}, dst1)
		require.NoError(t, err)

		dst2 := make([]byte, 6)
		_, err = Assemble(davtypes.ChunkList{b, a}, [][]byte{[]byte("bbb"), []byte("aa")}, dst2)
		require.NoError(t, err)

		assert.Equal(t, dst1, dst2)
		assert.Equal(t, []byte{'b', 'b', 'b', 0, 'a', 'a'}, dst1)
	})

	t.Run("nil destination fills chunk buffers", func(t *testing.T) {
		chunks := davtypes.ChunkList{
			{Offset: 50, Length: 3, Buffer: make([]byte, 3)},
			{Offset: 10, Length: 2, Buffer: make([]byte, 4)},
		}
		n, err := Assemble(chunks, [][]byte{[]byte("xyz"), []byte("pq")}, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "xyz", string(chunks[0].Buffer))
		assert.Equal(t, "pq", string(chunks[1].Buffer[:2]))
	})

	t.Run("short output at end of file", func(t *testing.T) {
		dst := make([]byte, 10)
		n, err := Assemble(davtypes.ChunkList{{Offset: 5, Length: 5}}, [][]byte{[]byte("ab")}, dst)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, "ab", string(dst[5:7]))
	})

	t.Run("bad output leaves destination untouched", func(t *testing.T) {
		dst := make([]byte, 10)
		chunks := davtypes.ChunkList{{Offset: 0, Length: 3}, {Offset: 5, Length: 1}}

		n, err := Assemble(chunks, [][]byte{[]byte("abc"), []byte("too long")}, dst)
		assert.True(t, derrors.IsDataError(err), "got %v", err)
		assert.Equal(t, 0, n)
		assert.Equal(t, make([]byte, 10), dst)
	})

	tests := []struct {
		name    string
		chunks  davtypes.ChunkList
		outputs [][]byte
		dst     []byte
		check   func(error) bool
	}{
		{
			name:    "output count mismatch",
			chunks:  davtypes.ChunkList{{Offset: 0, Length: 1}},
			outputs: nil,
			dst:     make([]byte, 1),
			check:   derrors.IsDataError,
		},
		{
			name:    "output longer than chunk",
			chunks:  davtypes.ChunkList{{Offset: 0, Length: 1}},
			outputs: [][]byte{[]byte("too long")},
			dst:     make([]byte, 10),
			check:   derrors.IsDataError,
		},
		{
			name:    "chunk past destination",
			chunks:  davtypes.ChunkList{{Offset: 8, Length: 4}},
			outputs: [][]byte{[]byte("abcd")},
			dst:     make([]byte, 10),
			check:   derrors.IsInvalidArgs,
		},
		{
			name:    "chunk buffer too small",
			chunks:  davtypes.ChunkList{{Offset: 0, Length: 4, Buffer: make([]byte, 2)}},
			outputs: [][]byte{[]byte("abcd")},
			check:   derrors.IsInvalidArgs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.chunks, tt.outputs, tt.dst)
			assert.True(t, tt.check(err), "got %v", err)
		})
	}
}

func TestPReadVec_TotalTooLarge(t *testing.T) {
	h := &testutil.MockHandle{}
	chunks := davtypes.ChunkList{
		{Offset: 0, Length: math.MaxUint32},
		{Offset: 0, Length: 2},
	}

	n, err := PReadVec(context.Background(), h, chunks, nil, 0)
	require.Error(t, err)
	assert.True(t, derrors.IsInvalidArgs(err))
	assert.Contains(t, err.Error(), "in total")
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, h.Count("readv"))
}
