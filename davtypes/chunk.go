package davtypes

// Chunk describes one region of a vectored read. Buffer is owned by the
// caller and is only written to when no destination buffer is supplied.
type Chunk struct {
	Offset uint64
	Length uint32
	Buffer []byte
}

// End returns the offset one past the last byte of the chunk.
func (c Chunk) End() uint64 {
	return c.Offset + uint64(c.Length)
}

// ChunkList is an ordered list of chunks. Order has no bearing on where the
// data lands; each chunk is placed at its own offset.
type ChunkList []Chunk

// TotalLength returns the sum of all chunk lengths.
func (l ChunkList) TotalLength() uint64 {
	var total uint64
	for _, c := range l {
		total += uint64(c.Length)
	}
	return total
}

// Span returns the offset one past the end of the furthest chunk.
func (l ChunkList) Span() uint64 {
	var end uint64
	for _, c := range l {
		if e := c.End(); e > end {
			end = e
		}
	}
	return end
}

// ChunkInfo is the result of a positioned read.
type ChunkInfo struct {
	Offset uint64
	Length uint32
	Buffer []byte
}

// VectorReadInfo is the result of a vectored read.
type VectorReadInfo struct {
	// Size is the total number of bytes read
	Size uint32

	// Chunks are the requested chunks, each with its filled buffer
	Chunks ChunkList
}
