package posix

import (
	"fmt"
	"math"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
	derrors "github.com/input-output-hk/catalyst-forge-libs/davfs/errors"
)

// checkChunks verifies every chunk has somewhere to land before any backend
// call is made.
func checkChunks(chunks davtypes.ChunkList, dst []byte) error {
	var total uint64
	for _, c := range chunks {
		total += uint64(c.Length)
	}
	if total > math.MaxUint32 {
		return derrors.InvalidArgs("vector_read",
			fmt.Sprintf("chunks request %d bytes in total, at most %d allowed", total, uint64(math.MaxUint32)))
	}

	for i, c := range chunks {
		if dst != nil {
			if c.End() > uint64(len(dst)) {
				return derrors.InvalidArgs("vector_read",
					fmt.Sprintf("chunk %d [%d, %d) exceeds destination of %d bytes", i, c.Offset, c.End(), len(dst)))
			}
			continue
		}
		if len(c.Buffer) < int(c.Length) {
			return derrors.InvalidArgs("vector_read",
				fmt.Sprintf("chunk %d buffer holds %d bytes, %d requested", i, len(c.Buffer), c.Length))
		}
	}
	return nil
}

// Assemble copies outputs[i] into dst at chunks[i].Offset, for every i.
// Placement depends only on each chunk's own offset, never on its position in
// the list. With a nil dst each output is copied into the chunk's Buffer.
// It returns the number of bytes placed. On error nothing is copied.
func Assemble(chunks davtypes.ChunkList, outputs [][]byte, dst []byte) (int, error) {
	if len(outputs) != len(chunks) {
		return 0, derrors.DataError("vector_read", "",
			fmt.Sprintf("backend returned %d outputs for %d chunks", len(outputs), len(chunks)))
	}
	if err := checkChunks(chunks, dst); err != nil {
		return 0, err
	}

	for i, c := range chunks {
		if len(outputs[i]) > int(c.Length) {
			return 0, derrors.DataError("vector_read", "",
				fmt.Sprintf("chunk %d: backend returned %d bytes, %d requested", i, len(outputs[i]), c.Length))
		}
	}

	total := 0
	for i, c := range chunks {
		out := outputs[i]
		if dst != nil {
			total += copy(dst[c.Offset:c.End()], out)
		} else {
			total += copy(c.Buffer[:c.Length], out)
		}
	}
	return total, nil
}
