package posix

import (
	"os"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
)

// Translate converts abstract open flags into POSIX open flags by OR-ing the
// mapping of every set flag. Conflicting combinations are passed through.
func Translate(flags davtypes.OpenFlags) int {
	posix := 0
	if flags&davtypes.OpenNew != 0 {
		posix |= os.O_CREATE | os.O_EXCL
	}
	if flags&davtypes.OpenDelete != 0 {
		posix |= os.O_CREATE | os.O_TRUNC
	}
	if flags&davtypes.OpenAppend != 0 {
		posix |= os.O_APPEND
	}
	if flags&davtypes.OpenRead != 0 {
		posix |= os.O_RDONLY
	}
	if flags&davtypes.OpenWrite != 0 {
		posix |= os.O_WRONLY
	}
	if flags&davtypes.OpenUpdate != 0 {
		posix |= os.O_RDWR
	}
	return posix
}
