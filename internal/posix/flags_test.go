package posix

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		flags davtypes.OpenFlags
		want  int
	}{
		{"none", davtypes.OpenNone, 0},
		{"new", davtypes.OpenNew, os.O_CREATE | os.O_EXCL},
		{"delete", davtypes.OpenDelete, os.O_CREATE | os.O_TRUNC},
		{"append", davtypes.OpenAppend, os.O_APPEND},
		{"read", davtypes.OpenRead, os.O_RDONLY},
		{"write", davtypes.OpenWrite, os.O_WRONLY},
		{"update", davtypes.OpenUpdate, os.O_RDWR},
		{"delete write", davtypes.OpenDelete | davtypes.OpenWrite, os.O_CREATE | os.O_TRUNC | os.O_WRONLY},
		{"new update", davtypes.OpenNew | davtypes.OpenUpdate, os.O_CREATE | os.O_EXCL | os.O_RDWR},
		{"append write", davtypes.OpenAppend | davtypes.OpenWrite, os.O_APPEND | os.O_WRONLY},
		{"read write passes through", davtypes.OpenRead | davtypes.OpenWrite, os.O_WRONLY},
		{"write update passes through", davtypes.OpenWrite | davtypes.OpenUpdate, os.O_WRONLY | os.O_RDWR},
		{"new delete", davtypes.OpenNew | davtypes.OpenDelete, os.O_CREATE | os.O_EXCL | os.O_TRUNC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Translate(tt.flags))
		})
	}
}
