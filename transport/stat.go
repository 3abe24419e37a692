package transport

import (
	"io/fs"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
)

// FormatStat renders a stat record in the form Transport.Stat returns.
func FormatStat(id string, size int64, mode fs.FileMode, mtime time.Time) string {
	if id == "" {
		id = "0"
	}
	if size < 0 {
		size = 0
	}
	info := davtypes.StatInfo{
		ID:      id,
		Size:    uint64(size),
		Mode:    davtypes.PosixMode(mode),
		ModTime: mtime,
	}
	return info.String()
}

// FormatFileInfo renders a stat record from an fs.FileInfo.
func FormatFileInfo(id string, fi fs.FileInfo) string {
	return FormatStat(id, fi.Size(), fi.Mode(), fi.ModTime())
}
