package davtypes

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"
)

// POSIX st_mode file type bits used in stat records.
const (
	ModeTypeMask uint32 = 0o170000
	ModeDir      uint32 = 0o040000
	ModeRegular  uint32 = 0o100000
	ModeSymlink  uint32 = 0o120000
	ModePermMask uint32 = 0o7777
)

// StatInfo is a parsed stat record.
type StatInfo struct {
	// ID identifies the device or object holding the entry
	ID string

	// Size is the size in bytes
	Size uint64

	// Mode is the raw POSIX st_mode, type and permission bits
	Mode uint32

	// ModTime is the last modification time, second precision
	ModTime time.Time
}

// ParseStatInfo parses a record of the form "<id> <size> <mode> <mtime>",
// with size, mode and mtime (Unix seconds) in decimal.
func ParseStatInfo(record string) (*StatInfo, error) {
	fields := strings.Fields(record)
	if len(fields) != 4 {
		return nil, fmt.Errorf("stat record %q: want 4 fields, got %d", record, len(fields))
	}

	size, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("stat record %q: size: %w", record, err)
	}

	mode, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("stat record %q: mode: %w", record, err)
	}

	mtime, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("stat record %q: mtime: %w", record, err)
	}

	return &StatInfo{
		ID:      fields[0],
		Size:    size,
		Mode:    uint32(mode),
		ModTime: time.Unix(mtime, 0),
	}, nil
}

// IsDir reports whether the record describes a directory.
func (s *StatInfo) IsDir() bool {
	return s.Mode&ModeTypeMask == ModeDir
}

// IsRegular reports whether the record describes a regular file.
func (s *StatInfo) IsRegular() bool {
	return s.Mode&ModeTypeMask == ModeRegular
}

// FileMode converts the POSIX mode to an fs.FileMode.
func (s *StatInfo) FileMode() fs.FileMode {
	m := fs.FileMode(s.Mode & 0o777)
	switch s.Mode & ModeTypeMask {
	case ModeDir:
		m |= fs.ModeDir
	case ModeSymlink:
		m |= fs.ModeSymlink
	}
	return m
}

// String renders the record in the same form ParseStatInfo accepts.
func (s *StatInfo) String() string {
	return fmt.Sprintf("%s %d %d %d", s.ID, s.Size, s.Mode, s.ModTime.Unix())
}

// PosixMode converts an fs.FileMode into a POSIX st_mode value.
func PosixMode(m fs.FileMode) uint32 {
	mode := uint32(m.Perm())
	switch {
	case m.IsDir():
		mode |= ModeDir
	case m&fs.ModeSymlink != 0:
		mode |= ModeSymlink
	default:
		mode |= ModeRegular
	}
	return mode
}
