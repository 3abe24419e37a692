package davtypes

import "strings"

// OpenFlags is the abstract set of flags a file session is opened with.
// Flags are combinable and are translated to POSIX open flags without
// validation, so contradictory combinations reach the backend unchanged.
type OpenFlags uint16

// Open flags
const (
	// OpenNone requests no particular mode
	OpenNone OpenFlags = 0

	// OpenNew creates the file and fails if it already exists
	OpenNew OpenFlags = 1 << 0

	// OpenDelete creates the file, replacing any existing content
	OpenDelete OpenFlags = 1 << 1

	// OpenAppend positions writes at the end of the file
	OpenAppend OpenFlags = 1 << 2

	// OpenRead opens the file read-only
	OpenRead OpenFlags = 1 << 3

	// OpenWrite opens the file write-only
	OpenWrite OpenFlags = 1 << 4

	// OpenUpdate opens the file for reading and writing
	OpenUpdate OpenFlags = 1 << 5
)

var openFlagNames = []struct {
	flag OpenFlags
	name string
}{
	{OpenNew, "New"},
	{OpenDelete, "Delete"},
	{OpenAppend, "Append"},
	{OpenRead, "Read"},
	{OpenWrite, "Write"},
	{OpenUpdate, "Update"},
}

// Has reports whether all bits of flag are set.
func (f OpenFlags) Has(flag OpenFlags) bool {
	return f&flag == flag
}

// String renders the flags as a "|" separated list, e.g. "Delete|Write".
func (f OpenFlags) String() string {
	if f == OpenNone {
		return "None"
	}
	var parts []string
	for _, n := range openFlagNames {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// MkDirFlags controls directory creation.
type MkDirFlags uint8

const (
	// MkDirNone creates a single directory level
	MkDirNone MkDirFlags = 0

	// MkDirMakePath creates every missing ancestor, like mkdir -p
	MkDirMakePath MkDirFlags = 1 << 0
)

// DirListFlags controls directory listings.
type DirListFlags uint8

const (
	// DirListNone lists entry names only
	DirListNone DirListFlags = 0

	// DirListStat attaches a StatInfo to every entry
	DirListStat DirListFlags = 1 << 0

	// DirListRecursive descends into subdirectories
	DirListRecursive DirListFlags = 1 << 1
)
