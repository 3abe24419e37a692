package davtypes

// ListEntry is one entry of a directory listing. StatInfo is nil unless the
// listing was requested with DirListStat.
type ListEntry struct {
	// Name is the entry path relative to the listed directory
	Name     string
	StatInfo *StatInfo
}

// DirectoryList is the result of a directory listing.
type DirectoryList struct {
	// Parent is the listed directory, relative to the filesystem base
	Parent  string
	Entries []ListEntry
}

// Len returns the number of entries.
func (d *DirectoryList) Len() int {
	return len(d.Entries)
}

// Add appends an entry.
func (d *DirectoryList) Add(name string, info *StatInfo) {
	d.Entries = append(d.Entries, ListEntry{Name: name, StatInfo: info})
}
