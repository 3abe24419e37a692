package transport

import "path"

// CleanPath returns p as a cleaned absolute slash path.
func CleanPath(p string) string {
	return path.Clean("/" + p)
}

// ParentPath returns the parent directory of p. The parent of "/" is "/".
func ParentPath(p string) string {
	return path.Dir(CleanPath(p))
}
