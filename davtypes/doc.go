// Package davtypes provides shared type definitions for davfs sessions and
// the POSIX adapter: open and listing flags, read chunks, stat records and
// directory listings.
package davtypes
