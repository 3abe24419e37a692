// Package posix adapts a transport.Transport to POSIX-style primitives.
//
// Each function issues one blocking backend call bounded by an optional
// timeout, and converts any backend failure into exactly one *errors.Status
// with CodeInternal, the backend code and the backend message. PWrite is the
// one composite primitive: it seeks and only writes when the seek landed on
// the requested offset.
package posix
