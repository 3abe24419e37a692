package posix

import (
	"context"
	"io/fs"
	"strings"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// EnsureAncestors creates every directory on path, root-most first, one
// level per backend call. Directories that already exist are skipped, so
// the call is idempotent. The first other failure stops the walk.
func EnsureAncestors(ctx context.Context, t transport.Transport, path string, mode fs.FileMode, timeout time.Duration) error {
	for _, dir := range prefixes(path) {
		if err := mkdirOne(ctx, t, dir, mode, timeout); err != nil {
			return err
		}
	}
	return nil
}

// prefixes returns the cumulative directory prefixes of path, e.g.
// "/a/b/c" yields "/a", "/a/b", "/a/b/c".
func prefixes(path string) []string {
	var out []string
	var b strings.Builder
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(seg)
		out = append(out, b.String())
	}
	return out
}

func mkdirOne(ctx context.Context, t transport.Transport, dir string, mode fs.FileMode, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	err := t.Mkdir(ctx, dir, mode)
	if err == nil || transport.IsExist(err) {
		return nil
	}
	return mapError("mkdir", dir, err)
}

// MkDir creates path. With makePath every missing ancestor is created too;
// otherwise a single level is created. An existing directory is not an error
// in either case.
func MkDir(ctx context.Context, t transport.Transport, path string, makePath bool, mode fs.FileMode, timeout time.Duration) error {
	if makePath {
		return EnsureAncestors(ctx, t, path, mode, timeout)
	}
	return mkdirOne(ctx, t, path, mode, timeout)
}
