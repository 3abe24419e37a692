package davfs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
	derrors "github.com/input-output-hk/catalyst-forge-libs/davfs/errors"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/internal/posix"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// FileSystem runs namespace operations relative to a fixed base URL.
// It holds no state besides the base location and its properties.
type FileSystem struct {
	t        transport.Transport
	logger   *slog.Logger
	props    Properties
	base     *url.URL
	basePath string
}

// NewFileSystem creates a filesystem session rooted at baseURL. A bare path
// is accepted as well.
func NewFileSystem(t transport.Transport, baseURL string, opts ...Option) (*FileSystem, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, derrors.InvalidArgs("filesystem", fmt.Sprintf("invalid base url %q: %v", baseURL, err))
	}

	options := applyOptions(opts)
	return &FileSystem{
		t:        t,
		logger:   options.logger,
		props:    newProperties(options.properties),
		base:     u,
		basePath: transport.CleanPath(u.Path),
	}, nil
}

// abs joins rel onto the base path. rel is resolved as if the base were the
// root, so ".." never climbs above the base.
func (fsys *FileSystem) abs(rel string) string {
	return path.Join(fsys.basePath, path.Join("/", rel))
}

// URL returns the full URL of rel under the base URL.
func (fsys *FileSystem) URL(rel string) string {
	u := *fsys.base
	u.Path = fsys.abs(rel)
	u.RawPath = ""
	return u.String()
}

// Mv renames source to dest.
func (fsys *FileSystem) Mv(ctx context.Context, source, dest string, timeout time.Duration) error {
	from, to := fsys.abs(source), fsys.abs(dest)
	if err := posix.Rename(ctx, fsys.t, from, to, timeout); err != nil {
		return fsys.fail(err)
	}
	fsys.logger.Debug("moved", "source", from, "dest", to)
	return nil
}

// Rm removes a file.
func (fsys *FileSystem) Rm(ctx context.Context, p string, timeout time.Duration) error {
	full := fsys.abs(p)
	if err := posix.Unlink(ctx, fsys.t, full, timeout); err != nil {
		return fsys.fail(err)
	}
	fsys.logger.Debug("removed", "path", full)
	return nil
}

// MkDir creates a directory. With MkDirMakePath every missing ancestor is
// created as well.
func (fsys *FileSystem) MkDir(
	ctx context.Context, p string, flags davtypes.MkDirFlags, mode fs.FileMode, timeout time.Duration,
) error {
	full := fsys.abs(p)
	makePath := flags&davtypes.MkDirMakePath != 0
	if err := posix.MkDir(ctx, fsys.t, full, makePath, dirMode(mode), timeout); err != nil {
		return fsys.fail(err)
	}
	fsys.logger.Debug("created directory", "path", full, "make_path", makePath)
	return nil
}

// RmDir removes an empty directory.
func (fsys *FileSystem) RmDir(ctx context.Context, p string, timeout time.Duration) error {
	full := fsys.abs(p)
	if err := posix.RmDir(ctx, fsys.t, full, timeout); err != nil {
		return fsys.fail(err)
	}
	fsys.logger.Debug("removed directory", "path", full)
	return nil
}

// Stat returns the stat record of p.
func (fsys *FileSystem) Stat(ctx context.Context, p string, timeout time.Duration) (*davtypes.StatInfo, error) {
	full := fsys.abs(p)
	info, err := posix.Stat(ctx, fsys.t, full, timeout)
	if err != nil {
		return nil, fsys.fail(err)
	}
	fsys.logger.Debug("stat", "path", full, "size", info.Size)
	return info, nil
}

// DirList lists p. DirListStat attaches a StatInfo to every entry and
// DirListRecursive descends into subdirectories, naming nested entries
// relative to p. Each backend listing is bounded by timeout.
func (fsys *FileSystem) DirList(
	ctx context.Context, p string, flags davtypes.DirListFlags, timeout time.Duration,
) (*davtypes.DirectoryList, error) {
	full := fsys.abs(p)
	list := &davtypes.DirectoryList{Parent: p}

	if err := fsys.list(ctx, full, "", flags, timeout, list); err != nil {
		return nil, fsys.fail(err)
	}
	fsys.logger.Debug("listed directory", "path", full, "entries", list.Len(),
		"stat", flags&davtypes.DirListStat != 0, "recursive", flags&davtypes.DirListRecursive != 0)
	return list, nil
}

func (fsys *FileSystem) list(
	ctx context.Context, dir, prefix string, flags davtypes.DirListFlags, timeout time.Duration, list *davtypes.DirectoryList,
) error {
	entries, err := posix.ReadDir(ctx, fsys.t, dir, timeout)
	if err != nil {
		return err
	}

	withStat := flags&davtypes.DirListStat != 0
	recursive := flags&davtypes.DirListRecursive != 0

	for _, e := range entries {
		name := prefix + e.Name

		var info *davtypes.StatInfo
		if withStat || recursive {
			info, err = davtypes.ParseStatInfo(e.Stat)
			if err != nil {
				return derrors.DataError("dirlist", path.Join(dir, e.Name), err.Error())
			}
		}

		if withStat {
			list.Add(name, info)
		} else {
			list.Add(name, nil)
		}

		if recursive && info.IsDir() {
			if err := fsys.list(ctx, path.Join(dir, e.Name), name+"/", flags, timeout, list); err != nil {
				return err
			}
		}
	}
	return nil
}

// Truncate always fails with NotSupported.
func (fsys *FileSystem) Truncate(_ context.Context, _ string, _ uint64, _ time.Duration) error {
	return fsys.fail(derrors.NotSupported("truncate"))
}

// ChMod always fails with NotSupported.
func (fsys *FileSystem) ChMod(_ context.Context, _ string, _ fs.FileMode, _ time.Duration) error {
	return fsys.fail(derrors.NotSupported("chmod"))
}

// SetProperty stores a session property.
func (fsys *FileSystem) SetProperty(name, value string) {
	fsys.props.SetProperty(name, value)
}

// GetProperty returns a session property.
func (fsys *FileSystem) GetProperty(name string) (string, bool) {
	return fsys.props.GetProperty(name)
}

func (fsys *FileSystem) fail(err error) error {
	logFailure(fsys.logger, err)
	return err
}
