package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/davfs"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
)

// dispatch runs the named command.
func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "ls":
		return a.ls(ctx, args)
	case "stat":
		return a.withPath(args, "stat <path>", func(p string) error { return a.stat(ctx, p) })
	case "mkdir":
		return a.mkdir(ctx, args)
	case "rmdir":
		return a.withPath(args, "rmdir <path>", func(p string) error { return a.fs.RmDir(ctx, p, a.timeout) })
	case "rm":
		return a.withPath(args, "rm <path>", func(p string) error { return a.fs.Rm(ctx, p, a.timeout) })
	case "mv":
		if len(args) != 2 {
			return usage("mv <src> <dst>")
		}
		return a.fs.Mv(ctx, args[0], args[1], a.timeout)
	case "get":
		if len(args) != 2 {
			return usage("get <remote> <local>")
		}
		return a.get(ctx, args[0], args[1])
	case "put":
		if len(args) != 2 {
			return usage("put <local|-> <remote>")
		}
		return a.put(ctx, args[0], args[1])
	case "cat":
		return a.withPath(args, "cat <remote>", func(p string) error { return a.download(ctx, p, a.stdout) })
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func usage(synopsis string) error {
	return fmt.Errorf("%w: %s", errUsage, synopsis)
}

func (a *app) withPath(args []string, synopsis string, fn func(string) error) error {
	if len(args) != 1 {
		return usage(synopsis)
	}
	return fn(args[0])
}

func (a *app) ls(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("ls", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	long := flags.Bool("l", false, "long format")
	recursive := flags.Bool("R", false, "recursive")
	if err := flags.Parse(args); err != nil || flags.NArg() > 1 {
		return usage("ls [-l] [-R] [path]")
	}

	var listFlags davtypes.DirListFlags
	if *long {
		listFlags |= davtypes.DirListStat
	}
	if *recursive {
		listFlags |= davtypes.DirListRecursive
	}

	list, err := a.fs.DirList(ctx, flags.Arg(0), listFlags, a.timeout)
	if err != nil {
		return err
	}

	if !*long {
		for _, e := range list.Entries {
			fmt.Fprintln(a.stdout, e.Name)
		}
		return nil
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, e := range list.Entries {
		info := e.StatInfo
		fmt.Fprintf(w, "%s\t%d\t %s\t %s\t\n",
			info.FileMode(), info.Size, info.ModTime.UTC().Format(time.RFC3339), e.Name)
	}
	return w.Flush()
}

func (a *app) stat(ctx context.Context, p string) error {
	info, err := a.fs.Stat(ctx, p, a.timeout)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "path:  %s\nid:    %s\nsize:  %d\nmode:  %s\nmtime: %s\n",
		p, info.ID, info.Size, info.FileMode(), info.ModTime.UTC().Format(time.RFC3339))
	return nil
}

func (a *app) mkdir(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("mkdir", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	parents := flags.Bool("p", false, "create missing parents")
	if err := flags.Parse(args); err != nil || flags.NArg() != 1 {
		return usage("mkdir [-p] <path>")
	}

	mkFlags := davtypes.MkDirNone
	if *parents {
		mkFlags = davtypes.MkDirMakePath
	}
	return a.fs.MkDir(ctx, flags.Arg(0), mkFlags, 0o755, a.timeout)
}

func (a *app) chunk() int {
	if a.chunkSize > 0 {
		return a.chunkSize
	}
	return defaultChunkSize
}

// download copies the remote file to w.
func (a *app) download(ctx context.Context, remote string, w io.Writer) (err error) {
	f := a.newFile()
	if err := f.Open(ctx, a.url(remote), davtypes.OpenRead, 0, a.timeout); err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(ctx, a.timeout); err == nil {
			err = cerr
		}
	}()

	buf := make([]byte, a.chunk())
	var offset uint64
	for {
		c, err := f.Read(ctx, offset, buf, a.timeout)
		if err != nil {
			return err
		}
		if c.Length == 0 {
			return nil
		}
		if _, err := w.Write(c.Buffer); err != nil {
			return err
		}
		offset += uint64(c.Length)
	}
}

func (a *app) get(ctx context.Context, remote, local string) (err error) {
	out, err := os.Create(local)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return a.download(ctx, remote, out)
}

// discard closes a file whose upload failed and removes what Close stored,
// so a failed put leaves no partial file behind.
func (a *app) discard(ctx context.Context, f davfs.FileOps, remote string) {
	if err := f.Close(ctx, a.timeout); err != nil {
		return
	}
	_ = a.fs.Rm(ctx, remote, a.timeout)
}

func (a *app) put(ctx context.Context, local, remote string) (err error) {
	var in io.Reader = a.stdin
	if local != "-" {
		src, err := os.Open(local)
		if err != nil {
			return err
		}
		defer src.Close()
		in = src
	}

	f := a.newFile()
	flags := davtypes.OpenDelete | davtypes.OpenWrite
	if err := f.Open(ctx, a.url(remote), flags, 0o644, a.timeout); err != nil {
		return err
	}

	buf := make([]byte, a.chunk())
	var offset uint64
	for {
		n, rerr := io.ReadFull(in, buf)
		if n > 0 {
			if err := f.Write(ctx, offset, buf[:n], a.timeout); err != nil {
				a.discard(ctx, f, remote)
				return err
			}
			offset += uint64(n)
		}
		if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
			break
		}
		if rerr != nil {
			a.discard(ctx, f, remote)
			return rerr
		}
	}
	return f.Close(ctx, a.timeout)
}
