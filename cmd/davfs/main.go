// Command davfs runs file and namespace operations against a configured
// storage endpoint.
//
// Usage:
//
//	davfs [-config file] [-e endpoint | -u url] [-timeout d] [-v] <command> [args]
//
// Commands:
//
//	ls [-l] [-R] [path]     list a directory
//	stat <path>             print a stat record
//	mkdir [-p] <path>       create a directory
//	rmdir <path>            remove an empty directory
//	rm <path>               remove a file
//	mv <src> <dst>          rename
//	get <remote> <local>    download a file
//	put <local> <remote>    upload a file, replacing the target
//	cat <remote>            print a file
//
// Endpoints are declared in $XDG_CONFIG_HOME/davfs/config.cue. The
// DAVFS_USERNAME and DAVFS_PASSWORD environment variables override their
// credentials.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
