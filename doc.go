// Package davfs exposes POSIX-style file and filesystem sessions on top of
// remote storage that has no file descriptors, only single-level directory
// creation and no scatter-gather I/O.
//
// A File is a small state machine (Closed, Open) owning at most one remote
// handle. A FileSystem runs namespace operations relative to a fixed base
// URL. Both talk to a transport.Transport; the transport/webdav,
// transport/minio and transport/billy packages provide implementations.
// Only the path of a URL reaches the transport, so a transport is created for
// the server (or bucket) the URLs point into.
//
// Every operation issues blocking backend calls bounded by the timeout passed
// to it (zero means no explicit deadline) and delivers exactly one result:
// a value or a *errors.Status.
//
// Example:
//
//	dav, err := webdav.New("https://dav.example.com",
//	    webdav.WithCredentials("user", "secret"))
//	if err != nil {
//	    return err
//	}
//
//	f := davfs.NewFile(dav)
//	flags := davtypes.OpenDelete | davtypes.OpenWrite
//	if err := f.Open(ctx, "https://dav.example.com/data/out/report.txt", flags, 0o644, 30*time.Second); err != nil {
//	    return err
//	}
//	if err := f.Write(ctx, 0, []byte("hello"), 0); err != nil {
//	    return err
//	}
//	return f.Close(ctx, 0)
package davfs
