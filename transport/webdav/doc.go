// Package webdav implements transport.Transport against a WebDAV server using
// github.com/studio-b12/gowebdav.
//
// WebDAV has no file descriptors, so handles stage writes in memory and PUT
// the whole object on Close; reads are ranged GETs. MKCOL, DELETE and MOVE are
// preceded by PROPFIND lookups so failures carry POSIX semantics (EEXIST,
// ENOENT, ENOTEMPTY) rather than the server's HTTP status.
//
// gowebdav calls take no context. Each call runs on its own goroutine and the
// transport returns as soon as the context is done; the abandoned request is
// left to finish or fail on its own.
//
// Example usage:
//
//	tr, err := webdav.New("https://dav.example.com/remote.php/dav/files/alice",
//	    webdav.WithCredentials("alice", secret),
//	    webdav.WithHTTPTimeout(30*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	f := davfs.NewFile(tr)
package webdav
