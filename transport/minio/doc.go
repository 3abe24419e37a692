// Package minio implements transport.Transport on an S3-compatible bucket
// using github.com/minio/minio-go/v7.
//
// Paths map to object keys under an optional prefix. A directory is either a
// zero-length marker object whose key ends in "/" or any key prefix that has
// objects below it. Mkdir writes a marker; Rename copies every object and
// removes the source, so renaming a directory is not atomic.
//
// Like the WebDAV transport, handles stage writes in memory and upload the
// object on Close. Uploads carry a Content-Type detected from the content.
package minio
