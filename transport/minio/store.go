package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

const (
	statID              = "s3"
	directoryType       = "application/x-directory"
	defaultObjectType   = "application/octet-stream"
	directoryPermission = fs.ModeDir | 0o755
	filePermission      = fs.FileMode(0o644)
)

// objectAPI is the subset of *minio.Client the transport uses.
type objectAPI interface {
	StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	CopyObject(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error)
}

// minioClient adapts *minio.Client to objectAPI.
type minioClient struct {
	*minio.Client
}

func (c minioClient) GetObject(
	ctx context.Context, bucket, object string, opts minio.GetObjectOptions,
) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucket, object, opts)
}

// Store implements transport.Transport over an S3 bucket.
type Store struct {
	client objectAPI
	bucket string
	prefix string
	opts   *storeOptions
	logger *slog.Logger
}

// New creates a transport for bucket at endpoint. The endpoint is either
// "host:port" or an http(s) URL whose scheme selects TLS.
func New(endpoint, bucket string, opts ...Option) (*Store, error) {
	options := defaultOptions()
	applyOptions(options, opts)

	host := endpoint
	secure := options.secure
	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("minio: parse endpoint %q: %w", endpoint, err)
		}
		switch u.Scheme {
		case "http":
			secure = false
		case "https":
			secure = true
		default:
			return nil, fmt.Errorf("minio: endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
		}
		host = u.Host
	}
	if host == "" {
		return nil, fmt.Errorf("minio: endpoint %q: missing host", endpoint)
	}
	if bucket == "" {
		return nil, fmt.Errorf("minio: endpoint %q: missing bucket", endpoint)
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(options.accessKey, options.secretKey, options.sessionToken),
		Secure: secure,
		Region: options.region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: create client for %q: %w", endpoint, err)
	}
	return newStore(minioClient{client}, bucket, options), nil
}

// NewWithClient creates a transport around an existing MinIO client.
// Credential, region and TLS options are ignored.
func NewWithClient(client *minio.Client, bucket string, opts ...Option) *Store {
	options := defaultOptions()
	applyOptions(options, opts)
	return newStore(minioClient{client}, bucket, options)
}

func newStore(client objectAPI, bucket string, options *storeOptions) *Store {
	logger := options.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	prefix := strings.Trim(options.prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		opts:   options,
		logger: logger,
	}
}

// key returns the object key of a cleaned absolute path.
func (s *Store) key(p string) string {
	return s.prefix + strings.TrimPrefix(p, "/")
}

// dirPrefix returns the key prefix of the children of directory p.
func (s *Store) dirPrefix(p string) string {
	if p == "/" {
		return s.prefix
	}
	return s.key(p) + "/"
}

type entryKind int

const (
	kindMissing entryKind = iota
	kindFile
	kindDir
)

type entry struct {
	kind    entryKind
	size    int64
	modTime time.Time
}

func (e entry) record() string {
	if e.kind == kindDir {
		return transport.FormatStat(statID, 0, directoryPermission, e.modTime)
	}
	return transport.FormatStat(statID, e.size, filePermission, e.modTime)
}

func isNotFound(err error) bool {
	return transport.IsNotExist(err)
}

// lookup resolves p as a file object, a directory marker or an implicit
// directory, in that order.
func (s *Store) lookup(ctx context.Context, op, p string) (entry, error) {
	if p == "/" {
		return entry{kind: kindDir, modTime: time.Unix(0, 0)}, nil
	}

	info, err := s.client.StatObject(ctx, s.bucket, s.key(p), minio.StatObjectOptions{})
	if err == nil {
		return entry{kind: kindFile, size: info.Size, modTime: info.LastModified}, nil
	}
	if err := translateError(op, p, err); !isNotFound(err) {
		return entry{}, err
	}

	info, err = s.client.StatObject(ctx, s.bucket, s.dirPrefix(p), minio.StatObjectOptions{})
	if err == nil {
		return entry{kind: kindDir, modTime: info.LastModified}, nil
	}
	if err := translateError(op, p, err); !isNotFound(err) {
		return entry{}, err
	}

	found, err := s.hasObjects(ctx, op, p, s.dirPrefix(p), "")
	if err != nil {
		return entry{}, err
	}
	if found {
		return entry{kind: kindDir, modTime: time.Unix(0, 0)}, nil
	}
	return entry{kind: kindMissing}, nil
}

// hasObjects reports whether any object other than skip exists under prefix.
func (s *Store) hasObjects(ctx context.Context, op, p, prefix, skip string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return false, translateError(op, p, obj.Err)
		}
		if obj.Key != skip {
			return true, nil
		}
	}
	return false, nil
}

// requireDir returns CodeNotFound or CodeNotDir unless p is a directory.
func (s *Store) requireDir(ctx context.Context, op, p string) error {
	e, err := s.lookup(ctx, op, p)
	if err != nil {
		return err
	}
	switch e.kind {
	case kindMissing:
		return transport.NewError(op, p, transport.CodeNotFound)
	case kindFile:
		return transport.NewError(op, p, transport.CodeNotDir)
	}
	return nil
}

func (s *Store) put(ctx context.Context, op, p, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return translateError(op, p, err)
}

// contentType returns the configured Content-Type or one detected from data.
func (s *Store) contentType(data []byte) string {
	if s.opts.contentType != "" {
		return s.opts.contentType
	}
	if len(data) == 0 {
		return defaultObjectType
	}
	return mimetype.Detect(data).String()
}

func (s *Store) readRange(ctx context.Context, p string, off, length int64) (io.ReadCloser, error) {
	if length == 0 {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}

	opts := minio.GetObjectOptions{}
	if length > 0 {
		if err := opts.SetRange(off, off+length-1); err != nil {
			return nil, transport.Wrap("read", p, fmt.Errorf("minio: range %q: %w", p, err))
		}
	} else if off > 0 {
		if err := opts.SetRange(off, 0); err != nil {
			return nil, transport.Wrap("read", p, fmt.Errorf("minio: range %q: %w", p, err))
		}
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.key(p), opts)
	if err != nil {
		return nil, translateError("read", p, err)
	}
	return &objectReader{rc: obj, path: p}, nil
}

// Open implements transport.Transport.
func (s *Store) Open(ctx context.Context, path string, flags int) (transport.Handle, error) {
	p := transport.CleanPath(path)

	e, err := s.lookup(ctx, "open", p)
	if err != nil {
		return nil, err
	}
	exists := e.kind != kindMissing

	switch {
	case exists && flags&os.O_CREATE != 0 && flags&os.O_EXCL != 0:
		return nil, transport.NewError("open", p, transport.CodeExists)
	case e.kind == kindDir:
		return nil, transport.NewError("open", p, transport.CodeIsDir)
	case !exists && flags&os.O_CREATE == 0:
		return nil, transport.NewError("open", p, transport.CodeNotFound)
	case !exists:
		if err := s.requireDir(ctx, "open", transport.ParentPath(p)); err != nil {
			return nil, err
		}
	}

	empty := !exists || flags&os.O_TRUNC != 0
	if empty && (!exists || e.size > 0) {
		if err := s.put(ctx, "open", p, s.key(p), nil, defaultObjectType); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("s3 open", "bucket", s.bucket, "key", s.key(p), "flags", flags, "size", e.size, "created", !exists)

	return transport.NewBufferedHandle(transport.BufferedConfig{
		Path:  p,
		Flags: flags,
		Size:  e.size,
		Empty: empty,
		ReadRange: func(ctx context.Context, off, length int64) (io.ReadCloser, error) {
			return s.readRange(ctx, p, off, length)
		},
		Upload: func(ctx context.Context, data []byte) error {
			return s.put(ctx, "close", p, s.key(p), data, s.contentType(data))
		},
		ReadConcurrency: s.opts.readConcurrency,
		MaxStagedSize:   s.opts.maxStagedSize,
	}), nil
}

// Stat implements transport.Transport.
func (s *Store) Stat(ctx context.Context, path string) (string, error) {
	p := transport.CleanPath(path)

	e, err := s.lookup(ctx, "stat", p)
	if err != nil {
		return "", err
	}
	if e.kind == kindMissing {
		return "", transport.NewError("stat", p, transport.CodeNotFound)
	}
	return e.record(), nil
}

// Mkdir implements transport.Transport by writing a directory marker.
func (s *Store) Mkdir(ctx context.Context, path string, _ fs.FileMode) error {
	p := transport.CleanPath(path)

	e, err := s.lookup(ctx, "mkdir", p)
	if err != nil {
		return err
	}
	if e.kind != kindMissing {
		return transport.NewError("mkdir", p, transport.CodeExists)
	}
	if err := s.requireDir(ctx, "mkdir", transport.ParentPath(p)); err != nil {
		return err
	}
	return s.put(ctx, "mkdir", p, s.dirPrefix(p), nil, directoryType)
}

// Rmdir implements transport.Transport.
func (s *Store) Rmdir(ctx context.Context, path string) error {
	p := transport.CleanPath(path)

	if p == "/" {
		return &transport.Error{Op: "rmdir", Path: p, Code: transport.CodePermission, Message: "cannot remove bucket root"}
	}
	if err := s.requireDir(ctx, "rmdir", p); err != nil {
		return err
	}

	marker := s.dirPrefix(p)
	found, err := s.hasObjects(ctx, "rmdir", p, marker, marker)
	if err != nil {
		return err
	}
	if found {
		return transport.NewError("rmdir", p, transport.CodeNotEmpty)
	}

	err = s.client.RemoveObject(ctx, s.bucket, marker, minio.RemoveObjectOptions{})
	return translateError("rmdir", p, err)
}

// Unlink implements transport.Transport.
func (s *Store) Unlink(ctx context.Context, path string) error {
	p := transport.CleanPath(path)

	e, err := s.lookup(ctx, "unlink", p)
	if err != nil {
		return err
	}
	switch e.kind {
	case kindMissing:
		return transport.NewError("unlink", p, transport.CodeNotFound)
	case kindDir:
		return transport.NewError("unlink", p, transport.CodeIsDir)
	}

	err = s.client.RemoveObject(ctx, s.bucket, s.key(p), minio.RemoveObjectOptions{})
	return translateError("unlink", p, err)
}

// Rename implements transport.Transport with server-side copies followed by
// removal of the sources.
func (s *Store) Rename(ctx context.Context, oldPath, newPath string) error {
	from := transport.CleanPath(oldPath)
	to := transport.CleanPath(newPath)

	if from == "/" || strings.HasPrefix(to, from+"/") {
		return transport.NewError("rename", to, transport.CodeInvalid)
	}

	src, err := s.lookup(ctx, "rename", from)
	if err != nil {
		return err
	}
	if src.kind == kindMissing {
		return transport.NewError("rename", from, transport.CodeNotFound)
	}
	if from == to {
		return nil
	}
	if err := s.requireDir(ctx, "rename", transport.ParentPath(to)); err != nil {
		return err
	}

	dst, err := s.lookup(ctx, "rename", to)
	if err != nil {
		return err
	}
	switch {
	case dst.kind == kindDir && src.kind == kindFile:
		return transport.NewError("rename", to, transport.CodeIsDir)
	case dst.kind == kindFile && src.kind == kindDir:
		return transport.NewError("rename", to, transport.CodeNotDir)
	case dst.kind == kindDir:
		return transport.NewError("rename", to, transport.CodeExists)
	}

	if src.kind == kindFile {
		return s.move(ctx, from, s.key(from), s.key(to))
	}
	return s.moveTree(ctx, from, to)
}

func (s *Store) move(ctx context.Context, p, srcKey, dstKey string) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: s.bucket, Object: srcKey},
	)
	if err != nil {
		return translateError("rename", p, err)
	}
	err = s.client.RemoveObject(ctx, s.bucket, srcKey, minio.RemoveObjectOptions{})
	return translateError("rename", p, err)
}

func (s *Store) moveTree(ctx context.Context, from, to string) error {
	srcPrefix := s.dirPrefix(from)
	dstPrefix := s.dirPrefix(to)

	if err := s.put(ctx, "rename", to, dstPrefix, nil, directoryType); err != nil {
		return err
	}

	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    srcPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return translateError("rename", from, obj.Err)
		}
		keys = append(keys, obj.Key)
	}

	for _, k := range keys {
		if k == srcPrefix {
			continue
		}
		if err := s.move(ctx, from, k, dstPrefix+strings.TrimPrefix(k, srcPrefix)); err != nil {
			return err
		}
	}

	err := s.client.RemoveObject(ctx, s.bucket, srcPrefix, minio.RemoveObjectOptions{})
	return translateError("rename", from, err)
}

// ReadDir implements transport.Transport with a delimited listing.
func (s *Store) ReadDir(ctx context.Context, path string) ([]transport.DirEntry, error) {
	p := transport.CleanPath(path)

	if err := s.requireDir(ctx, "readdir", p); err != nil {
		return nil, err
	}

	prefix := s.dirPrefix(p)
	var entries []transport.DirEntry
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, translateError("readdir", p, obj.Err)
		}
		if obj.Key == prefix {
			continue
		}

		name := strings.TrimPrefix(obj.Key, prefix)
		e := entry{kind: kindFile, size: obj.Size, modTime: obj.LastModified}
		if strings.HasSuffix(name, "/") {
			name = strings.TrimSuffix(name, "/")
			e = entry{kind: kindDir, modTime: time.Unix(0, 0)}
		}
		entries = append(entries, transport.DirEntry{Name: name, Stat: e.record()})
	}
	return entries, nil
}

// Compile-time interface checks.
var (
	_ transport.Transport = (*Store)(nil)
	_ objectAPI           = minioClient{}
)
