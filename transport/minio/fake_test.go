package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

type fakeObject struct {
	data        []byte
	contentType string
	modTime     time.Time
}

// fakeBucket is an in-memory objectAPI with S3 listing semantics.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	puts    []string
	failPut error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string]fakeObject{}}
}

func noSuchKey(key string) error {
	return minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound, Message: "missing " + key, Key: key}
}

func (b *fakeBucket) StatObject(_ context.Context, _, key string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.objects[key]
	if !ok {
		return minio.ObjectInfo{}, noSuchKey(key)
	}
	return minio.ObjectInfo{Key: key, Size: int64(len(o.data)), LastModified: o.modTime, ContentType: o.contentType}, nil
}

func (b *fakeBucket) GetObject(_ context.Context, _, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.objects[key]
	if !ok {
		return nil, noSuchKey(key)
	}

	data := o.data
	if r := opts.Header().Get("Range"); r != "" {
		var start, end int64
		if n, _ := fmt.Sscanf(r, "bytes=%d-%d", &start, &end); n == 2 {
			end = min(end+1, int64(len(data)))
			data = data[min(start, end):end]
		} else if n == 1 {
			data = data[min(start, int64(len(data))):]
		}
	}
	return io.NopCloser(bytes.NewReader(slices.Clone(data))), nil
}

func (b *fakeBucket) PutObject(
	_ context.Context, _, key string, r io.Reader, _ int64, opts minio.PutObjectOptions,
) (minio.UploadInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failPut != nil {
		return minio.UploadInfo{}, b.failPut
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	b.objects[key] = fakeObject{data: data, contentType: opts.ContentType, modTime: time.Now()}
	b.puts = append(b.puts, key)
	return minio.UploadInfo{Key: key, Size: int64(len(data))}, nil
}

func (b *fakeBucket) RemoveObject(_ context.Context, _, key string, _ minio.RemoveObjectOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, key)
	return nil
}

func (b *fakeBucket) CopyObject(
	_ context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions,
) (minio.UploadInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.objects[src.Object]
	if !ok {
		return minio.UploadInfo{}, noSuchKey(src.Object)
	}
	o.data = slices.Clone(o.data)
	b.objects[dst.Object] = o
	return minio.UploadInfo{Key: dst.Object, Size: int64(len(o.data))}, nil
}

func (b *fakeBucket) ListObjects(ctx context.Context, _ string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	b.mu.Lock()
	var infos []minio.ObjectInfo
	seen := map[string]bool{}
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !strings.HasPrefix(k, opts.Prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, opts.Prefix)
		if i := strings.Index(rest, "/"); !opts.Recursive && i >= 0 {
			common := opts.Prefix + rest[:i+1]
			if !seen[common] {
				seen[common] = true
				infos = append(infos, minio.ObjectInfo{Key: common})
			}
			continue
		}
		o := b.objects[k]
		infos = append(infos, minio.ObjectInfo{Key: k, Size: int64(len(o.data)), LastModified: o.modTime})
	}
	b.mu.Unlock()

	ch := make(chan minio.ObjectInfo)
	go func() {
		defer close(ch)
		for _, info := range infos {
			select {
			case ch <- info:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (b *fakeBucket) object(key string) (fakeObject, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.objects[key]
	return o, ok
}
