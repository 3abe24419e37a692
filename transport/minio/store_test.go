package minio

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport/transporttest"
)

func newTestStore(b *fakeBucket, opts ...Option) *Store {
	options := defaultOptions()
	applyOptions(options, opts)
	return newStore(b, "bucket", options)
}

func TestStore_Suite(t *testing.T) {
	transporttest.TestSuite(t, func() transport.Transport {
		return newTestStore(newFakeBucket(), WithReadConcurrency(2))
	})
}

func TestStore_Prefix(t *testing.T) {
	b := newFakeBucket()
	s := newTestStore(b, WithPrefix("/tenant/"))
	ctx := context.Background()

	require.NoError(t, s.Mkdir(ctx, "/docs", 0o755))
	h, err := s.Open(ctx, "/docs/a.txt", os.O_CREATE|os.O_WRONLY)
	require.NoError(t, err)
	_, err = h.Write(ctx, []byte("hello"))
	require.NoError(t, err)
	require.NoError(t, h.Close(ctx))

	_, ok := b.object("tenant/docs/")
	assert.True(t, ok, "directory marker under prefix")
	o, ok := b.object("tenant/docs/a.txt")
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), o.data)

	entries, err := s.ReadDir(ctx, "/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "docs", entries[0].Name)
}

func TestStore_ImplicitDirectory(t *testing.T) {
	b := newFakeBucket()
	b.objects["a/b/c.txt"] = fakeObject{data: []byte("c")}
	s := newTestStore(b)
	ctx := context.Background()

	for _, p := range []string{"/a", "/a/b"} {
		rec, err := s.Stat(ctx, p)
		require.NoError(t, err, p)
		assert.Contains(t, rec, "s3 0 ", p)
	}

	entries, err := s.ReadDir(ctx, "/a")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].Name)
}

func TestStore_ContentType(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		data []byte
		want string
	}{
		{name: "detected", data: []byte("%PDF-1.4\n"), want: "application/pdf"},
		{name: "text", data: []byte("plain words"), want: "text/plain; charset=utf-8"},
		{name: "fixed", opts: []Option{WithContentType("application/x-root")}, data: []byte("plain"), want: "application/x-root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBucket()
			s := newTestStore(b, tt.opts...)
			ctx := context.Background()

			h, err := s.Open(ctx, "/f", os.O_CREATE|os.O_WRONLY)
			require.NoError(t, err)
			_, err = h.Write(ctx, tt.data)
			require.NoError(t, err)
			require.NoError(t, h.Close(ctx))

			o, ok := b.object("f")
			require.True(t, ok)
			assert.Equal(t, tt.want, o.contentType)
		})
	}
}

func TestStore_OpenPutsEmptyObject(t *testing.T) {
	b := newFakeBucket()
	b.objects["full"] = fakeObject{data: []byte("content")}
	b.objects["empty"] = fakeObject{}
	s := newTestStore(b)
	ctx := context.Background()

	_, err := s.Open(ctx, "/full", os.O_TRUNC|os.O_WRONLY)
	require.NoError(t, err)
	_, err = s.Open(ctx, "/empty", os.O_TRUNC|os.O_WRONLY)
	require.NoError(t, err)
	_, err = s.Open(ctx, "/new", os.O_CREATE|os.O_WRONLY)
	require.NoError(t, err)

	assert.Equal(t, []string{"full", "new"}, b.puts)
	o, _ := b.object("full")
	assert.Empty(t, o.data)
}

func TestStore_FailedUploadKeepsHandle(t *testing.T) {
	b := newFakeBucket()
	s := newTestStore(b)
	ctx := context.Background()

	h, err := s.Open(ctx, "/f", os.O_CREATE|os.O_WRONLY)
	require.NoError(t, err)
	_, err = h.Write(ctx, []byte("data"))
	require.NoError(t, err)

	b.failPut = minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403, Message: "denied"}
	err = h.Close(ctx)
	require.Error(t, err)
	assert.Equal(t, transport.CodePermission, transport.CodeOf(err))

	b.failPut = nil
	require.NoError(t, h.Close(ctx))
	o, _ := b.object("f")
	assert.Equal(t, []byte("data"), o.data)
}

func TestStore_RenameIntoSelf(t *testing.T) {
	s := newTestStore(newFakeBucket())
	ctx := context.Background()
	require.NoError(t, s.Mkdir(ctx, "/d", 0o755))

	err := s.Rename(ctx, "/d", "/d/inner")
	assert.Equal(t, transport.CodeInvalid, transport.CodeOf(err))
}

func TestStore_RmdirRoot(t *testing.T) {
	s := newTestStore(newFakeBucket())
	err := s.Rmdir(context.Background(), "/")
	assert.Equal(t, transport.CodePermission, transport.CodeOf(err))
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       transport.Code
		wantStatus int
	}{
		{name: "no such key", err: noSuchKey("k"), want: transport.CodeNotFound, wantStatus: 404},
		{name: "access denied", err: minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}, want: transport.CodePermission, wantStatus: 403},
		{name: "invalid range", err: minio.ErrorResponse{Code: "InvalidRange", StatusCode: 416}, want: transport.CodeInvalid, wantStatus: 416},
		{name: "not implemented", err: minio.ErrorResponse{Code: "NotImplemented", StatusCode: 501}, want: transport.CodeNotSupported, wantStatus: 501},
		{name: "status fallback", err: minio.ErrorResponse{Code: "Weird", StatusCode: 404}, want: transport.CodeNotFound, wantStatus: 404},
		{name: "server error", err: minio.ErrorResponse{Code: "InternalError", StatusCode: 500}, want: transport.CodeIO, wantStatus: 500},
		{name: "canceled", err: context.Canceled, want: transport.CodeCanceled},
		{name: "plain", err: io.ErrUnexpectedEOF, want: transport.CodeIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError("stat", "/p", tt.err)
			var te *transport.Error
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.want, te.Code)
			assert.Equal(t, tt.wantStatus, te.HTTPStatus)
		})
	}

	assert.NoError(t, translateError("stat", "/p", nil))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		bucket   string
		wantErr  bool
	}{
		{name: "host port", endpoint: "localhost:9000", bucket: "b"},
		{name: "http url", endpoint: "http://localhost:9000", bucket: "b"},
		{name: "https url", endpoint: "https://s3.example.com", bucket: "b"},
		{name: "bad scheme", endpoint: "ftp://s3.example.com", bucket: "b", wantErr: true},
		{name: "no host", endpoint: "http://", bucket: "b", wantErr: true},
		{name: "no bucket", endpoint: "localhost:9000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.endpoint, tt.bucket, WithCredentials("key", "secret", ""))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}
