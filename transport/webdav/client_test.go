package webdav

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebdav "golang.org/x/net/webdav"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport/transporttest"
)

// newServer starts an in-process WebDAV server backed by memory.
func newServer(t *testing.T, wrap func(http.Handler) http.Handler) *httptest.Server {
	t.Helper()

	var h http.Handler = &xwebdav.Handler{
		FileSystem: xwebdav.NewMemFS(),
		LockSystem: xwebdav.NewMemLS(),
	}
	if wrap != nil {
		h = wrap(h)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestClient_Suite(t *testing.T) {
	transporttest.TestSuite(t, func() transport.Transport {
		return newClient(t, newServer(t, nil), WithReadConcurrency(2))
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{name: "https", endpoint: "https://dav.example.com/files"},
		{name: "dav alias", endpoint: "dav://dav.example.com/files"},
		{name: "davs alias", endpoint: "davs://dav.example.com/files"},
		{name: "unsupported scheme", endpoint: "ftp://dav.example.com/", wantErr: true},
		{name: "missing host", endpoint: "https:///files", wantErr: true},
		{name: "unparsable", endpoint: "://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.endpoint, WithCredentials("u", "p"), WithHTTPTimeout(time.Second))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c.dav)
		})
	}
}

func TestCodeForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   transport.Code
	}{
		{http.StatusNotFound, transport.CodeNotFound},
		{http.StatusConflict, transport.CodeNotFound},
		{http.StatusMethodNotAllowed, transport.CodeExists},
		{http.StatusForbidden, transport.CodePermission},
		{http.StatusUnauthorized, transport.CodePermission},
		{http.StatusLocked, transport.CodePermission},
		{http.StatusRequestedRangeNotSatisfiable, transport.CodeInvalid},
		{http.StatusNotImplemented, transport.CodeNotSupported},
		{http.StatusGatewayTimeout, transport.CodeTimeout},
		{http.StatusInsufficientStorage, transport.CodeIO},
		{http.StatusInternalServerError, transport.CodeIO},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, codeForStatus(tt.status))
		})
	}
}

func TestClient_HTTPStatusIsKept(t *testing.T) {
	srv := newServer(t, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/secret" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	c := newClient(t, srv)

	_, err := c.Stat(context.Background(), "/secret")
	require.Error(t, err)

	var te *transport.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, transport.CodePermission, te.Code)
	assert.Equal(t, http.StatusForbidden, te.HTTPStatus)
}

func TestClient_Headers(t *testing.T) {
	var seen atomic.Value
	srv := newServer(t, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen.Store(r.Header.Get("X-Davfs-Test"))
			next.ServeHTTP(w, r)
		})
	})
	c := newClient(t, srv, WithHeader("X-Davfs-Test", "yes"))

	_, err := c.Stat(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, "yes", seen.Load())
}

func TestClient_Deadline(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/slow" {
				<-release
			}
			next.ServeHTTP(w, r)
		})
	})
	t.Cleanup(func() { close(release) })
	c := newClient(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Stat(ctx, "/slow")
	assert.Equal(t, transport.CodeTimeout, transport.CodeOf(err))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_OpenTruncatesEagerly(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, newServer(t, nil))

	h, err := c.Open(ctx, "/f.txt", os.O_CREATE|os.O_WRONLY)
	require.NoError(t, err)
	_, err = h.Write(ctx, []byte("content"))
	require.NoError(t, err)
	require.NoError(t, h.Close(ctx))

	h, err = c.Open(ctx, "/f.txt", os.O_CREATE|os.O_TRUNC|os.O_WRONLY)
	require.NoError(t, err)

	record, err := c.Stat(ctx, "/f.txt")
	require.NoError(t, err)
	assert.Contains(t, record, "dav 0 ")
	require.NoError(t, h.Close(ctx))
}

func TestClient_Ping(t *testing.T) {
	c := newClient(t, newServer(t, nil))
	assert.NoError(t, c.Ping(context.Background()))
}
