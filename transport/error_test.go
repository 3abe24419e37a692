package transport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"deadline", context.DeadlineExceeded, CodeTimeout},
		{"canceled", fmt.Errorf("get: %w", context.Canceled), CodeCanceled},
		{"not exist", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist}, CodeNotFound},
		{"os exist", os.ErrExist, CodeExists},
		{"permission", fs.ErrPermission, CodePermission},
		{"closed", fs.ErrClosed, CodeBadHandle},
		{"unsupported", errors.ErrUnsupported, CodeNotSupported},
		{"other", errors.New("connection reset"), CodeIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrap("op", "/p", tt.err)
			assert.Equal(t, tt.want, CodeOf(err))
		})
	}

	assert.NoError(t, Wrap("op", "/p", nil))

	orig := NewError("mkdir", "/a", CodeExists)
	assert.Same(t, orig, Wrap("other", "/b", fmt.Errorf("ctx: %w", orig)))
}

func TestError_Is(t *testing.T) {
	assert.True(t, errors.Is(NewError("stat", "/a", CodeNotFound), fs.ErrNotExist))
	assert.True(t, errors.Is(NewError("mkdir", "/a", CodeExists), fs.ErrExist))
	assert.False(t, errors.Is(NewError("rmdir", "/a", CodeNotEmpty), fs.ErrExist))
	assert.True(t, IsExist(NewError("mkdir", "/a", CodeExists)))
	assert.True(t, IsNotExist(fmt.Errorf("w: %w", NewError("stat", "/a", CodeNotFound))))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("x")))
}

func TestFormatStat(t *testing.T) {
	mtime := time.Unix(1700000000, 0)
	assert.Equal(t, "0 12 33188 1700000000", FormatStat("", 12, 0o644, mtime))
	assert.Equal(t, "dav 0 16877 1700000000", FormatStat("dav", -1, fs.ModeDir|0o755, mtime))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/a/b", CleanPath("a//b/"))
	assert.Equal(t, "/", CleanPath(""))
	assert.Equal(t, "/a", ParentPath("/a/b"))
	assert.Equal(t, "/", ParentPath("/a"))
	assert.Equal(t, "/", ParentPath("/"))
}
