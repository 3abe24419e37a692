package transporttest

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

var fileTests = map[string]func(*testing.T, transport.Transport){
	"CreateWriteRead":   testCreateWriteRead,
	"CreateExclusive":   testCreateExclusive,
	"OpenMissing":       testOpenMissing,
	"OpenDirectory":     testOpenDirectory,
	"PositionedWrite":   testPositionedWrite,
	"Append":            testAppend,
	"Truncate":          testTruncate,
	"ReadPastEnd":       testReadPastEnd,
	"ReadVec":           testReadVec,
	"AccessMode":        testAccessMode,
	"CloseTwice":        testCloseTwice,
	"CreateIsImmediate": testCreateIsImmediate,
	"HugeOffsetWrite":   testHugeOffsetWrite,
}

func testCreateWriteRead(t *testing.T, tr transport.Transport) {
	data := []byte("hello transport")
	writeFile(t, tr, "/hello.txt", data)

	wantContent(t, tr, "/hello.txt", data)

	info := stat(t, tr, "/hello.txt")
	if info.Size != uint64(len(data)) {
		t.Errorf("Stat(%q): size %d, want %d", "/hello.txt", info.Size, len(data))
	}
	if !info.IsRegular() {
		t.Errorf("Stat(%q): mode %o, want regular file", "/hello.txt", info.Mode)
	}
}

func testCreateExclusive(t *testing.T, tr transport.Transport) {
	writeFile(t, tr, "/excl.txt", []byte("x"))

	_, err := tr.Open(context.Background(), "/excl.txt", os.O_CREATE|os.O_EXCL|os.O_WRONLY)
	wantCode(t, "Open(O_EXCL) on existing file", err, transport.CodeExists)
}

func testOpenMissing(t *testing.T, tr transport.Transport) {
	ctx := context.Background()

	_, err := tr.Open(ctx, "/missing.txt", os.O_RDONLY)
	wantCode(t, "Open(missing)", err, transport.CodeNotFound)

	_, err = tr.Open(ctx, "/nodir/file.txt", os.O_CREATE|os.O_WRONLY)
	wantCode(t, "Open(O_CREATE) under missing parent", err, transport.CodeNotFound)
}

func testOpenDirectory(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	if err := tr.Mkdir(ctx, "/dir", 0o755); err != nil {
		t.Fatalf("Mkdir(%q): got error %v, want nil", "/dir", err)
	}

	_, err := tr.Open(ctx, "/dir", os.O_RDONLY)
	wantCode(t, "Open(directory)", err, transport.CodeIsDir)
}

func testPositionedWrite(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	writeFile(t, tr, "/pos.txt", []byte("0123456789"))

	h, err := tr.Open(ctx, "/pos.txt", os.O_RDWR)
	if err != nil {
		t.Fatalf("Open(O_RDWR): got error %v, want nil", err)
	}
	pos, err := h.Seek(ctx, 3, io.SeekStart)
	if err != nil || pos != 3 {
		t.Fatalf("Seek(3): got (%d, %v), want (3, nil)", pos, err)
	}
	if _, err := h.Write(ctx, []byte("abc")); err != nil {
		t.Fatalf("Write(): got error %v, want nil", err)
	}

	buf := make([]byte, 10)
	n, err := h.ReadAt(ctx, buf, 0)
	if err != nil {
		t.Fatalf("ReadAt() on dirty handle: got error %v, want nil", err)
	}
	if got := string(buf[:n]); got != "012abc6789" {
		t.Errorf("ReadAt() on dirty handle: got %q, want %q", got, "012abc6789")
	}
	if err := h.Close(ctx); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}

	wantContent(t, tr, "/pos.txt", []byte("012abc6789"))
}

func testAppend(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	writeFile(t, tr, "/append.txt", []byte("abc"))

	h, err := tr.Open(ctx, "/append.txt", os.O_WRONLY|os.O_APPEND)
	if err != nil {
		t.Fatalf("Open(O_APPEND): got error %v, want nil", err)
	}
	if _, err := h.Seek(ctx, 0, io.SeekStart); err != nil {
		t.Fatalf("Seek(0): got error %v, want nil", err)
	}
	if _, err := h.Write(ctx, []byte("def")); err != nil {
		t.Fatalf("Write(): got error %v, want nil", err)
	}
	if err := h.Close(ctx); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}

	wantContent(t, tr, "/append.txt", []byte("abcdef"))
}

func testTruncate(t *testing.T, tr transport.Transport) {
	writeFile(t, tr, "/trunc.txt", []byte("long original content"))
	writeFile(t, tr, "/trunc.txt", []byte("short"))

	wantContent(t, tr, "/trunc.txt", []byte("short"))
}

func testReadPastEnd(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	writeFile(t, tr, "/short.txt", []byte("abcdef"))

	h, err := tr.Open(ctx, "/short.txt", os.O_RDONLY)
	if err != nil {
		t.Fatalf("Open(): got error %v, want nil", err)
	}
	defer func() {
		_ = h.Close(ctx)
	}()

	buf := make([]byte, 10)
	n, err := h.ReadAt(ctx, buf, 4)
	if err != nil || string(buf[:n]) != "ef" {
		t.Errorf("ReadAt(off=4): got (%q, %v), want (%q, nil)", buf[:n], err, "ef")
	}

	n, err = h.ReadAt(ctx, buf, 100)
	if err != nil || n != 0 {
		t.Errorf("ReadAt(off=100): got (%d, %v), want (0, nil)", n, err)
	}
}

func testReadVec(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	data := []byte("0123456789abcdefghij")
	writeFile(t, tr, "/vec.bin", data)

	h, err := tr.Open(ctx, "/vec.bin", os.O_RDONLY)
	if err != nil {
		t.Fatalf("Open(): got error %v, want nil", err)
	}
	defer func() {
		_ = h.Close(ctx)
	}()

	vecs := []transport.IOVec{
		{Offset: 15, Length: 3},
		{Offset: 0, Length: 4},
		{Offset: 18, Length: 10},
	}
	out, err := h.ReadVec(ctx, vecs)
	if err != nil {
		t.Fatalf("ReadVec(): got error %v, want nil", err)
	}
	if len(out) != len(vecs) {
		t.Fatalf("ReadVec(): got %d outputs, want %d", len(out), len(vecs))
	}

	want := [][]byte{[]byte("fgh"), []byte("0123"), []byte("ij")}
	for i := range want {
		if !bytes.Equal(out[i], want[i]) {
			t.Errorf("ReadVec() output %d: got %q, want %q", i, out[i], want[i])
		}
	}
}

func testAccessMode(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	writeFile(t, tr, "/ro.txt", []byte("data"))

	h, err := tr.Open(ctx, "/ro.txt", os.O_RDONLY)
	if err != nil {
		t.Fatalf("Open(O_RDONLY): got error %v, want nil", err)
	}
	_, err = h.Write(ctx, []byte("x"))
	wantCode(t, "Write() on read-only handle", err, transport.CodeBadHandle)
	_ = h.Close(ctx)

	wantContent(t, tr, "/ro.txt", []byte("data"))
}

func testCloseTwice(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	writeFile(t, tr, "/twice.txt", []byte("x"))

	h, err := tr.Open(ctx, "/twice.txt", os.O_RDONLY)
	if err != nil {
		t.Fatalf("Open(): got error %v, want nil", err)
	}
	if err := h.Close(ctx); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}
	wantCode(t, "second Close()", h.Close(ctx), transport.CodeBadHandle)
}

func testCreateIsImmediate(t *testing.T, tr transport.Transport) {
	ctx := context.Background()

	h, err := tr.Open(ctx, "/new.txt", os.O_CREATE|os.O_EXCL|os.O_WRONLY)
	if err != nil {
		t.Fatalf("Open(O_CREATE|O_EXCL): got error %v, want nil", err)
	}
	defer func() {
		_ = h.Close(ctx)
	}()

	info := stat(t, tr, "/new.txt")
	if info.Size != 0 {
		t.Errorf("Stat() of freshly created file: size %d, want 0", info.Size)
	}
}

func testHugeOffsetWrite(t *testing.T, tr transport.Transport) {
	ctx := context.Background()

	h, err := tr.Open(ctx, "/huge.bin", os.O_CREATE|os.O_WRONLY)
	if err != nil {
		t.Fatalf("Open(O_CREATE): got error %v, want nil", err)
	}

	// Some local filesystems refuse the seek itself, which is fine.
	if _, err := h.Seek(ctx, 1<<62, io.SeekStart); err == nil {
		n, err := h.Write(ctx, []byte("x"))
		wantCode(t, "Write() at offset 1<<62", err, transport.CodeTooLarge)
		if n != 0 {
			t.Errorf("Write() at offset 1<<62: wrote %d bytes, want 0", n)
		}
	}

	if err := h.Close(ctx); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}
	info := stat(t, tr, "/huge.bin")
	if info.Size != 0 {
		t.Errorf("Stat() after rejected write: size %d, want 0", info.Size)
	}
}
