package transporttest

import (
	"context"
	"slices"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

var namespaceTests = map[string]func(*testing.T, transport.Transport){
	"StatRoot":        testStatRoot,
	"StatMissing":     testStatMissing,
	"Mkdir":           testMkdir,
	"Rmdir":           testRmdir,
	"Unlink":          testUnlink,
	"RenameFile":      testRenameFile,
	"RenameReplaces":  testRenameReplaces,
	"RenameDirectory": testRenameDirectory,
	"ReadDir":         testReadDir,
}

func testStatRoot(t *testing.T, tr transport.Transport) {
	if info := stat(t, tr, "/"); !info.IsDir() {
		t.Errorf("Stat(%q): mode %o, want directory", "/", info.Mode)
	}
}

func testStatMissing(t *testing.T, tr transport.Transport) {
	_, err := tr.Stat(context.Background(), "/nope")
	wantCode(t, "Stat(missing)", err, transport.CodeNotFound)
}

func testMkdir(t *testing.T, tr transport.Transport) {
	ctx := context.Background()

	if err := tr.Mkdir(ctx, "/a", 0o755); err != nil {
		t.Fatalf("Mkdir(%q): got error %v, want nil", "/a", err)
	}
	if info := stat(t, tr, "/a"); !info.IsDir() {
		t.Errorf("Stat(%q): mode %o, want directory", "/a", info.Mode)
	}

	wantCode(t, "Mkdir(existing)", tr.Mkdir(ctx, "/a", 0o755), transport.CodeExists)
	wantCode(t, "Mkdir(missing parent)", tr.Mkdir(ctx, "/x/y", 0o755), transport.CodeNotFound)

	if err := tr.Mkdir(ctx, "/a/b", 0o755); err != nil {
		t.Fatalf("Mkdir(%q): got error %v, want nil", "/a/b", err)
	}
}

func testRmdir(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	if err := tr.Mkdir(ctx, "/full", 0o755); err != nil {
		t.Fatalf("Mkdir(): got error %v, want nil", err)
	}
	writeFile(t, tr, "/full/f.txt", []byte("x"))
	if err := tr.Mkdir(ctx, "/empty", 0o755); err != nil {
		t.Fatalf("Mkdir(): got error %v, want nil", err)
	}

	wantCode(t, "Rmdir(non-empty)", tr.Rmdir(ctx, "/full"), transport.CodeNotEmpty)
	wantCode(t, "Rmdir(file)", tr.Rmdir(ctx, "/full/f.txt"), transport.CodeNotDir)
	wantCode(t, "Rmdir(missing)", tr.Rmdir(ctx, "/none"), transport.CodeNotFound)

	if err := tr.Rmdir(ctx, "/empty"); err != nil {
		t.Fatalf("Rmdir(empty): got error %v, want nil", err)
	}
	_, err := tr.Stat(ctx, "/empty")
	wantCode(t, "Stat(removed dir)", err, transport.CodeNotFound)
}

func testUnlink(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	writeFile(t, tr, "/gone.txt", []byte("x"))
	if err := tr.Mkdir(ctx, "/d", 0o755); err != nil {
		t.Fatalf("Mkdir(): got error %v, want nil", err)
	}

	if err := tr.Unlink(ctx, "/gone.txt"); err != nil {
		t.Fatalf("Unlink(): got error %v, want nil", err)
	}
	_, err := tr.Stat(ctx, "/gone.txt")
	wantCode(t, "Stat(unlinked)", err, transport.CodeNotFound)

	wantCode(t, "Unlink(missing)", tr.Unlink(ctx, "/gone.txt"), transport.CodeNotFound)
	wantCode(t, "Unlink(directory)", tr.Unlink(ctx, "/d"), transport.CodeIsDir)
}

func testRenameFile(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	writeFile(t, tr, "/src.txt", []byte("payload"))

	if err := tr.Rename(ctx, "/src.txt", "/dst.txt"); err != nil {
		t.Fatalf("Rename(): got error %v, want nil", err)
	}
	_, err := tr.Stat(ctx, "/src.txt")
	wantCode(t, "Stat(old name)", err, transport.CodeNotFound)
	wantContent(t, tr, "/dst.txt", []byte("payload"))

	wantCode(t, "Rename(missing)", tr.Rename(ctx, "/src.txt", "/other.txt"), transport.CodeNotFound)
}

func testRenameReplaces(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	writeFile(t, tr, "/new.txt", []byte("new"))
	writeFile(t, tr, "/old.txt", []byte("old content"))

	if err := tr.Rename(ctx, "/new.txt", "/old.txt"); err != nil {
		t.Fatalf("Rename() onto existing file: got error %v, want nil", err)
	}
	wantContent(t, tr, "/old.txt", []byte("new"))
}

func testRenameDirectory(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	if err := tr.Mkdir(ctx, "/from", 0o755); err != nil {
		t.Fatalf("Mkdir(): got error %v, want nil", err)
	}
	writeFile(t, tr, "/from/inner.txt", []byte("inner"))

	if err := tr.Rename(ctx, "/from", "/to"); err != nil {
		t.Fatalf("Rename(directory): got error %v, want nil", err)
	}
	if info := stat(t, tr, "/to"); !info.IsDir() {
		t.Errorf("Stat(%q): mode %o, want directory", "/to", info.Mode)
	}
	wantContent(t, tr, "/to/inner.txt", []byte("inner"))

	_, err := tr.Stat(ctx, "/from")
	wantCode(t, "Stat(old directory)", err, transport.CodeNotFound)
}

func testReadDir(t *testing.T, tr transport.Transport) {
	ctx := context.Background()
	if err := tr.Mkdir(ctx, "/list", 0o755); err != nil {
		t.Fatalf("Mkdir(): got error %v, want nil", err)
	}
	writeFile(t, tr, "/list/b.txt", []byte("bb"))
	writeFile(t, tr, "/list/a.txt", []byte("a"))
	if err := tr.Mkdir(ctx, "/list/sub", 0o755); err != nil {
		t.Fatalf("Mkdir(): got error %v, want nil", err)
	}

	entries, err := tr.ReadDir(ctx, "/list")
	if err != nil {
		t.Fatalf("ReadDir(): got error %v, want nil", err)
	}

	got := map[string]*davtypes.StatInfo{}
	var names []string
	for _, e := range entries {
		info, err := davtypes.ParseStatInfo(e.Stat)
		if err != nil {
			t.Fatalf("ReadDir(): entry %q record %q does not parse: %v", e.Name, e.Stat, err)
		}
		got[e.Name] = info
		names = append(names, e.Name)
	}
	slices.Sort(names)
	if want := []string{"a.txt", "b.txt", "sub"}; !slices.Equal(names, want) {
		t.Fatalf("ReadDir(): got names %v, want %v", names, want)
	}
	if got["b.txt"].Size != 2 || !got["b.txt"].IsRegular() {
		t.Errorf("ReadDir(): entry b.txt = %+v, want regular file of 2 bytes", got["b.txt"])
	}
	if !got["sub"].IsDir() {
		t.Errorf("ReadDir(): entry sub mode %o, want directory", got["sub"].Mode)
	}

	_, err = tr.ReadDir(ctx, "/list/a.txt")
	wantCode(t, "ReadDir(file)", err, transport.CodeNotDir)
	_, err = tr.ReadDir(ctx, "/missing")
	wantCode(t, "ReadDir(missing)", err, transport.CodeNotFound)
}
