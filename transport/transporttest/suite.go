// Package transporttest provides a conformance test suite for
// transport.Transport implementations.
//
// The suite checks the POSIX-like contract davfs relies on: open flag
// semantics, positioned reads and writes, scatter-gather reads, stat records,
// single-level mkdir and the error codes of namespace operations.
//
// Example usage:
//
//	func TestMyTransport(t *testing.T) {
//	    transporttest.TestSuite(t, func() transport.Transport {
//	        return mytransport.New()
//	    })
//	}
package transporttest

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/davtypes"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// TestSuite runs all conformance tests. The newTransport function must return
// a transport over a fresh, empty namespace for each call.
func TestSuite(t *testing.T, newTransport func() transport.Transport) {
	TestSuiteWithSkip(t, newTransport, nil)
}

// TestSuiteWithSkip runs conformance tests with optional test skipping.
// skipTests holds test names such as "Namespace/RenameDirectory".
func TestSuiteWithSkip(t *testing.T, newTransport func() transport.Transport, skipTests []string) {
	shouldSkip := func(name string) bool {
		for _, s := range skipTests {
			if s == name {
				return true
			}
		}
		return false
	}

	groups := []struct {
		name  string
		tests map[string]func(*testing.T, transport.Transport)
	}{
		{"Files", fileTests},
		{"Namespace", namespaceTests},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			if shouldSkip(g.name) {
				t.Skip("Skipped by transport configuration")
			}
			for name, fn := range g.tests {
				t.Run(name, func(t *testing.T) {
					if shouldSkip(g.name + "/" + name) {
						t.Skip("Skipped by transport configuration")
					}
					fn(t, newTransport())
				})
			}
		})
	}
}

// writeFile creates or replaces path with data.
func writeFile(t *testing.T, tr transport.Transport, path string, data []byte) {
	t.Helper()
	ctx := context.Background()

	h, err := tr.Open(ctx, path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY)
	if err != nil {
		t.Fatalf("Open(%q): got error %v, want nil", path, err)
	}
	if len(data) > 0 {
		n, err := h.Write(ctx, data)
		if err != nil {
			_ = h.Close(ctx)
			t.Fatalf("Write(%q): got error %v, want nil", path, err)
		}
		if n != len(data) {
			_ = h.Close(ctx)
			t.Fatalf("Write(%q): wrote %d bytes, want %d", path, n, len(data))
		}
	}
	if err := h.Close(ctx); err != nil {
		t.Fatalf("Close(%q): got error %v, want nil", path, err)
	}
}

// readFile reads up to max bytes of path from offset 0.
func readFile(t *testing.T, tr transport.Transport, path string, max int) []byte {
	t.Helper()
	ctx := context.Background()

	h, err := tr.Open(ctx, path, os.O_RDONLY)
	if err != nil {
		t.Fatalf("Open(%q): got error %v, want nil", path, err)
	}
	defer func() {
		_ = h.Close(ctx)
	}()

	buf := make([]byte, max)
	n, err := h.ReadAt(ctx, buf, 0)
	if err != nil {
		t.Fatalf("ReadAt(%q): got error %v, want nil", path, err)
	}
	return buf[:n]
}

// stat returns the parsed stat record of path.
func stat(t *testing.T, tr transport.Transport, path string) *davtypes.StatInfo {
	t.Helper()

	record, err := tr.Stat(context.Background(), path)
	if err != nil {
		t.Fatalf("Stat(%q): got error %v, want nil", path, err)
	}
	info, err := davtypes.ParseStatInfo(record)
	if err != nil {
		t.Fatalf("Stat(%q): record %q does not parse: %v", path, record, err)
	}
	return info
}

// wantCode fails the test unless err carries code.
func wantCode(t *testing.T, call string, err error, code transport.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: got nil error, want %v", call, code)
	}
	if got := transport.CodeOf(err); got != code {
		t.Fatalf("%s: got code %v (%v), want %v", call, got, err, code)
	}
}

func wantContent(t *testing.T, tr transport.Transport, path string, want []byte) {
	t.Helper()
	got := readFile(t, tr, path, len(want)+16)
	if !bytes.Equal(got, want) {
		t.Errorf("content of %q: got %q, want %q", path, got, want)
	}
}
