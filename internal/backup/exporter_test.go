package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeSnapshotter struct {
	dbPath string
	data   []byte
}

func (f *fakeSnapshotter) DBPath() string { return f.dbPath }

func (f *fakeSnapshotter) SnapshotTo(dstPath string) error {
	return os.WriteFile(dstPath, f.data, 0644)
}

func TestNewExporter_Disabled(t *testing.T) {
	t.Parallel()

	e, err := NewExporter(&fakeSnapshotter{dbPath: "/tmp/shapingai.duckdb"}, Config{})
	if err != nil {
		t.Fatalf("NewExporter error: %v", err)
	}
	if e != nil {
		t.Fatal("expected nil exporter when disabled")
	}
}

func TestNewExporter_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewExporter(&fakeSnapshotter{}, Config{Enabled: true, LocalDir: t.TempDir()}); err == nil {
		t.Error("expected error for an in-memory mirror")
	}
	if _, err := NewExporter(&fakeSnapshotter{dbPath: "/tmp/shapingai.duckdb"}, Config{Enabled: true}); err == nil {
		t.Error("expected error for a missing snapshot dir")
	}
}

func TestExport_WritesAndPrunes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e, err := NewExporter(&fakeSnapshotter{dbPath: "/tmp/shapingai.duckdb", data: []byte("mirror")}, Config{
		Enabled:  true,
		LocalDir: dir,
		KeepLast: 2,
	})
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var paths []string
	for i := range 3 {
		e.now = func() time.Time { return base.Add(time.Duration(i) * time.Second) }
		p, err := e.Export(context.Background())
		if err != nil {
			t.Fatalf("Export #%d: %v", i, err)
		}
		paths = append(paths, p)
	}

	if filepath.Base(paths[0]) != "shapingai-20240301-120000.duckdb" {
		t.Errorf("snapshot name = %q", filepath.Base(paths[0]))
	}
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Errorf("oldest snapshot should be pruned, stat err = %v", err)
	}
	for _, p := range paths[1:] {
		data, err := os.ReadFile(p)
		if err != nil || string(data) != "mirror" {
			t.Errorf("snapshot %s = %q, %v", p, data, err)
		}
	}
}
