package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func writeZstd(t *testing.T, path string, raw []byte) {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	if _, err := enc.Write(raw); err != nil {
		t.Fatalf("zstd write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestReadBackup_RejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.tlbak")
	raw, _ := json.Marshal(map[string]any{"format": "something-else", "snapshot": map[string]any{}})
	writeZstd(t, path, raw)

	_, _, err := ReadBackup(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported backup format") {
		t.Fatalf("err = %v", err)
	}
}

func TestReadBackup_RejectsUncompressedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.json")
	if err := os.WriteFile(path, []byte(`{"format":"tasklist-backup-v1"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := ReadBackup(path); err == nil {
		t.Fatalf("expected error for a non-zstd file")
	}
}

func TestWriteBackup_ManifestOmitsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.tlbak")
	m, err := WriteBackup(path, sampleDB())
	if err != nil {
		t.Fatalf("WriteBackup: %v", err)
	}
	if m.Format != backupFormat || m.Snapshot != nil || m.CreatedAt.IsZero() {
		t.Fatalf("manifest = %+v", m)
	}
	if _, err := WriteBackup(path, nil); err == nil {
		t.Fatalf("expected error for nil db")
	}
}
