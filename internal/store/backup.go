package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

// BackupManifest is the header of a backup file. Snapshot holds the todos.json layout.
type BackupManifest struct {
	Format    string          `json:"format"`
	CreatedAt time.Time       `json:"createdAt"`
	Lists     int             `json:"lists"`
	Tasks     int             `json:"tasks"`
	Snapshot  json.RawMessage `json:"snapshot"`
}

const backupFormat = "tasklist-backup-v1"

// WriteBackup writes a zstd-compressed JSON snapshot of db to path.
func WriteBackup(path string, db *DB) (BackupManifest, error) {
	if db == nil {
		return BackupManifest{}, errors.New("nil db")
	}
	snap, err := MarshalWire(db, false)
	if err != nil {
		return BackupManifest{}, err
	}
	m := BackupManifest{
		Format:    backupFormat,
		CreatedAt: time.Now().UTC(),
		Lists:     len(db.Lists),
		Tasks:     len(db.Tasks),
		Snapshot:  snap,
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return BackupManifest{}, err
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return BackupManifest{}, err
	}
	if _, err := enc.Write(raw); err != nil {
		_ = enc.Close()
		return BackupManifest{}, err
	}
	if err := enc.Close(); err != nil {
		return BackupManifest{}, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return BackupManifest{}, err
	}
	if err := atomicWriteFile(dir, filepath.Base(path)+".*.tmp", path, buf.Bytes(), 0o644); err != nil {
		return BackupManifest{}, err
	}
	m.Snapshot = nil
	return m, nil
}

// ReadBackup decodes a backup written by WriteBackup.
func ReadBackup(path string) (*DB, BackupManifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, BackupManifest{}, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, BackupManifest{}, err
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, BackupManifest{}, fmt.Errorf("decompress backup: %w", err)
	}
	var m BackupManifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, BackupManifest{}, fmt.Errorf("parse backup: %w", err)
	}
	if m.Format != backupFormat {
		return nil, BackupManifest{}, fmt.Errorf("unsupported backup format %q", m.Format)
	}
	db, err := ParseLegacyJSON(m.Snapshot)
	if err != nil {
		return nil, BackupManifest{}, err
	}
	m.Snapshot = nil
	return db, m, nil
}
