package dataset

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"sales-dashboard/internal/models"
)

const snapshotVersion = "v1"

// snapshot is the parsed form of a CSV file, keyed to the source's size and
// modification time so an edited file is never served stale.
type snapshot struct {
	Version       string
	SourceModTime time.Time
	SourceSize    int64
	CreatedAt     time.Time
	Records       []models.Transaction
}

func snapshotPath(cacheDir, csvPath string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(filepath.Clean(csvPath))
	return filepath.Join(cacheDir, fmt.Sprintf("%s_%s.gob.zst", name, snapshotVersion))
}

func writeSnapshot(cacheDir, csvPath string, info os.FileInfo, records []models.Transaction) error {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}

	file, err := os.Create(snapshotPath(cacheDir, csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	enc, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	snap := snapshot{
		Version:       snapshotVersion,
		SourceModTime: info.ModTime(),
		SourceSize:    info.Size(),
		CreatedAt:     time.Now().UTC(),
		Records:       records,
	}
	if err := gob.NewEncoder(enc).Encode(snap); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// readSnapshot returns the cached records for csvPath, or an error when no
// snapshot exists or it no longer matches the source file.
func readSnapshot(cacheDir, csvPath string, info os.FileInfo) ([]models.Transaction, error) {
	file, err := os.Open(snapshotPath(cacheDir, csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	dec, err := zstd.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var snap snapshot
	if err := gob.NewDecoder(dec).Decode(&snap); err != nil {
		return nil, err
	}

	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("snapshot version %q, want %q", snap.Version, snapshotVersion)
	}
	if !snap.SourceModTime.Equal(info.ModTime()) || snap.SourceSize != info.Size() {
		return nil, fmt.Errorf("snapshot is stale")
	}
	return snap.Records, nil
}
