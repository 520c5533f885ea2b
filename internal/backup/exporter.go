package backup

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	defaultKeepLast = 5
	snapshotPrefix  = "shapingai-"
	snapshotExt     = ".duckdb"
)

// Exporter writes timestamped mirror snapshots.
type Exporter struct {
	store    Snapshotter
	cfg      Config
	uploader Uploader
	now      func() time.Time
}

// NewExporter validates cfg. It returns nil when export is disabled.
func NewExporter(store Snapshotter, cfg Config) (*Exporter, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if store == nil {
		return nil, fmt.Errorf("backup: nil snapshotter")
	}
	if strings.TrimSpace(store.DBPath()) == "" {
		return nil, fmt.Errorf("backup: db-path is empty (in-memory mirror)")
	}
	if strings.TrimSpace(cfg.LocalDir) == "" {
		return nil, fmt.Errorf("backup: snapshot-dir is required when snapshots are enabled")
	}
	if cfg.KeepLast <= 0 {
		cfg.KeepLast = defaultKeepLast
	}
	if err := os.MkdirAll(cfg.LocalDir, 0755); err != nil {
		return nil, fmt.Errorf("backup: create snapshot-dir: %w", err)
	}

	var uploader Uploader
	if strings.TrimSpace(cfg.BucketURL) != "" {
		s3u, err := NewS3Uploader(S3Config{
			BucketURL:    cfg.BucketURL,
			Endpoint:     cfg.S3Endpoint,
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			SessionToken: cfg.S3SessionToken,
			UseSSL:       cfg.S3UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("backup: init s3 uploader: %w", err)
		}
		uploader = s3u
	}

	return &Exporter{
		store:    store,
		cfg:      cfg,
		uploader: uploader,
		now:      time.Now,
	}, nil
}

// Export writes one snapshot, uploads it when a bucket is configured and
// prunes local copies beyond KeepLast. It returns the snapshot path.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	name := snapshotPrefix + e.now().UTC().Format("20060102-150405") + snapshotExt
	localPath := filepath.Join(e.cfg.LocalDir, name)

	if err := e.store.SnapshotTo(localPath); err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	log.Printf("backup: wrote mirror snapshot %s", localPath)

	if e.uploader != nil {
		if err := e.uploader.UploadFile(ctx, localPath); err != nil {
			return localPath, fmt.Errorf("upload: %w", err)
		}
		log.Printf("backup: uploaded snapshot %s", name)
	}

	if err := pruneSnapshots(e.cfg.LocalDir, e.cfg.KeepLast); err != nil {
		return localPath, fmt.Errorf("prune snapshots: %w", err)
	}
	return localPath, nil
}

// pruneSnapshots keeps the newest keepLast snapshots. The timestamp in the
// file name sorts lexically in time order.
func pruneSnapshots(dir string, keepLast int) error {
	if keepLast <= 0 {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, snapshotPrefix+"*"+snapshotExt))
	if err != nil {
		return err
	}
	if len(matches) <= keepLast {
		return nil
	}

	slices.Sort(matches)
	slices.Reverse(matches)
	for _, old := range matches[keepLast:] {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
