// Package backup exports snapshots of the SQL mirror after the corpus has
// been loaded, keeping the last few locally and optionally copying each one
// to an S3 bucket.
package backup

import "context"

// Config controls snapshot export.
type Config struct {
	Enabled   bool
	LocalDir  string
	KeepLast  int
	BucketURL string

	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3SessionToken string
	S3UseSSL       bool
}

// Snapshotter is the part of the mirror store an Exporter needs.
type Snapshotter interface {
	DBPath() string
	SnapshotTo(dstPath string) error
}

// Uploader copies one snapshot file to remote storage.
type Uploader interface {
	UploadFile(ctx context.Context, localPath string) error
}
