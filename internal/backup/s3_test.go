package backup

import (
	"slices"
	"strings"
	"testing"
)

func TestParseS3BucketURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		wantBkt   string
		wantPre   string
		errSubstr string
	}{
		{name: "bucket only", raw: "s3://corpus-snapshots", wantBkt: "corpus-snapshots"},
		{name: "bucket with prefix", raw: "s3://corpus-snapshots/shapingai/mirror/", wantBkt: "corpus-snapshots", wantPre: "shapingai/mirror"},
		{name: "invalid scheme", raw: "https://corpus-snapshots/shapingai", errSubstr: "s3:// scheme"},
		{name: "missing bucket", raw: "s3:///shapingai", errSubstr: "missing bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gotBkt, gotPre, err := parseS3BucketURL(tt.raw)
			if tt.errSubstr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errSubstr) {
					t.Fatalf("err = %v, want substring %q", err, tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseS3BucketURL error: %v", err)
			}
			if gotBkt != tt.wantBkt || gotPre != tt.wantPre {
				t.Fatalf("got %q %q, want %q %q", gotBkt, gotPre, tt.wantBkt, tt.wantPre)
			}
		})
	}
}

func TestNewS3Uploader_MissingCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewS3Uploader(S3Config{BucketURL: "s3://corpus-snapshots/shapingai"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestCopyArgs(t *testing.T) {
	t.Parallel()

	u := &S3Uploader{
		bucket:    "corpus-snapshots",
		keyPrefix: "shapingai",
		cfg:       S3Config{Region: "eu-west-3", Endpoint: "minio.local:9000"},
	}
	args := u.copyArgs("/var/lib/shapingai/shapingai-20240101-000000.duckdb")

	if args[3] != "s3://corpus-snapshots/shapingai/shapingai-20240101-000000.duckdb" {
		t.Errorf("destination = %q", args[3])
	}
	i := slices.Index(args, "--endpoint-url")
	if i < 0 || args[i+1] != "http://minio.local:9000" {
		t.Errorf("endpoint args = %v", args)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		useSSL bool
		want   string
	}{
		{"", true, ""},
		{"s3.amazonaws.com", true, "https://s3.amazonaws.com"},
		{"localhost:9000", false, "http://localhost:9000"},
		{"http://localhost:9000", true, "http://localhost:9000"},
	}
	for _, tt := range tests {
		if got := normalizeEndpoint(tt.in, tt.useSSL); got != tt.want {
			t.Errorf("normalizeEndpoint(%q, %v) = %q, want %q", tt.in, tt.useSSL, got, tt.want)
		}
	}
}
