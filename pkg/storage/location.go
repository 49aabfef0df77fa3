package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Location is a parsed output destination: either a local file path or an
// s3://bucket/key URL.
type Location struct {
	// Scheme is "file" or "s3".
	Scheme string

	// Bucket is the S3 bucket; empty for local files.
	Bucket string

	// Dir is the local directory holding the file; empty for S3.
	Dir string

	// Path is the file name (local) or object key (S3).
	Path string
}

// ParseLocation parses a local path or an s3://bucket/key URL.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, fmt.Errorf("storage: empty location")
	}
	if rest, ok := strings.CutPrefix(s, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
			return Location{}, fmt.Errorf("storage: invalid s3 location %q, want s3://bucket/key", s)
		}
		return Location{Scheme: "s3", Bucket: bucket, Path: key}, nil
	}
	if strings.HasSuffix(s, "/") || strings.HasSuffix(s, string(filepath.Separator)) {
		return Location{}, fmt.Errorf("storage: location %q is a directory", s)
	}
	return Location{
		Scheme: "file",
		Dir:    filepath.Dir(s),
		Path:   filepath.Base(s),
	}, nil
}

// String returns the location in the form accepted by ParseLocation.
func (l Location) String() string {
	if l.Scheme == "s3" {
		return "s3://" + l.Bucket + "/" + l.Path
	}
	return filepath.Join(l.Dir, l.Path)
}

// Open returns a FileStore rooted at the location's directory (local) or
// bucket (S3). s3Client is only used for S3 locations and may be nil
// otherwise.
func (l Location) Open(s3Client S3Client) (FileStore, error) {
	switch l.Scheme {
	case "file":
		return NewLocal(l.Dir)
	case "s3":
		if s3Client == nil {
			return nil, fmt.Errorf("storage: no S3 client configured for %s", l)
		}
		return NewS3(s3Client, l.Bucket, ""), nil
	}
	return nil, fmt.Errorf("storage: unknown scheme %q", l.Scheme)
}
