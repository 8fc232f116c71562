package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// FileStorage keeps generated report files.
type FileStorage interface {
	// Put writes data under key and returns the stored key
	Put(ctx context.Context, key string, data []byte) (string, error)

	// Open retrieves a stored file
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// URL returns the public address of key
	URL(key string) string

	// Exists checks if a file is stored under key
	Exists(ctx context.Context, key string) (bool, error)
}

// ArchiveKey partitions archived files by generation day and owner:
// "2024/04/18/<ownerID>/<filename>".
func ArchiveKey(generatedAt time.Time, ownerID, filename string) string {
	return path.Join(generatedAt.UTC().Format("2006/01/02"), ownerID, path.Base(filename))
}

// ArchiveOwner returns the owner segment of a key built by ArchiveKey.
func ArchiveOwner(key string) (string, bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 5 || parts[3] == "" {
		return "", false
	}
	return parts[3], true
}
