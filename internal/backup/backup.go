// Package backup keeps copies of saved record files outside the live data
// directory. Archivers are called after a successful save with the exact
// bytes that were written.
package backup

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ProviderNone  = "none"
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

var (
	// ErrAccessDenied is returned when the backup target rejects the credentials.
	ErrAccessDenied = errors.New("backup access denied")

	// ErrTargetMissing is returned when the configured bucket or directory does not exist.
	ErrTargetMissing = errors.New("backup target does not exist")

	// ErrInvalidName is returned for names that cannot be turned into a key.
	ErrInvalidName = errors.New("invalid backup name")
)

// Archiver stores one snapshot of a record file and returns where it went.
type Archiver interface {
	Archive(ctx context.Context, name string, data []byte) (string, error)
}

// BackupError wraps archiver failures with the operation and key involved.
type BackupError struct {
	Op  string
	Key string
	Err error
}

func (e *BackupError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("backup %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("backup %s: %v", e.Op, e.Err)
}

func (e *BackupError) Unwrap() error {
	return e.Err
}

// SnapshotKey builds "<unixnano>_<uuid>_<name>" so snapshots of the same file
// order by time and never collide.
func SnapshotKey(name string, at time.Time) (string, error) {
	base, err := snapshotBase(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d_%s_%s", at.UnixNano(), uuid.NewString(), base), nil
}

// ParseSnapshotKey splits a key made by SnapshotKey back into its timestamp
// and file name. Any directory prefix on key is ignored.
func ParseSnapshotKey(key string) (time.Time, string, bool) {
	parts := strings.SplitN(path.Base(key), "_", 3)
	if len(parts) != 3 || parts[2] == "" {
		return time.Time{}, "", false
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || nanos < 0 {
		return time.Time{}, "", false
	}
	if _, err := uuid.Parse(parts[1]); err != nil {
		return time.Time{}, "", false
	}
	return time.Unix(0, nanos), parts[2], true
}

func snapshotBase(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "" || base == "." || base == ".." || base == "/" {
		return "", ErrInvalidName
	}
	return base, nil
}
