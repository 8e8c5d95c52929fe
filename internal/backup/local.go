package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// LocalArchiver writes snapshots into a directory and keeps at most Keep of
// them per file name (0 keeps everything).
type LocalArchiver struct {
	dir  string
	keep int
	now  func() time.Time

	mu   sync.Mutex
	last time.Time // newest timestamp handed out
}

// NewLocalArchiver creates the backup directory if needed.
func NewLocalArchiver(dir string, keep int) (*LocalArchiver, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve backup directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	log.Info().Str("dir", absDir).Int("keep", keep).Msg("initialized local backups")
	return &LocalArchiver{dir: absDir, keep: keep, now: time.Now}, nil
}

// Archive writes data to a new snapshot file and prunes old ones.
func (a *LocalArchiver) Archive(ctx context.Context, name string, data []byte) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	key, err := SnapshotKey(name, a.nextTime())
	if err != nil {
		return "", &BackupError{Op: "Archive", Key: name, Err: err}
	}
	target := filepath.Join(a.dir, key)
	if err := os.WriteFile(target, data, 0644); err != nil {
		if os.IsPermission(err) {
			err = ErrAccessDenied
		} else if os.IsNotExist(err) {
			err = ErrTargetMissing
		}
		return "", &BackupError{Op: "Archive", Key: key, Err: err}
	}
	log.Debug().Str("path", target).Int("bytes", len(data)).Msg("backup written")

	if a.keep > 0 {
		_, base, _ := ParseSnapshotKey(key)
		a.prune(base)
	}
	return target, nil
}

// nextTime returns the current time, nudged forward when the clock has not
// moved since the previous snapshot so keys stay strictly ordered.
func (a *LocalArchiver) nextTime() time.Time {
	at := a.now()
	if !at.After(a.last) {
		at = a.last.Add(time.Nanosecond)
	}
	a.last = at
	return at
}

// prune removes the oldest snapshots of base beyond the retention limit.
func (a *LocalArchiver) prune(base string) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", a.dir).Msg("failed to list backups for pruning")
		return
	}
	type snapshot struct {
		name string
		at   time.Time
	}
	var matches []snapshot
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		at, snapBase, ok := ParseSnapshotKey(e.Name())
		if ok && snapBase == base {
			matches = append(matches, snapshot{name: e.Name(), at: at})
		}
	}
	if len(matches) <= a.keep {
		return
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].at.Equal(matches[j].at) {
			return matches[i].at.Before(matches[j].at)
		}
		return matches[i].name < matches[j].name
	})
	for _, old := range matches[:len(matches)-a.keep] {
		if err := os.Remove(filepath.Join(a.dir, old.name)); err != nil {
			log.Warn().Err(err).Str("file", old.name).Msg("failed to prune backup")
		}
	}
}
