package snapshot

import (
	"path/filepath"
	"runtime"
)

const (
	// LatestFile is written by the collection job on every run.
	LatestFile = "latest.json"
	// FallbackFile is the committed snapshot used when LatestFile is absent.
	FallbackFile = "2026-01-10.json"
	// HistoryDir holds one snapshot per collection day.
	HistoryDir = "history"
)

// DefaultDataDir returns the repository data directory, resolved from the
// location of this source file.
func DefaultDataDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok || !filepath.IsAbs(file) {
		return "data"
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "data")
}

// Resolve returns the name of the snapshot file to read: the latest file when
// it exists in the data filesystem, the fallback file otherwise.
func (l *Loader) Resolve() string {
	if _, err := l.fs.Stat(l.latest); err == nil {
		return l.latest
	}
	return l.fallback
}
