package snapshot

import (
	"fmt"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/logger"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/models"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/parser"
)

// Loader reads snapshots from a filesystem rooted at the data directory.
// Every Load returns an independent Root owned by the caller.
type Loader struct {
	fs       billy.Filesystem
	latest   string
	fallback string
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

func WithLatestFile(name string) Option {
	return func(l *Loader) {
		l.latest = name
	}
}

func WithFallbackFile(name string) Option {
	return func(l *Loader) {
		l.fallback = name
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = log
	}
}

func NewLoader(fs billy.Filesystem, opts ...Option) *Loader {
	l := &Loader{
		fs:       fs,
		latest:   LatestFile,
		fallback: FallbackFile,
		logger:   logger.Discard(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// NewDirLoader returns a Loader over the OS directory dir.
func NewDirLoader(dir string, opts ...Option) *Loader {
	return NewLoader(osfs.New(dir), opts...)
}

// Load reads DefaultDataDir with the default file names.
func Load() (*models.Root, error) {
	return NewDirLoader(DefaultDataDir()).Load()
}

// Load resolves the snapshot file and parses it. Missing, unreadable and
// malformed files are returned as errors; there is no default snapshot.
func (l *Loader) Load() (*models.Root, error) {
	return l.LoadFile(l.Resolve())
}

// LoadFile reads and parses the named file in the data filesystem.
func (l *Loader) LoadFile(name string) (*models.Root, error) {
	data, err := util.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", l.path(name), err)
	}

	l.logger.Debug("snapshot read", "path", l.path(name), "bytes", len(data))

	root, err := parser.ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", l.path(name), err)
	}

	return root, nil
}

func (l *Loader) path(name string) string {
	return l.fs.Join(l.fs.Root(), name)
}
