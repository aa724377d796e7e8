package snapshot

import (
	"errors"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/models"
)

const historyDateLayout = "2006-01-02"

type HistoryEntry struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// History lists the dated snapshots under HistoryDir, oldest first. Files not
// named YYYY-MM-DD.json are skipped. A missing history directory yields an
// empty list.
func (l *Loader) History() ([]HistoryEntry, error) {
	infos, err := l.fs.ReadDir(HistoryDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []HistoryEntry{}, nil
		}
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		base, ok := strings.CutSuffix(info.Name(), ".json")
		if !ok {
			continue
		}
		date, err := time.Parse(historyDateLayout, base)
		if err != nil {
			continue
		}
		entries = append(entries, HistoryEntry{
			Date: date,
			Name: l.fs.Join(HistoryDir, info.Name()),
		})
	}

	slices.SortFunc(entries, func(a, b HistoryEntry) int {
		return a.Date.Compare(b.Date)
	})

	return entries, nil
}

// LoadHistory loads the history snapshot for the given day.
func (l *Loader) LoadHistory(day time.Time) (*models.Root, error) {
	return l.LoadFile(l.fs.Join(HistoryDir, day.Format(historyDateLayout)+".json"))
}
