package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/models"
)

func ptr[T any](v T) *T { return &v }

func fixtureRoot() *models.Root {
	agesic := models.OrganizationRef{ID: "o1", Name: "agesic", Title: "AGESIC"}
	ine := models.OrganizationRef{ID: "o2", Name: "ine", Title: "INE"}

	return &models.Root{
		Meta: models.Meta{
			GeneratedAt:            time.Date(2026, 1, 10, 6, 12, 41, 0, time.UTC),
			FreshnessThresholdDays: models.FreshnessThresholds{GreenLT: 90, YellowLTE: 365},
		},
		Summary: models.Summary{
			DatasetsTotal:   3,
			DatasetsGreen:   1,
			DatasetsRed:     1,
			DatasetsUnknown: 1,
			ResourcesTotal:  3,
			ResourcesBroken: 2,
		},
		Organizations: []models.Organization{
			{ID: "o1", Name: "agesic", Title: "AGESIC", DatasetsTotal: 2},
			{ID: "o2", Name: "ine", Title: "INE", DatasetsTotal: 1},
		},
		Datasets: []models.Dataset{
			{
				ID: "d1", Name: "compras", Title: "Compras estatales", Organization: agesic,
				LastModified:      ptr(time.Date(2025, 12, 18, 14, 3, 22, 0, time.UTC)),
				DaysSinceModified: ptr(22),
				FreshnessBucket:   models.BucketGreen,
				ResourcesTotal:    1,
				Formats:           []string{"csv"},
				Resources: []models.Resource{{
					ID: "r1", Name: "compras.csv", Format: "CSV",
					URL:   ptr("https://example.org/compras.csv"),
					Check: models.Check{OK: true, HTTPStatus: ptr(200), BytesRead: 1024},
				}},
			},
			{
				ID: "d2", Name: "tramites", Title: "Trámites <en línea>", Organization: agesic,
				FreshnessBucket: models.BucketRed,
				ResourcesTotal:  1, ResourcesBroken: 1, ResourcesParseFailed: 1,
				Formats: []string{"json"},
				Resources: []models.Resource{{
					ID: "r2", Format: "JSON",
					Check: models.Check{
						OK: false, HTTPStatus: ptr(200), Error: ptr("parse_failed"),
						ParseOK: ptr(false), ParseError: ptr("Expecting value"),
					},
				}},
			},
			{
				ID: "d3", Name: "ipc", Title: "IPC", Organization: ine,
				FreshnessBucket: models.BucketUnknown,
				ResourcesTotal:  1, ResourcesBroken: 1,
				Formats: []string{"csv"},
				Resources: []models.Resource{{
					ID: "r3", Name: "ipc.csv", Format: "CSV",
					Check: models.Check{OK: false, Error: ptr("missing url")},
				}},
			},
		},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

func TestNewBuilder(t *testing.T) {
	t.Run("requires output directory", func(t *testing.T) {
		_, err := NewBuilder(Options{})
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		b, err := NewBuilder(Options{OutDir: t.TempDir()})
		require.NoError(t, err)

		assert.Equal(t, defaultConcurrency, b.opts.Concurrency)
		assert.NotNil(t, b.opts.Logger)
		assert.Len(t, b.templates, 3)
	})
}

func TestBuilder_Build(t *testing.T) {
	out := t.TempDir()
	b, err := NewBuilder(Options{OutDir: out, Title: "Observatorio", TopLimit: 2, Source: "latest.json"})
	require.NoError(t, err)
	b.now = func() time.Time { return time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC) }

	manifest, err := b.Build(context.Background(), fixtureRoot())
	require.NoError(t, err)

	t.Run("manifest", func(t *testing.T) {
		assert.Equal(t, "2026-01-11T00:00:00Z", manifest.BuiltAt)
		assert.Equal(t, "2026-01-10T06:12:41Z", manifest.SnapshotGeneratedAt)
		assert.Equal(t, runtime.Version(), manifest.GoVersion)
		assert.Equal(t, "latest.json", manifest.SnapshotSource)
		assert.Equal(t, 8, manifest.Pages)
		assert.Equal(t, 2, manifest.Organizations)
		assert.Equal(t, 3, manifest.Datasets)

		var onDisk Manifest
		require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(out, "manifest.json"))), &onDisk))
		assert.Equal(t, manifest, onDisk)
	})

	t.Run("index page", func(t *testing.T) {
		html := readFile(t, filepath.Join(out, "index.html"))

		assert.Contains(t, html, "<title>Resumen · Observatorio</title>")
		assert.Contains(t, html, `href="datasets/tramites/index.html"`)
		assert.Contains(t, html, `href="organizations/ine/index.html"`)
		assert.Contains(t, html, "Green")
		assert.Contains(t, html, "Snapshot generated 2026-01-10")
	})

	t.Run("index escapes titles", func(t *testing.T) {
		html := readFile(t, filepath.Join(out, "index.html"))

		assert.Contains(t, html, "Trámites &lt;en línea&gt;")
		assert.NotContains(t, html, "<en línea>")
	})

	t.Run("organization pages list their datasets", func(t *testing.T) {
		html := readFile(t, filepath.Join(out, "organizations", "agesic", "index.html"))

		assert.Contains(t, html, "../../datasets/compras/index.html")
		assert.Contains(t, html, "../../datasets/tramites/index.html")
		assert.NotContains(t, html, "../../datasets/ipc/index.html")

		html = readFile(t, filepath.Join(out, "organizations", "ine", "index.html"))
		assert.Contains(t, html, "../../datasets/ipc/index.html")
	})

	t.Run("dataset pages show checks", func(t *testing.T) {
		html := readFile(t, filepath.Join(out, "datasets", "compras", "index.html"))
		assert.Contains(t, html, `href="https://example.org/compras.csv"`)
		assert.Contains(t, html, "2025-12-18")
		assert.Contains(t, html, "<td>22</td>")
		assert.Contains(t, html, "0 of 1 resources failing")

		html = readFile(t, filepath.Join(out, "datasets", "tramites", "index.html"))
		assert.Contains(t, html, "parse_failed: Expecting value")
		assert.Contains(t, html, "<td>r2</td>", "resource without name falls back to id")
		assert.Contains(t, html, "<td>n/a</td>")
		assert.Contains(t, html, "1 of 1 resources failing")

		html = readFile(t, filepath.Join(out, "datasets", "ipc", "index.html"))
		assert.Contains(t, html, "missing url")
		assert.Contains(t, html, "<td>ipc.csv</td>")
	})

	t.Run("summary data", func(t *testing.T) {
		var summary struct {
			Freshness  models.FreshnessCounts     `json:"freshness"`
			Thresholds models.FreshnessThresholds `json:"freshness_thresholds_days"`
		}
		require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(out, "data", "summary.json"))), &summary))

		assert.Equal(t, models.FreshnessCounts{Green: 1, Red: 1, Unknown: 1}, summary.Freshness)
		assert.Equal(t, 90, summary.Thresholds.GreenLT)
	})

	t.Run("top data honours limit", func(t *testing.T) {
		var top []models.Dataset
		require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(out, "data", "top.json"))), &top))

		require.Len(t, top, 2)
		assert.Equal(t, "tramites", top[0].Name)
		assert.Equal(t, "ipc", top[1].Name)
	})
}

func TestBuilder_Build_DoesNotMutateRoot(t *testing.T) {
	root := fixtureRoot()
	b, err := NewBuilder(Options{OutDir: t.TempDir(), TopLimit: 3})
	require.NoError(t, err)

	_, err = b.Build(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, fixtureRoot(), root)
}

func TestBuilder_Build_EmptySnapshot(t *testing.T) {
	out := t.TempDir()
	b, err := NewBuilder(Options{OutDir: out})
	require.NoError(t, err)

	manifest, err := b.Build(context.Background(), &models.Root{})

	require.NoError(t, err)
	assert.Equal(t, 3, manifest.Pages)
	assert.Contains(t, readFile(t, filepath.Join(out, "index.html")), "No datasets.")
	assert.JSONEq(t, "[]", readFile(t, filepath.Join(out, "data", "top.json")))
}

func TestBuilder_Build_Errors(t *testing.T) {
	t.Run("nil snapshot", func(t *testing.T) {
		b, err := NewBuilder(Options{OutDir: t.TempDir()})
		require.NoError(t, err)

		_, err = b.Build(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("unsafe dataset slug", func(t *testing.T) {
		b, err := NewBuilder(Options{OutDir: t.TempDir()})
		require.NoError(t, err)

		root := &models.Root{Datasets: []models.Dataset{{Name: "../escape", FreshnessBucket: models.BucketGreen}}}

		_, err = b.Build(context.Background(), root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsafe slug")
	})

	t.Run("unsafe organization slug", func(t *testing.T) {
		b, err := NewBuilder(Options{OutDir: t.TempDir()})
		require.NoError(t, err)

		root := &models.Root{Organizations: []models.Organization{{Name: ".."}}}

		_, err = b.Build(context.Background(), root)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		b, err := NewBuilder(Options{OutDir: t.TempDir()})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = b.Build(ctx, fixtureRoot())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("output path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "taken")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		b, err := NewBuilder(Options{OutDir: file})
		require.NoError(t, err)

		_, err = b.Build(context.Background(), fixtureRoot())
		assert.Error(t, err)
	})
}

func TestCheckSlug(t *testing.T) {
	assert.NoError(t, checkSlug("compras-estatales"))
	assert.NoError(t, checkSlug("censo_2023"))
	assert.Error(t, checkSlug(""))
	assert.Error(t, checkSlug("."))
	assert.Error(t, checkSlug(".."))
	assert.Error(t, checkSlug("a/b"))
	assert.Error(t, checkSlug(`a\b`))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "n/a", formatDate(nil))
	assert.Equal(t, "n/a", formatDate((*time.Time)(nil)))
	assert.Equal(t, "n/a", formatDate(time.Time{}))
	assert.Equal(t, "2026-01-10", formatDate(time.Date(2026, 1, 10, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "n/a", formatInt(nil))
	assert.Equal(t, "404", formatInt(ptr(404)))
	assert.Equal(t, "", formatText(nil))
	assert.Equal(t, "boom", formatText(ptr("boom")))
}
