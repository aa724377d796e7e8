package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/logger"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/models"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/query"
)

const defaultConcurrency = 8

// Manifest describes one site build.
type Manifest struct {
	BuiltAt             string `json:"built_at"`
	GoVersion           string `json:"go_version"`
	SnapshotGeneratedAt string `json:"snapshot_generated_at"`
	SnapshotSource      string `json:"snapshot_source,omitempty"`
	Pages               int    `json:"pages"`
	Organizations       int    `json:"organizations"`
	Datasets            int    `json:"datasets"`
}

type Options struct {
	OutDir   string
	Title    string
	TopLimit int
	// Source names the snapshot file the root was loaded from.
	Source      string
	Concurrency int
	Logger      *slog.Logger
}

type Builder struct {
	opts      Options
	templates map[string]*template.Template
	now       func() time.Time
}

func NewBuilder(opts Options) (*Builder, error) {
	if opts.OutDir == "" {
		return nil, fmt.Errorf("site: output directory is required")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("site: parse templates: %w", err)
	}

	return &Builder{opts: opts, templates: templates, now: time.Now}, nil
}

type page struct {
	SiteTitle   string
	PageTitle   string
	Root        string
	GeneratedAt time.Time
}

type bucketCount struct {
	Bucket models.FreshnessBucket
	Count  int
}

type indexPage struct {
	page
	Summary       models.Summary
	Buckets       []bucketCount
	Top           []models.Dataset
	Organizations []models.Organization
	Formats       []query.FormatCount
}

type organizationPage struct {
	page
	Organization models.Organization
	Datasets     []models.Dataset
}

type datasetPage struct {
	page
	Dataset  models.Dataset
	Problems []models.Resource
}

type summaryData struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Summary     models.Summary             `json:"summary"`
	Freshness   models.FreshnessCounts     `json:"freshness"`
	Thresholds  models.FreshnessThresholds `json:"freshness_thresholds_days"`
}

// Build renders every page for root into the output directory. The first
// write error cancels the remaining pages and is returned.
func (b *Builder) Build(ctx context.Context, root *models.Root) (Manifest, error) {
	if root == nil {
		return Manifest{}, fmt.Errorf("site: nil snapshot")
	}

	for _, org := range query.Organizations(root) {
		if err := checkSlug(org.Name); err != nil {
			return Manifest{}, fmt.Errorf("site: organization: %w", err)
		}
	}
	for _, ds := range query.Datasets(root) {
		if err := checkSlug(ds.Name); err != nil {
			return Manifest{}, fmt.Errorf("site: dataset: %w", err)
		}
	}

	var pages atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)

	write := func(rel string, render func() ([]byte, error)) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := render()
			if err != nil {
				return fmt.Errorf("render %s: %w", rel, err)
			}
			if err := b.writeFile(rel, data); err != nil {
				return err
			}
			pages.Add(1)
			return nil
		})
	}

	write("index.html", func() ([]byte, error) {
		return b.execute("index", b.indexPage(root))
	})

	for _, org := range query.Organizations(root) {
		write(filepath.Join("organizations", org.Name, "index.html"), func() ([]byte, error) {
			return b.execute("organization", organizationPage{
				page:         b.page(root, org.Title, "../../"),
				Organization: org,
				Datasets:     query.DatasetsByOrganization(root, org.Name),
			})
		})
	}

	for _, ds := range query.Datasets(root) {
		write(filepath.Join("datasets", ds.Name, "index.html"), func() ([]byte, error) {
			return b.execute("dataset", datasetPage{
				page:     b.page(root, ds.Title, "../../"),
				Dataset:  ds,
				Problems: query.ProblemResources(ds),
			})
		})
	}

	write(filepath.Join("data", "summary.json"), func() ([]byte, error) {
		return encodeJSON(summaryData{
			GeneratedAt: root.Meta.GeneratedAt,
			Summary:     root.Summary,
			Freshness:   query.FreshnessCounts(root),
			Thresholds:  root.Meta.FreshnessThresholdDays,
		})
	})

	write(filepath.Join("data", "top.json"), func() ([]byte, error) {
		return encodeJSON(query.TopDatasetsByProblems(root, b.opts.TopLimit))
	})

	if err := g.Wait(); err != nil {
		return Manifest{}, fmt.Errorf("site: %w", err)
	}

	manifest := Manifest{
		BuiltAt:             b.now().UTC().Format(time.RFC3339),
		GoVersion:           runtime.Version(),
		SnapshotGeneratedAt: root.Meta.GeneratedAt.UTC().Format(time.RFC3339),
		SnapshotSource:      b.opts.Source,
		Pages:               int(pages.Load()),
		Organizations:       len(root.Organizations),
		Datasets:            len(root.Datasets),
	}

	data, err := encodeJSON(manifest)
	if err != nil {
		return Manifest{}, fmt.Errorf("site: encode manifest: %w", err)
	}
	if err := b.writeFile("manifest.json", data); err != nil {
		return Manifest{}, fmt.Errorf("site: %w", err)
	}

	b.opts.Logger.Info("site built",
		"out", b.opts.OutDir,
		"pages", manifest.Pages,
		"organizations", manifest.Organizations,
		"datasets", manifest.Datasets,
	)

	return manifest, nil
}

func (b *Builder) page(root *models.Root, title, rootPath string) page {
	return page{
		SiteTitle:   b.opts.Title,
		PageTitle:   title,
		Root:        rootPath,
		GeneratedAt: root.Meta.GeneratedAt,
	}
}

func (b *Builder) indexPage(root *models.Root) indexPage {
	counts := query.FreshnessCounts(root)
	buckets := make([]bucketCount, 0, len(models.Buckets))
	for _, bucket := range models.Buckets {
		buckets = append(buckets, bucketCount{Bucket: bucket, Count: counts.Get(bucket)})
	}

	return indexPage{
		page:          b.page(root, "Resumen", ""),
		Summary:       root.Summary,
		Buckets:       buckets,
		Top:           query.TopDatasetsByProblems(root, b.opts.TopLimit),
		Organizations: query.Organizations(root),
		Formats:       query.FormatCounts(root),
	}
}

func (b *Builder) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := b.templates[name].Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Builder) writeFile(rel string, data []byte) error {
	path := filepath.Join(b.opts.OutDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	b.opts.Logger.Debug("page written", "path", path, "bytes", len(data))
	return nil
}

func encodeJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// checkSlug rejects slugs that would escape their page directory.
func checkSlug(slug string) error {
	if slug == "" || slug == "." || slug == ".." || strings.ContainsAny(slug, `/\`) {
		return fmt.Errorf("unsafe slug %q", slug)
	}
	return nil
}
