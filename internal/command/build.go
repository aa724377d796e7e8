package command

import (
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/metrics"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/site"
)

// BuildCommand renders the static site from the current snapshot.
func BuildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Render the static site from the snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output directory (overrides site.out_dir)",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Pages rendered in parallel",
				Value: 8,
			},
		},
		Action: runBuild,
	}
}

func runBuild(c *cli.Context) error {
	e, err := envFrom(c)
	if err != nil {
		return err
	}

	outDir := e.cfg.Site.OutDir
	if c.IsSet("out") {
		outDir = c.String("out")
	}

	root, source, err := e.load()
	if err != nil {
		return err
	}

	builder, err := site.NewBuilder(site.Options{
		OutDir:      outDir,
		Title:       e.cfg.Site.Title,
		TopLimit:    e.cfg.Site.TopLimit,
		Source:      source,
		Concurrency: c.Int("concurrency"),
		Logger:      e.log,
	})
	if err != nil {
		return err
	}

	manifest, err := builder.Build(c.Context, root)
	if err != nil {
		return err
	}

	view := buildView{Manifest: manifest, OutDir: outDir}

	if e.cfg.Metrics.Enabled {
		path := e.cfg.Metrics.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(outDir, path)
		}
		if err := metrics.NewSnapshotCollector(root).WriteTextfile(path); err != nil {
			return err
		}
		e.log.Info("metrics written", "path", path)
		view.Metrics = path
	}

	return e.print(c, view)
}
