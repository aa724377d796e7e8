// Package command provides the CLI command definitions for observatory.
//
// It uses urfave/cli/v2 for command parsing. Global flags select the
// configuration file, logging and output format; every subcommand loads the
// snapshot once and either renders the site or prints a query result.
package command

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/config"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/logger"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/models"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/output"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/snapshot"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// ErrNotFound is returned when a slug matches no organization or dataset.
var ErrNotFound = errors.New("not found")

const envKey = "env"

// env is the per-invocation state built by the Before hook.
type env struct {
	cfg    config.Config
	log    *slog.Logger
	format output.Format
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "observatory",
		Usage:   "Open data observatory snapshot browser and site builder",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			BuildCommand(),
			SummaryCommand(),
			TopCommand(),
			OrgsCommand(),
			OrgCommand(),
			DatasetCommand(),
			FormatsCommand(),
			HistoryCommand(),
		},
		Before: setup,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"OBSERVATORY_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Directory holding the snapshot files (overrides data.dir)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error (overrides log.level)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json (overrides log.format)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
	}
}

func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("data-dir") {
		cfg.Data.Dir = c.String("data-dir")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}

	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return err
	}

	c.App.Metadata[envKey] = &env{cfg: cfg, log: log, format: format}
	return nil
}

func envFrom(c *cli.Context) (*env, error) {
	if e, ok := c.App.Metadata[envKey].(*env); ok {
		return e, nil
	}
	return nil, errors.New("command environment not initialized")
}

func (e *env) loader() *snapshot.Loader {
	opts := append(e.cfg.SnapshotOptions(), snapshot.WithLogger(e.log))
	return snapshot.NewDirLoader(e.cfg.Data.Dir, opts...)
}

// load resolves and parses the configured snapshot, returning the file name
// it was read from.
func (e *env) load() (*models.Root, string, error) {
	l := e.loader()
	name := l.Resolve()
	root, err := l.LoadFile(name)
	if err != nil {
		return nil, "", err
	}
	e.log.Debug("snapshot loaded",
		"file", name,
		"datasets", len(root.Datasets),
		"organizations", len(root.Organizations),
	)
	return root, name, nil
}

func (e *env) print(c *cli.Context, data any) error {
	return output.Write(c.App.Writer, e.format, data)
}

// withSnapshot loads the snapshot and prints the view built from it.
func withSnapshot(build func(c *cli.Context, root *models.Root) (any, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := envFrom(c)
		if err != nil {
			return err
		}
		root, _, err := e.load()
		if err != nil {
			return err
		}
		view, err := build(c, root)
		if err != nil {
			return err
		}
		return e.print(c, view)
	}
}
