package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/models"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/query"
)

func SummaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Show snapshot totals and freshness counts",
		Action: withSnapshot(func(_ *cli.Context, root *models.Root) (any, error) {
			return summaryView{
				GeneratedAt: root.Meta.GeneratedAt,
				Summary:     root.Summary,
				Freshness:   query.FreshnessCounts(root),
			}, nil
		}),
	}
}

func TopCommand() *cli.Command {
	return &cli.Command{
		Name:  "top",
		Usage: "List the datasets with the most broken or unparseable resources",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Number of datasets to show (defaults to site.top_limit)",
			},
		},
		Action: withSnapshot(func(c *cli.Context, root *models.Root) (any, error) {
			limit := c.Int("limit")
			if !c.IsSet("limit") {
				e, err := envFrom(c)
				if err != nil {
					return nil, err
				}
				limit = e.cfg.Site.TopLimit
			}
			return datasetList(query.TopDatasetsByProblems(root, limit)), nil
		}),
	}
}

func OrgsCommand() *cli.Command {
	return &cli.Command{
		Name:  "orgs",
		Usage: "List publishing organizations",
		Action: withSnapshot(func(_ *cli.Context, root *models.Root) (any, error) {
			return organizationList(query.Organizations(root)), nil
		}),
	}
}

func OrgCommand() *cli.Command {
	return &cli.Command{
		Name:      "org",
		Usage:     "Show one organization and its datasets",
		ArgsUsage: "SLUG",
		Action: withSnapshot(func(c *cli.Context, root *models.Root) (any, error) {
			slug, err := slugArg(c)
			if err != nil {
				return nil, err
			}
			org, ok := query.OrganizationBySlug(root, slug)
			if !ok {
				return nil, fmt.Errorf("organization %q: %w", slug, ErrNotFound)
			}
			return organizationView{
				Organization: org,
				Datasets:     query.DatasetsByOrganization(root, slug),
			}, nil
		}),
	}
}

func DatasetCommand() *cli.Command {
	return &cli.Command{
		Name:      "dataset",
		Aliases:   []string{"ds"},
		Usage:     "Show one dataset and its resource checks",
		ArgsUsage: "SLUG",
		Action: withSnapshot(func(c *cli.Context, root *models.Root) (any, error) {
			slug, err := slugArg(c)
			if err != nil {
				return nil, err
			}
			ds, ok := query.DatasetBySlug(root, slug)
			if !ok {
				return nil, fmt.Errorf("dataset %q: %w", slug, ErrNotFound)
			}
			return datasetView{ds}, nil
		}),
	}
}

func FormatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "Count datasets per published resource format",
		Action: withSnapshot(func(_ *cli.Context, root *models.Root) (any, error) {
			return formatList(query.FormatCounts(root)), nil
		}),
	}
}

func slugArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("%s: exactly one SLUG argument is required", c.Command.Name)
	}
	return c.Args().First(), nil
}
