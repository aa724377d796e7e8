package command

import (
	"cmp"
	"strconv"
	"time"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/models"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/output"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/query"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/site"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/snapshot"
)

type summaryView struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Summary     models.Summary         `json:"summary"`
	Freshness   models.FreshnessCounts `json:"freshness"`
}

func (v summaryView) Table() *output.Table {
	t := output.NewTable("METRIC", "VALUE")
	t.AddRow("generated_at", v.GeneratedAt.UTC().Format(time.RFC3339))
	for _, b := range models.Buckets {
		t.AddRow("datasets_"+string(b), v.Freshness.Get(b))
	}
	t.AddRow("datasets_total", v.Summary.DatasetsTotal)
	t.AddRow("resources_total", v.Summary.ResourcesTotal)
	t.AddRow("resources_broken", v.Summary.ResourcesBroken)
	t.AddRow("resources_parse_failed", v.Summary.ResourcesParseFailed)
	t.AddRow("errors_total", v.Summary.ErrorsTotal)
	return t
}

type datasetList []models.Dataset

func (l datasetList) Table() *output.Table {
	t := output.NewTable("NAME", "ORGANIZATION", "FRESHNESS", "BROKEN", "PARSE FAILED", "PROBLEMS")
	for _, ds := range l {
		t.AddRow(ds.Name, ds.Organization.Name, ds.FreshnessBucket, ds.ResourcesBroken, ds.ResourcesParseFailed, ds.ProblemScore())
	}
	return t
}

type organizationList []models.Organization

func (l organizationList) Table() *output.Table {
	t := output.NewTable("NAME", "DATASETS", "GREEN", "YELLOW", "RED", "UNKNOWN", "BROKEN", "TITLE")
	for _, org := range l {
		t.AddRow(org.Name, org.DatasetsTotal, org.DatasetsGreen, org.DatasetsYellow, org.DatasetsRed, org.DatasetsUnknown, org.ResourcesBroken, org.Title)
	}
	return t
}

type organizationView struct {
	Organization models.Organization `json:"organization"`
	Datasets     []models.Dataset    `json:"datasets"`
}

func (v organizationView) Table() *output.Table {
	org := v.Organization
	t := output.NewTable("FIELD", "VALUE")
	t.AddRow("name", org.Name)
	t.AddRow("title", org.Title)
	t.AddRow("datasets_total", org.DatasetsTotal)
	t.AddRow("datasets_green", org.DatasetsGreen)
	t.AddRow("datasets_yellow", org.DatasetsYellow)
	t.AddRow("datasets_red", org.DatasetsRed)
	t.AddRow("datasets_unknown", org.DatasetsUnknown)
	t.AddRow("resources_total", org.ResourcesTotal)
	t.AddRow("resources_broken", org.ResourcesBroken)
	t.AddRow("resources_parse_failed", org.ResourcesParseFailed)
	for _, ds := range v.Datasets {
		t.AddRow("dataset", ds.Name)
	}
	return t
}

type datasetView struct {
	models.Dataset
}

func (v datasetView) Table() *output.Table {
	t := output.NewTable("RESOURCE", "FORMAT", "OK", "HTTP", "ERROR")
	for _, r := range v.Resources {
		name := cmp.Or(r.Name, r.ID)
		status := "-"
		if r.Check.HTTPStatus != nil {
			status = strconv.Itoa(*r.Check.HTTPStatus)
		}
		t.AddRow(name, r.Format, r.Check.OK, status, checkError(r.Check))
	}
	return t
}

func checkError(c models.Check) string {
	msg := ""
	if c.Error != nil {
		msg = *c.Error
	}
	if c.ParseError != nil {
		if msg != "" {
			msg += ": "
		}
		msg += *c.ParseError
	}
	if msg == "" {
		return "-"
	}
	return msg
}

type formatList []query.FormatCount

func (l formatList) Table() *output.Table {
	t := output.NewTable("FORMAT", "DATASETS")
	for _, f := range l {
		t.AddRow(f.Format, f.Datasets)
	}
	return t
}

type historyList []snapshot.HistoryEntry

func (l historyList) Table() *output.Table {
	t := output.NewTable("DATE", "FILE")
	for _, h := range l {
		t.AddRow(h.Date.Format(time.DateOnly), h.Name)
	}
	return t
}

type buildView struct {
	site.Manifest
	OutDir  string `json:"out_dir"`
	Metrics string `json:"metrics,omitempty"`
}

func (v buildView) Table() *output.Table {
	t := output.NewTable("FIELD", "VALUE")
	t.AddRow("out_dir", v.OutDir)
	t.AddRow("snapshot", v.SnapshotSource)
	t.AddRow("snapshot_generated_at", v.SnapshotGeneratedAt)
	t.AddRow("pages", v.Pages)
	t.AddRow("organizations", v.Organizations)
	t.AddRow("datasets", v.Datasets)
	if v.Metrics != "" {
		t.AddRow("metrics", v.Metrics)
	}
	return t
}
