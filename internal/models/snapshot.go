// Package models defines the data structures of an observatory snapshot.
// It includes entity definitions for datasets, organizations and resource checks.
package models

import "time"

type Root struct {
	Meta          Meta            `json:"meta"`
	Summary       Summary         `json:"summary"`
	Organizations []Organization  `json:"organizations"`
	Datasets      []Dataset       `json:"datasets"`
	Errors        []SnapshotError `json:"errors,omitempty"`
}

type Meta struct {
	GeneratedAt            time.Time           `json:"generated_at"`
	CKANBaseURL            string              `json:"ckan_base_url"`
	CKANAPIPath            string              `json:"ckan_api_path,omitempty"`
	FreshnessThresholdDays FreshnessThresholds `json:"freshness_thresholds_days"`
	Note                   string              `json:"note,omitempty"`
}

// FreshnessThresholds are the day counts used upstream to assign buckets:
// green below GreenLT, yellow up to and including YellowLTE, red above.
type FreshnessThresholds struct {
	GreenLT   int `json:"green_lt"`
	YellowLTE int `json:"yellow_lte"`
}

type Summary struct {
	DatasetsTotal        int `json:"datasets_total"`
	DatasetsGreen        int `json:"datasets_green"`
	DatasetsYellow       int `json:"datasets_yellow"`
	DatasetsRed          int `json:"datasets_red"`
	DatasetsUnknown      int `json:"datasets_unknown"`
	ResourcesTotal       int `json:"resources_total"`
	ResourcesBroken      int `json:"resources_broken"`
	ResourcesParseFailed int `json:"resources_parse_failed"`
	ErrorsTotal          int `json:"errors_total"`
}

// Organization is a publisher rollup. Name is the slug; ID is opaque.
type Organization struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Title                string `json:"title"`
	DatasetsTotal        int    `json:"datasets_total"`
	DatasetsGreen        int    `json:"datasets_green"`
	DatasetsYellow       int    `json:"datasets_yellow"`
	DatasetsRed          int    `json:"datasets_red"`
	DatasetsUnknown      int    `json:"datasets_unknown"`
	ResourcesTotal       int    `json:"resources_total"`
	ResourcesBroken      int    `json:"resources_broken"`
	ResourcesParseFailed int    `json:"resources_parse_failed"`
}

// OrganizationRef is the denormalized owner reference embedded in a dataset.
type OrganizationRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

type Dataset struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Title                string          `json:"title"`
	Organization         OrganizationRef `json:"organization"`
	LastModified         *time.Time      `json:"last_modified"`
	DaysSinceModified    *int            `json:"days_since_modified"`
	FreshnessBucket      FreshnessBucket `json:"freshness_bucket"`
	ResourcesTotal       int             `json:"resources_total"`
	ResourcesBroken      int             `json:"resources_broken"`
	ResourcesParseFailed int             `json:"resources_parse_failed"`
	Formats              []string        `json:"formats"`
	Resources            []Resource      `json:"resources"`
	CatalogURL           string          `json:"catalog_url,omitempty"`
}

// ProblemScore ranks datasets by data-quality severity.
func (d Dataset) ProblemScore() int {
	return d.ResourcesBroken + d.ResourcesParseFailed
}

type Resource struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Format       string     `json:"format"`
	URL          *string    `json:"url"`
	LastModified *time.Time `json:"last_modified"`
	Check        Check      `json:"check"`
}

// Check is the upstream health probe result for one resource. ParseOK is nil
// when no parse was attempted for the resource format.
type Check struct {
	OK         bool    `json:"ok"`
	HTTPStatus *int    `json:"http_status"`
	Error      *string `json:"error"`
	BytesRead  int64   `json:"bytes_read"`
	ParseOK    *bool   `json:"parse_ok"`
	ParseError *string `json:"parse_error"`
	Checksum   *string `json:"checksum"`
}

type SnapshotError struct {
	Dataset string `json:"dataset"`
	Error   string `json:"error"`
}
