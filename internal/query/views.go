package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/models"
)

type FormatCount struct {
	Format   string `json:"format"`
	Datasets int    `json:"datasets"`
}

// DatasetsByOrganization returns the datasets whose embedded organization
// reference has the given slug, in stored order.
func DatasetsByOrganization(root *models.Root, orgSlug string) []models.Dataset {
	var out []models.Dataset
	for _, ds := range Datasets(root) {
		if ds.Organization.Name == orgSlug {
			out = append(out, ds)
		}
	}
	return out
}

// ProblemResources returns the resources of ds whose check did not pass.
func ProblemResources(ds models.Dataset) []models.Resource {
	var out []models.Resource
	for _, r := range ds.Resources {
		if !r.Check.OK {
			out = append(out, r)
		}
	}
	return out
}

// FormatCounts counts datasets per distinct format, most common first.
func FormatCounts(root *models.Root) []FormatCount {
	counts := make(map[string]int)
	for _, ds := range Datasets(root) {
		seen := make(map[string]struct{}, len(ds.Formats))
		for _, f := range ds.Formats {
			f = strings.ToLower(strings.TrimSpace(f))
			if f == "" {
				continue
			}
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			counts[f]++
		}
	}

	out := make([]FormatCount, 0, len(counts))
	for f, n := range counts {
		out = append(out, FormatCount{Format: f, Datasets: n})
	}
	slices.SortFunc(out, func(a, b FormatCount) int {
		if c := cmp.Compare(b.Datasets, a.Datasets); c != 0 {
			return c
		}
		return cmp.Compare(a.Format, b.Format)
	})
	return out
}
