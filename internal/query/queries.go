// Package query provides pure read-only views over a loaded snapshot.
// No function in this package mutates the Root it is given.
package query

import (
	"cmp"
	"slices"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/models"
)

// DefaultTopLimit is used by TopDatasetsByProblems when limit is negative.
const DefaultTopLimit = 10

func Organizations(root *models.Root) []models.Organization {
	if root == nil {
		return nil
	}
	return root.Organizations
}

func Datasets(root *models.Root) []models.Dataset {
	if root == nil {
		return nil
	}
	return root.Datasets
}

// OrganizationBySlug returns the first organization whose name equals slug.
// Matching is exact and case-sensitive.
func OrganizationBySlug(root *models.Root, slug string) (models.Organization, bool) {
	for _, org := range Organizations(root) {
		if org.Name == slug {
			return org, true
		}
	}
	return models.Organization{}, false
}

// DatasetBySlug returns the first dataset whose name equals slug.
// Matching is exact and case-sensitive.
func DatasetBySlug(root *models.Root, slug string) (models.Dataset, bool) {
	for _, ds := range Datasets(root) {
		if ds.Name == slug {
			return ds, true
		}
	}
	return models.Dataset{}, false
}

// TopDatasetsByProblems returns up to limit datasets ordered by descending
// problem score. Equal scores keep their stored order.
func TopDatasetsByProblems(root *models.Root, limit int) []models.Dataset {
	if limit < 0 {
		limit = DefaultTopLimit
	}

	ranked := slices.Clone(Datasets(root))
	slices.SortStableFunc(ranked, func(a, b models.Dataset) int {
		return cmp.Compare(b.ProblemScore(), a.ProblemScore())
	})

	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	if ranked == nil {
		return []models.Dataset{}
	}
	return ranked
}

// FreshnessCounts projects the bucket counters out of the summary.
// Nothing is recomputed from the dataset list.
func FreshnessCounts(root *models.Root) models.FreshnessCounts {
	if root == nil {
		return models.FreshnessCounts{}
	}
	return models.FreshnessCounts{
		Green:   root.Summary.DatasetsGreen,
		Yellow:  root.Summary.DatasetsYellow,
		Red:     root.Summary.DatasetsRed,
		Unknown: root.Summary.DatasetsUnknown,
	}
}
