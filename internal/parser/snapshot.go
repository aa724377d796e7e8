// Package parser provides utilities for parsing observatory snapshot documents.
// It handles decoding and boundary validation of the upstream JSON shape.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/models"
)

var (
	ErrEmptySnapshot   = errors.New("empty snapshot data")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

func ParseSnapshot(data []byte) (*models.Root, error) {
	if len(data) == 0 {
		return nil, ErrEmptySnapshot
	}

	var root models.Root
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	if err := Validate(&root); err != nil {
		return nil, err
	}

	return &root, nil
}

// Validate checks the structural guarantees the query layer relies on:
// slugs are present and unique, and every freshness bucket is in the closed set.
// Rollup consistency is owned upstream and is not rechecked.
func Validate(root *models.Root) error {
	orgs := make(map[string]struct{}, len(root.Organizations))
	for i, org := range root.Organizations {
		if org.Name == "" {
			return fmt.Errorf("%w: organization %d has no name", ErrInvalidSnapshot, i)
		}
		if _, dup := orgs[org.Name]; dup {
			return fmt.Errorf("%w: duplicate organization %q", ErrInvalidSnapshot, org.Name)
		}
		orgs[org.Name] = struct{}{}
	}

	datasets := make(map[string]struct{}, len(root.Datasets))
	for i, ds := range root.Datasets {
		if ds.Name == "" {
			return fmt.Errorf("%w: dataset %d has no name", ErrInvalidSnapshot, i)
		}
		if _, dup := datasets[ds.Name]; dup {
			return fmt.Errorf("%w: duplicate dataset %q", ErrInvalidSnapshot, ds.Name)
		}
		datasets[ds.Name] = struct{}{}

		if !ds.FreshnessBucket.Valid() {
			return fmt.Errorf("%w: dataset %q has freshness bucket %q", ErrInvalidSnapshot, ds.Name, ds.FreshnessBucket)
		}
	}

	return nil
}
