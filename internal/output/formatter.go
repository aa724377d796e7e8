// Package output renders query results for the command line as a table,
// JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatYAML:
		return Format(s), nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
}

// Tabular is implemented by values with a table rendering.
type Tabular interface {
	Table() *Table
}

// Write renders data in the given format. Values that are not Tabular fall
// back to JSON in table mode.
func Write(w io.Writer, format Format, data any) error {
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatTable:
		if t, ok := data.(Tabular); ok {
			return t.Table().Render(w)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
