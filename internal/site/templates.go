package site

import (
	"embed"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const dateLayout = "2006-01-02"

var funcs = template.FuncMap{
	"date":   formatDate,
	"days":   formatInt,
	"status": formatInt,
	"text":   formatText,
	"join":   func(s []string) string { return strings.Join(s, ", ") },
	"name":   resourceName,
}

func parseTemplates() (map[string]*template.Template, error) {
	pages := []string{"index", "organization", "dataset"}
	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tpl, err := template.New(page+".html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, err
		}
		out[page] = tpl
	}
	return out, nil
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return "n/a"
		}
		return t.UTC().Format(dateLayout)
	case *time.Time:
		if t == nil {
			return "n/a"
		}
		return formatDate(*t)
	}
	return "n/a"
}

func formatInt(v *int) string {
	if v == nil {
		return "n/a"
	}
	return strconv.Itoa(*v)
}

func formatText(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func resourceName(r models.Resource) string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
