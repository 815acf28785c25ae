// Package view renders pages and components from embedded templates.
// Rendering is deterministic: the same data always produces the same bytes.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
	"time"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

// pageNames are the page templates composed with the shared layout.
var pageNames = []string{"home", "blog", "post", "notfound"}

var (
	pagesOnce sync.Once
	pageSets  map[string]*template.Template
)

// pages compiles one template set per page on first use. Each set pairs the
// layout with a single content template so pages cannot leak blocks into
// one another.
func pages() map[string]*template.Template {
	pagesOnce.Do(func() {
		pageSets = make(map[string]*template.Template, len(pageNames))
		for _, name := range pageNames {
			pageSets[name] = template.Must(template.New(name).
				Funcs(funcMap()).
				ParseFS(templatesFS,
					"templates/layout.gohtml",
					"templates/"+name+".gohtml"))
		}
	})
	return pageSets
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"metricsStrip": MetricsStrip,
		"icon": func(size int) (template.HTML, error) {
			return LockIcon(IconOptions{Size: size})
		},
		"formatDate": formatDate,
	}
}

// Render executes the named page template over data and returns the
// complete document.
func Render(page string, data any) ([]byte, error) {
	set, ok := pages()[page]
	if !ok {
		return nil, fmt.Errorf("view: unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("view: render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}

// formatDate renders dates the one way the site displays them.
func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
