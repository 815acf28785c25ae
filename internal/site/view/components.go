package view

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"github.com/keyloom/website/internal/site/models"
)

var (
	stripOnce sync.Once
	stripTmpl *template.Template
)

func stripTemplate() *template.Template {
	stripOnce.Do(func() {
		stripTmpl = template.Must(template.New("metrics_strip.gohtml").
			Funcs(template.FuncMap{"gradient": gradient}).
			ParseFS(templatesFS, "templates/metrics_strip.gohtml"))
	})
	return stripTmpl
}

// MetricsStrip renders the community metrics strip: a heading and call to
// action on one side, one column per metric on the other, in slice order.
// It is a pure function of its config: the same config always yields the
// same markup, and no well-typed config fails. An empty Metrics slice
// renders the heading block alone.
//
// Decorative glyphs (the CTA arrow, the vertical rule) carry aria-hidden;
// the heading, CTA label and every value/label pair stay in the accessible
// tree.
func MetricsStrip(cfg models.MetricsStripConfig) (template.HTML, error) {
	var buf bytes.Buffer
	if err := stripTemplate().Execute(&buf, cfg); err != nil {
		return "", fmt.Errorf("render metrics strip: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// gradient builds the left-to-right gradient a metric value is drawn with.
// The colors come from site content, which is trusted by definition.
func gradient(start, end string) template.CSS {
	return template.CSS(fmt.Sprintf("linear-gradient(90deg, %s, %s)", start, end))
}

// IconOptions override the cosmetic attributes of an inline icon. Zero
// values fall back to the defaults.
type IconOptions struct {
	Size   int     // rendered width and height in pixels, default 48
	Stroke float64 // stroke width, default 1.5
	Class  string  // extra CSS class
}

func (o IconOptions) withDefaults() IconOptions {
	if o.Size == 0 {
		o.Size = 48
	}
	if o.Stroke == 0 {
		o.Stroke = 1.5
	}
	return o
}

var (
	iconOnce sync.Once
	iconTmpl *template.Template
)

func iconTemplate() *template.Template {
	iconOnce.Do(func() {
		iconTmpl = template.Must(template.ParseFS(templatesFS, "templates/icon_lock.gohtml"))
	})
	return iconTmpl
}

// LockIcon renders the fixed padlock glyph inline. The shape never changes;
// options only override size, stroke and class. The icon is always marked
// decorative for assistive technology.
func LockIcon(opts IconOptions) (template.HTML, error) {
	var buf bytes.Buffer
	if err := iconTemplate().Execute(&buf, opts.withDefaults()); err != nil {
		return "", fmt.Errorf("render lock icon: %w", err)
	}
	return template.HTML(buf.String()), nil
}
