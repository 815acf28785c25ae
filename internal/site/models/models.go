// Package models defines the typed content and page models the site is
// rendered from. Content files own the values; the view layer owns layout.
package models

import (
	"html/template"
	"time"
)

// Metric is one highlight entry of the community metrics strip.
type Metric struct {
	// Value is the pre-formatted display text, e.g. "20k". Formatting,
	// including the trailing unit letter, is content, not computed.
	Value string `yaml:"value"`
	// Label is the short caption describing what the value counts.
	Label string `yaml:"label"`
	// GradientStart and GradientEnd are CSS colors. The value text is drawn
	// with a left-to-right gradient between them.
	GradientStart string `yaml:"gradient_start"`
	GradientEnd   string `yaml:"gradient_end"`
}

// MetricsStripConfig is the input of the metrics strip component.
// The order of Metrics is significant: it is the left-to-right display order.
type MetricsStripConfig struct {
	Heading  string   `yaml:"heading"`
	CTALabel string   `yaml:"cta_label"`
	CTAHref  string   `yaml:"cta_href"`
	Metrics  []Metric `yaml:"metrics"`
}

// NavLink is a navigation link in the header or footer.
type NavLink struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	// External links open in a new tab.
	External bool `yaml:"external"`
}

// Hero is the above-the-fold block of the home page.
type Hero struct {
	Title    string `yaml:"title"`
	Tagline  string `yaml:"tagline"`
	CTALabel string `yaml:"cta_label"`
	CTAHref  string `yaml:"cta_href"`
}

// Footer configures the footer section.
type Footer struct {
	GitHubURL string    `yaml:"github_url"`
	DocsURL   string    `yaml:"docs_url"`
	License   string    `yaml:"license"`
	Copyright string    `yaml:"copyright"`
	Links     []NavLink `yaml:"links"`
}

// Site is the site-wide content declared in site.yaml.
type Site struct {
	Title       string `yaml:"title"`
	BaseURL     string `yaml:"base_url"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	// ThemeColor is the mobile browser theme color.
	ThemeColor string             `yaml:"theme_color"`
	Nav        []NavLink          `yaml:"nav"`
	Hero       Hero               `yaml:"hero"`
	Community  MetricsStripConfig `yaml:"community"`
	Footer     Footer             `yaml:"footer"`
}

// Post is a blog entry after front matter parsing and markdown rendering.
type Post struct {
	Slug        string
	Title       string
	Description string
	Author      string
	Date        time.Time
	Tags        []string
	Draft       bool
	// HTML is the rendered post body.
	HTML template.HTML
	// WordCount and ReadingMinutes are derived from the markdown source at
	// load time.
	WordCount      int
	ReadingMinutes int
}

// PageMeta drives the <head> of a rendered page.
type PageMeta struct {
	Title       string
	Description string
	// Canonical is the absolute URL of the page.
	Canonical string
	// OGType is the Open Graph object type, "website" or "article".
	OGType string
}

// PageData is the part of the template payload every page shares.
type PageData struct {
	Site Site
	Meta PageMeta
	// Dev enables the live-reload script in the layout.
	Dev bool
}

// HomePage is the template payload of the home page.
type HomePage struct {
	PageData
}

// BlogIndexPage is the template payload of the blog index.
type BlogIndexPage struct {
	PageData
	Posts []Post
}

// PostPage is the template payload of a single blog post.
type PostPage struct {
	PageData
	Post Post
}

// NotFoundPage is the template payload of the 404 page.
type NotFoundPage struct {
	PageData
}
