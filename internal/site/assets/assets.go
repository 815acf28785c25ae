// Package assets provides the embedded static assets of the site. The
// stylesheet owns the shared design tokens (palette, spacing); components
// reference tokens and never define their own scale.
package assets

import "embed"

// FS holds every static asset, addressed the same way the server exposes
// them under /static/.
//
//go:embed css/*.css img/*.svg
var FS embed.FS
