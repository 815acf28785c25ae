package builder

import (
	"bytes"
	"path"
	"regexp"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/tdewolff/minify/v2/xml"
)

var (
	minifierOnce sync.Once
	minifier     *minify.M
)

func getMinifier() *minify.M {
	minifierOnce.Do(func() {
		minifier = minify.New()
		minifier.AddFunc("text/html", html.Minify)
		minifier.AddFunc("text/css", css.Minify)
		minifier.AddFunc("image/svg+xml", svg.Minify)
		minifier.AddFuncRegexp(regexp.MustCompile("[/+]xml$"), xml.Minify)
	})
	return minifier
}

// mediaTypeFor maps an output file name to the media type that selects a
// minifier. Unknown extensions return empty and are left untouched.
func mediaTypeFor(file string) string {
	switch path.Ext(file) {
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".svg":
		return "image/svg+xml"
	case ".xml":
		return "application/xml"
	default:
		return ""
	}
}

// minifyOutput shrinks file contents when a minifier exists for its type.
func minifyOutput(file string, data []byte) ([]byte, error) {
	mediatype := mediaTypeFor(file)
	if mediatype == "" {
		return data, nil
	}

	var buf bytes.Buffer
	if err := getMinifier().Minify(mediatype, &buf, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
