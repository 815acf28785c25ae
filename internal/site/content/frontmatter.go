package content

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoFrontMatter is returned for a post file that does not start with a
// front matter block.
var ErrNoFrontMatter = errors.New("content: missing front matter")

var frontMatterDelim = []byte("---")

// frontMatter is the YAML metadata block at the top of a post file.
type frontMatter struct {
	Title       string    `yaml:"title"`
	Slug        string    `yaml:"slug"`
	Description string    `yaml:"description"`
	Author      string    `yaml:"author"`
	Date        time.Time `yaml:"date"`
	Tags        []string  `yaml:"tags"`
	Draft       bool      `yaml:"draft"`
}

// splitFrontMatter separates the leading YAML block from the markdown body.
// The block is delimited by "---" lines and must be the first thing in the
// file.
func splitFrontMatter(raw []byte) (meta, body []byte, err error) {
	rest, ok := bytes.CutPrefix(raw, frontMatterDelim)
	if !ok {
		return nil, nil, ErrNoFrontMatter
	}
	rest, ok = bytes.CutPrefix(rest, []byte("\n"))
	if !ok {
		if rest, ok = bytes.CutPrefix(rest, []byte("\r\n")); !ok {
			return nil, nil, ErrNoFrontMatter
		}
	}

	end := bytes.Index(rest, append([]byte("\n"), frontMatterDelim...))
	if end < 0 {
		return nil, nil, fmt.Errorf("%w: unterminated block", ErrNoFrontMatter)
	}
	meta = rest[:end]

	body = rest[end+1+len(frontMatterDelim):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))
	return meta, body, nil
}

// parseFrontMatter decodes the YAML metadata block of a post.
func parseFrontMatter(meta []byte) (frontMatter, error) {
	var fm frontMatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return frontMatter{}, fmt.Errorf("parse front matter: %w", err)
	}
	return fm, nil
}
