// Package content loads and caches the site's content: the site.yaml
// manifest and the markdown posts under blog/. The content directory owns
// every displayed value; rendering code never computes content.
package content

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/keyloom/website/internal/pkg/retry"
	"github.com/keyloom/website/internal/site/markdown"
	"github.com/keyloom/website/internal/site/models"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("content: not found")

// siteFile is the site manifest name inside the content directory.
const siteFile = "site.yaml"

// blogDir is the posts directory inside the content directory.
const blogDir = "blog"

// Store is the read surface the page service renders from.
type Store interface {
	Site() models.Site
	Posts() []models.Post
	Post(slug string) (models.Post, error)
}

// Repository is a directory-backed Store. It reads everything once and
// serves from memory; Reload replaces the cached state atomically.
type Repository struct {
	dir           string
	baseURL       string
	includeDrafts bool
	logger        *logrus.Logger
	md            *markdown.Renderer

	mu     sync.RWMutex
	site   models.Site
	posts  []models.Post
	bySlug map[string]models.Post
}

// NewRepository loads the content directory. baseURL, when non-empty,
// overrides the base_url declared in site.yaml. Drafts are skipped unless
// includeDrafts is set.
func NewRepository(dir, baseURL string, includeDrafts bool, logger *logrus.Logger) (*Repository, error) {
	repo := &Repository{
		dir:           dir,
		baseURL:       baseURL,
		includeDrafts: includeDrafts,
		logger:        logger,
		md:            markdown.New(),
	}
	if err := repo.Reload(); err != nil {
		return nil, err
	}
	return repo, nil
}

// Dir returns the content directory the repository reads from.
func (r *Repository) Dir() string {
	return r.dir
}

// Site returns the site manifest.
func (r *Repository) Site() models.Site {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.site
}

// Posts returns all posts, newest first.
func (r *Repository) Posts() []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Post, len(r.posts))
	copy(out, r.posts)
	return out
}

// Post returns the post with the given slug, or ErrNotFound.
func (r *Repository) Post(slug string) (models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	post, ok := r.bySlug[slug]
	if !ok {
		return models.Post{}, fmt.Errorf("%w: post %q", ErrNotFound, slug)
	}
	return post, nil
}

// Reload re-reads the content directory. The cached state is replaced only
// after the whole directory parsed cleanly, so readers never observe a
// partial update.
func (r *Repository) Reload() error {
	site, err := r.loadSite()
	if err != nil {
		return err
	}
	posts, err := r.loadPosts()
	if err != nil {
		return err
	}

	bySlug := make(map[string]models.Post, len(posts))
	for _, p := range posts {
		if _, dup := bySlug[p.Slug]; dup {
			return fmt.Errorf("load posts: duplicate slug %q", p.Slug)
		}
		bySlug[p.Slug] = p
	}

	r.mu.Lock()
	r.site = site
	r.posts = posts
	r.bySlug = bySlug
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{
		"dir":   r.dir,
		"posts": len(posts),
	}).Debug("content loaded")
	return nil
}

func (r *Repository) loadSite() (models.Site, error) {
	path := filepath.Join(r.dir, siteFile)

	var raw []byte
	err := retry.Do(func() error {
		var readErr error
		raw, readErr = os.ReadFile(path)
		return readErr
	})
	if err != nil {
		return models.Site{}, fmt.Errorf("read %s: %w", siteFile, err)
	}

	var site models.Site
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return models.Site{}, fmt.Errorf("parse %s: %w", siteFile, err)
	}
	if site.Title == "" {
		return models.Site{}, fmt.Errorf("parse %s: title is required", siteFile)
	}
	if site.BaseURL == "" {
		return models.Site{}, fmt.Errorf("parse %s: base_url is required", siteFile)
	}
	if r.baseURL != "" {
		site.BaseURL = r.baseURL
	}
	site.BaseURL = strings.TrimRight(site.BaseURL, "/")
	return site, nil
}

func (r *Repository) loadPosts() ([]models.Post, error) {
	dir := filepath.Join(r.dir, blogDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", blogDir, err)
	}

	var posts []models.Post
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		post, err := r.loadPost(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load post %s: %w", entry.Name(), err)
		}
		if post.Draft && !r.includeDrafts {
			r.logger.WithField("slug", post.Slug).Debug("skipping draft")
			continue
		}
		posts = append(posts, post)
	}

	// Newest first; slug breaks ties so the order is stable.
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Slug < posts[j].Slug
	})
	return posts, nil
}

func (r *Repository) loadPost(path string) (models.Post, error) {
	var raw []byte
	err := retry.Do(func() error {
		var readErr error
		raw, readErr = os.ReadFile(path)
		return readErr
	})
	if err != nil {
		return models.Post{}, err
	}

	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return models.Post{}, err
	}
	fm, err := parseFrontMatter(meta)
	if err != nil {
		return models.Post{}, err
	}
	if fm.Title == "" {
		return models.Post{}, errors.New("title is required")
	}

	slug := fm.Slug
	if slug == "" {
		slug = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	html, err := r.md.Render(body)
	if err != nil {
		return models.Post{}, err
	}

	return models.Post{
		Slug:           slug,
		Title:          fm.Title,
		Description:    fm.Description,
		Author:         fm.Author,
		Date:           fm.Date,
		Tags:           fm.Tags,
		Draft:          fm.Draft,
		HTML:           template.HTML(html),
		WordCount:      markdown.WordCount(body),
		ReadingMinutes: markdown.ReadingMinutes(body),
	}, nil
}
