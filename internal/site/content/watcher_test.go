package content

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "site.yaml"), testSiteYAML)
	writePost(t, dir, "first.md", "First", "2025-06-12", "")

	repo := newTestRepository(t, dir)
	require.Len(t, repo.Posts(), 1)

	reloads := make(chan []string, 4)
	logger, _ := logtest.NewNullLogger()
	w, err := NewWatcher(repo, func(paths []string) { reloads <- paths }, logger)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writePost(t, dir, "second.md", "Second", "2025-07-30", "")

	select {
	case paths := <-reloads:
		require.NotEmpty(t, paths)
		assert.True(t, strings.HasSuffix(paths[0], "second.md"), "got %q", paths[0])
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	posts := repo.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Slug)
}

func TestWatcher_IgnoresNonContentFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "site.yaml"), testSiteYAML)
	writePost(t, dir, "first.md", "First", "2025-06-12", "")

	repo := newTestRepository(t, dir)

	reloads := make(chan []string, 4)
	logger, _ := logtest.NewNullLogger()
	w, err := NewWatcher(repo, func(paths []string) { reloads <- paths }, logger)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeTestFile(t, filepath.Join(dir, "notes.txt"), "scratch space\n")

	assert.Never(t, func() bool {
		select {
		case <-reloads:
			return true
		default:
			return false
		}
	}, 700*time.Millisecond, 50*time.Millisecond)
}

func TestWatcher_KeepsServingAfterBrokenSave(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "site.yaml"), testSiteYAML)
	writePost(t, dir, "first.md", "First", "2025-06-12", "")

	repo := newTestRepository(t, dir)

	reloads := make(chan []string, 4)
	logger, _ := logtest.NewNullLogger()
	w, err := NewWatcher(repo, func(paths []string) { reloads <- paths }, logger)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// A save without front matter fails to parse. The old content stays up.
	writeTestFile(t, filepath.Join(dir, "blog", "second.md"), "no front matter\n")

	assert.Never(t, func() bool {
		select {
		case <-reloads:
			return true
		default:
			return false
		}
	}, 700*time.Millisecond, 50*time.Millisecond)
	require.Len(t, repo.Posts(), 1)

	// Fixing the file triggers a clean reload on the next save.
	writePost(t, dir, "second.md", "Second", "2025-07-30", "")

	select {
	case <-reloads:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload after fix")
	}
	assert.Len(t, repo.Posts(), 2)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "site.yaml"), testSiteYAML)

	repo := newTestRepository(t, dir)
	logger, _ := logtest.NewNullLogger()
	w, err := NewWatcher(repo, nil, logger)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()), "second start is a no-op")

	w.Stop()
	w.Stop()
}
