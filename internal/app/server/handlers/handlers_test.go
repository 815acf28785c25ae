package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyloom/website/internal/app/server/service"
	"github.com/keyloom/website/internal/site/content"
	"github.com/keyloom/website/internal/site/models"
)

type fakeStore struct {
	site  models.Site
	posts []models.Post
}

func (f *fakeStore) Site() models.Site    { return f.site }
func (f *fakeStore) Posts() []models.Post { return f.posts }

func (f *fakeStore) Post(slug string) (models.Post, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.Post{}, fmt.Errorf("%w: post %q", content.ErrNotFound, slug)
}

func testStore() *fakeStore {
	return &fakeStore{
		site: models.Site{
			Title:       "Keyloom",
			BaseURL:     "https://keyloom.dev",
			Description: "Authentication infrastructure you can self-host.",
			Author:      "Keyloom Team",
			Hero: models.Hero{
				Title:    "Own your sign-in flow",
				Tagline:  "Drop-in authentication without the lock-in.",
				CTALabel: "Get started",
				CTAHref:  "/blog",
			},
			Community: models.MetricsStripConfig{
				Heading:  "Supported by the community",
				CTALabel: "Join them now",
				CTAHref:  "#",
				Metrics: []models.Metric{
					{Value: "20k", Label: "Github Stars", GradientStart: "#6ee7b7", GradientEnd: "#3b82f6"},
					{Value: "10k", Label: "Discord Users", GradientStart: "#f093fb", GradientEnd: "#f5576c"},
					{Value: "100", Label: "Contributors", GradientStart: "#fddb92", GradientEnd: "#d1fdff"},
				},
			},
		},
		posts: []models.Post{
			{
				Slug:           "hello-keyloom",
				Title:          "Hello, Keyloom",
				Description:    "Introducing the project.",
				Date:           time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
				HTML:           template.HTML("<p>Welcome aboard.</p>"),
				WordCount:      2,
				ReadingMinutes: 1,
			},
		},
	}
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := service.NewPageService(testStore(), false)
	logger, _ := logtest.NewNullLogger()
	handler := NewHandler(svc, logger, nil)
	handler.SetupRoutes(router)
	return router
}

func TestHomeHandler(t *testing.T) {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypeHTML, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Supported by the community")
	assert.Contains(t, w.Body.String(), "Join them now")
	assert.Contains(t, w.Body.String(), "20k")
}

func TestBlogHandlers(t *testing.T) {
	router := setupRouter()

	tests := []struct {
		name           string
		url            string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Blog index lists posts",
			url:            "/blog",
			expectedStatus: http.StatusOK,
			expectedBody:   "Hello, Keyloom",
		},
		{
			name:           "Existing post renders",
			url:            "/blog/hello-keyloom",
			expectedStatus: http.StatusOK,
			expectedBody:   "Welcome aboard.",
		},
		{
			name:           "Missing post serves the 404 page",
			url:            "/blog/missing",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Page not found",
		},
		{
			name:           "Unknown path serves the 404 page",
			url:            "/definitely/not/here",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Page not found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tc.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.expectedBody)
		})
	}
}

func TestDiscoveryHandlers(t *testing.T) {
	router := setupRouter()

	tests := []struct {
		name           string
		url            string
		expectedType   string
		expectedMarker string
	}{
		{
			name:           "RSS feed",
			url:            "/feed.xml",
			expectedType:   contentTypeRSS,
			expectedMarker: "<rss",
		},
		{
			name:           "Sitemap",
			url:            "/sitemap.xml",
			expectedType:   contentTypeXML,
			expectedMarker: "<urlset",
		},
		{
			name:           "Robots",
			url:            "/robots.txt",
			expectedType:   contentTypeText,
			expectedMarker: "Sitemap: https://keyloom.dev/sitemap.xml",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tc.url, nil)
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.expectedType, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), tc.expectedMarker)
		})
	}
}

func TestStaticAssets(t *testing.T) {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/static/css/site.css", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "public")
	assert.Contains(t, w.Body.String(), ".metrics-strip")
}

func TestPostHandler_ResponsesAreByteIdentical(t *testing.T) {
	router := setupRouter()

	fetch := func() []byte {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/blog/hello-keyloom", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		return w.Body.Bytes()
	}

	assert.Equal(t, fetch(), fetch())
}
