package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/keyloom/website/internal/app/server/service"
)

// Example showing how the handler set is mounted on a gin engine.
func ExampleHandler_SetupRoutes() {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := service.NewPageService(testStore(), false)
	logger, _ := logtest.NewNullLogger()
	h := NewHandler(svc, logger, nil)
	h.SetupRoutes(router)

	for _, path := range []string{"/", "/blog", "/blog/hello-keyloom", "/robots.txt"} {
		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(rr, req)
		fmt.Println(path, rr.Code)
	}

	// Output:
	// / 200
	// /blog 200
	// /blog/hello-keyloom 200
	// /robots.txt 200
}
