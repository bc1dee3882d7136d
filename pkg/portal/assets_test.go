package portal

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.svg"), []byte("<svg/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0o644))

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ServeAssets("/assets", dir))
	engine.GET("/other", func(c *gin.Context) { c.String(http.StatusOK, "handler") })

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/assets/logo.svg")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<svg/>", w.Body.String())
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=86400")

	w = get("/assets/style.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=3600")

	// Files that don't exist fall through to the router.
	w = get("/assets/missing.css")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Requests outside the prefix are untouched.
	w = get("/other")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "handler", w.Body.String())
}
