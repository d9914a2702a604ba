package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSPATestHandler() http.Handler {
	return newSPAHandler(fstest.MapFS{
		"index.html":         {Data: []byte("<html>app shell</html>")},
		"assets/app.abc.js":  {Data: []byte("console.log('app')")},
		"assets/app.abc.css": {Data: []byte("body{}")},
	})
}

func spaGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSPAServesIndexAtRoot(t *testing.T) {
	rec := spaGet(t, newSPATestHandler(), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "app shell")
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-cache")
}

func TestSPAServesStaticAssetWithImmutableCache(t *testing.T) {
	rec := spaGet(t, newSPATestHandler(), "/assets/app.abc.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
}

func TestSPAFallsBackToIndexForClientRoutes(t *testing.T) {
	rec := spaGet(t, newSPATestHandler(), "/categories/some-client-route")
	assert.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "app shell")
}

func TestSPAUnmatchedAPIPathIsJSON404(t *testing.T) {
	rec := spaGet(t, newSPATestHandler(), "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "not_found")
}
