package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	_ "github.com/dhima/bookshelf-api/docs"
	"github.com/dhima/bookshelf-api/internal/api/middleware"
	"github.com/dhima/bookshelf-api/internal/logging"
	"github.com/dhima/bookshelf-api/internal/models"
	"github.com/dhima/bookshelf-api/internal/storage"
	"github.com/dhima/bookshelf-api/internal/testutil/fakes"
	"github.com/dhima/bookshelf-api/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *fakes.FakePublisher) {
	t.Helper()
	cfg := config.App{
		DatabaseDriver: storage.DriverSQLite,
		DatabaseURL:    filepath.Join(t.TempDir(), "books.db"),
		APIPort:        "0",
		Environment:    "test",
		CORSOrigins:    []string{"*"},
	}

	store, err := openStorage(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	pub := &fakes.FakePublisher{}
	return New(cfg, logging.NewNoOpLogger(), store, pub), pub
}

func request(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_WhenFullBookLifecycle_ThenMatchesContract(t *testing.T) {
	// Arrange
	srv, pub := newTestServer(t)
	h := srv.Handler()

	// Act & Assert: create
	w := request(t, h, http.MethodPost, "/books", `{"title":"Dune","author":"Herbert","publication_year":1965}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"Dune","author":"Herbert","publication_year":1965}`, w.Body.String())

	// read
	w = request(t, h, http.MethodGet, "/books/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"Dune","author":"Herbert","publication_year":1965}`, w.Body.String())

	// update
	w = request(t, h, http.MethodPut, "/books/1", `{"title":"Dune","author":"Herbert","publication_year":1966}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"Dune","author":"Herbert","publication_year":1966}`, w.Body.String())

	w = request(t, h, http.MethodGet, "/books/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var book models.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	assert.Equal(t, int64(1966), book.PublicationYear)

	// delete
	w = request(t, h, http.MethodDelete, "/books/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Book with ID 1 deleted successfully"}`, w.Body.String())

	w = request(t, h, http.MethodGet, "/books/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	events := pub.Published()
	require.Len(t, events, 3)
	assert.Equal(t, models.BookEventCreated, events[0].Type)
	assert.Equal(t, models.BookEventUpdated, events[1].Type)
	assert.Equal(t, models.BookEventDeleted, events[2].Type)
}

func TestServer_WhenInvalidPayloads_ThenRowCountUnchanged(t *testing.T) {
	// Arrange
	srv, _ := newTestServer(t)
	h := srv.Handler()
	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/books", `{"title":"Dune","author":"Herbert","publication_year":1965}`).Code)

	invalid := []string{
		`{"title":"","author":"Herbert","publication_year":1965}`,
		`{"title":"Dune","author":"","publication_year":1965}`,
		`{"title":"Dune","author":"Herbert","publication_year":"2020"}`,
		`{"title":"Dune","author":"Herbert","publication_year":3.5}`,
	}

	for _, body := range invalid {
		// Act
		create := request(t, h, http.MethodPost, "/books", body)
		update := request(t, h, http.MethodPut, "/books/1", body)

		// Assert
		assert.Equal(t, http.StatusBadRequest, create.Code, body)
		assert.Equal(t, http.StatusBadRequest, update.Code, body)
	}

	w := request(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"books_total":1}`, w.Body.String())

	w = request(t, h, http.MethodGet, "/books/1", "")
	assert.JSONEq(t, `{"id":1,"title":"Dune","author":"Herbert","publication_year":1965}`, w.Body.String())
}

func TestServer_WhenCaseVariantKeysSent_ThenStoresExactKeyValues(t *testing.T) {
	// Arrange
	srv, _ := newTestServer(t)
	h := srv.Handler()
	want := `{"id":1,"title":"Dune","author":"Herbert","publication_year":1965}`

	// Act
	created := request(t, h, http.MethodPost, "/books", `{"title":"Dune","author":"Herbert","publication_year":1965,"TITLE":"Other","Publication_Year":"1999"}`)
	stored := request(t, h, http.MethodGet, "/books/1", "")
	withEmptyVariant := request(t, h, http.MethodPut, "/books/1", `{"title":"Dune","author":"Herbert","publication_year":1965,"Title":""}`)

	// Assert
	require.Equal(t, http.StatusCreated, created.Code)
	assert.JSONEq(t, want, created.Body.String())
	assert.JSONEq(t, want, stored.Body.String())
	assert.Equal(t, http.StatusOK, withEmptyVariant.Code)
	assert.JSONEq(t, want, withEmptyVariant.Body.String())
}

func TestServer_WhenCreatesAndDeletes_ThenListHasNMinusMRows(t *testing.T) {
	// Arrange
	srv, _ := newTestServer(t)
	h := srv.Handler()
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/books", `{"title":"`+title+`","author":"X","publication_year":2001}`).Code)
	}
	require.Equal(t, http.StatusOK, request(t, h, http.MethodDelete, "/books/1", "").Code)
	require.Equal(t, http.StatusOK, request(t, h, http.MethodDelete, "/books/4", "").Code)
	require.Equal(t, http.StatusNotFound, request(t, h, http.MethodDelete, "/books/4", "").Code)

	// Act
	w := request(t, h, http.MethodGet, "/books", "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, []string{"B", "C", "E"}, []string{list[0].Title, list[1].Title, list[2].Title})
}

func TestServer_WhenHomeRequested_ThenReturnsUsage(t *testing.T) {
	srv, _ := newTestServer(t)

	w := request(t, srv.Handler(), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please Visit '/books'")
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestServer_WhenUnknownRoute_ThenJSON404(t *testing.T) {
	srv, _ := newTestServer(t)

	w := request(t, srv.Handler(), http.MethodGet, "/authors", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, w.Body.String())
}

func TestServer_WhenUnsupportedMethod_ThenJSON405(t *testing.T) {
	srv, _ := newTestServer(t)

	w := request(t, srv.Handler(), http.MethodPatch, "/books/1", `{}`)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":"Method Not Allowed"}`, w.Body.String())
}

func TestServer_WhenAnyRequest_ThenEchoesRequestID(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-abc")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace-abc", w.Header().Get(middleware.RequestIDHeader))
}

func TestServer_WhenSwaggerDocRequested_ThenServesAPIDocument(t *testing.T) {
	srv, _ := newTestServer(t)

	w := request(t, srv.Handler(), http.MethodGet, "/swagger/doc.json", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/books/{id}"`)
}

func TestOpenStorage_WhenPathUnreachable_ThenReturnsStorageUnavailable(t *testing.T) {
	cfg := config.App{
		DatabaseDriver: storage.DriverSQLite,
		DatabaseURL:    filepath.Join(t.TempDir(), "no", "such", "dir", "books.db"),
	}

	store, err := openStorage(context.Background(), cfg)

	assert.Nil(t, store)
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
}

func TestCORSConfig_WhenExplicitOrigins_ThenAllowsCredentials(t *testing.T) {
	srv := &Server{config: config.App{CORSOrigins: []string{"https://example.com"}}}

	cfg := srv.corsConfig()

	assert.False(t, cfg.AllowAllOrigins)
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, []string{"https://example.com"}, cfg.AllowOrigins)
}

func TestCORSConfig_WhenWildcard_ThenAllowsAllOrigins(t *testing.T) {
	srv := &Server{config: config.App{CORSOrigins: []string{"*"}}}

	cfg := srv.corsConfig()

	assert.True(t, cfg.AllowAllOrigins)
	assert.False(t, cfg.AllowCredentials)
}

func TestNewPublisher_WhenNoBrokers_ThenNoop(t *testing.T) {
	pub := newPublisher(config.App{}, logging.NewNoOpLogger())

	assert.NoError(t, pub.Publish(context.Background(), models.BookEvent{}))
}

func TestGinMode_WhenEnvironmentVaries_ThenMapsToGinMode(t *testing.T) {
	cases := map[string]string{
		"production":  gin.ReleaseMode,
		"development": gin.DebugMode,
		"test":        gin.TestMode,
		"staging":     gin.DebugMode,
		"":            gin.DebugMode,
	}

	for environment, want := range cases {
		t.Run(environment, func(t *testing.T) {
			assert.Equal(t, want, ginMode(environment))
		})
	}
}
