package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPageRouter(t *testing.T, store Store, counter *int, status *int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	vary := func(c *gin.Context) string { return c.GetHeader("X-User") }
	handler := func(c *gin.Context) {
		*counter++
		c.Data(*status, "text/html; charset=utf-8", []byte("render "+string(rune('0'+*counter))))
	}
	page := Page(store, 20*time.Second, vary)
	r.GET("/", page, handler)
	r.HEAD("/", page, handler)
	r.POST("/", page, handler)
	return r
}

func get(r http.Handler, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if user != "" {
		req.Header.Set("X-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPageServesIdenticalBodyWithinWindow(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	store, err := NewMemoryStore(10, WithClock(clock.Now))
	require.NoError(t, err)
	calls, status := 0, http.StatusOK
	r := newPageRouter(t, store, &calls, &status)

	first := get(r, "")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get(r, "")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls)

	clock.Advance(21 * time.Second)
	third := get(r, "")
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.NotEqual(t, first.Body.String(), third.Body.String())
	assert.Equal(t, 2, calls)
}

func TestPageVariesByVisitor(t *testing.T) {
	store, err := NewMemoryStore(10)
	require.NoError(t, err)
	calls, status := 0, http.StatusOK
	r := newPageRouter(t, store, &calls, &status)

	get(r, "")
	w := get(r, "42")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestPageSkipsErrors(t *testing.T) {
	store, err := NewMemoryStore(10)
	require.NoError(t, err)
	calls, status := 0, http.StatusInternalServerError
	r := newPageRouter(t, store, &calls, &status)

	get(r, "")
	get(r, "")
	assert.Equal(t, 2, calls)
}

func TestEntryRoundTrip(t *testing.T) {
	ct, body, ok := decodeEntry(encodeEntry("text/html", []byte("a\nb")))
	require.True(t, ok)
	assert.Equal(t, "text/html", ct)
	assert.Equal(t, "a\nb", string(body))

	_, _, ok = decodeEntry([]byte("no newline"))
	assert.False(t, ok)
}

func TestPageHeadSharesGetEntry(t *testing.T) {
	store, err := NewMemoryStore(10)
	require.NoError(t, err)
	calls, status := 0, http.StatusOK
	r := newPageRouter(t, store, &calls, &status)

	first := get(r, "")
	require.Equal(t, "MISS", first.Header().Get("X-Cache"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
}

func TestPageIgnoresPost(t *testing.T) {
	store, err := NewMemoryStore(10)
	require.NoError(t, err)
	calls, status := 0, http.StatusOK
	r := newPageRouter(t, store, &calls, &status)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Empty(t, w.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
	assert.Zero(t, store.Len())
}
