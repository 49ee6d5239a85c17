package cache

import (
	"bytes"
	"net/http"
	"time"
	"yatube/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var pageLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "yatube_page_cache_lookups_total",
	Help: "Page cache lookups by result (hit or miss)",
}, []string{"result"})

// VaryFunc returns the per-visitor part of a cache key.
type VaryFunc func(c *gin.Context) string

// bodyWriter tees the response body so it can be stored after the handler ran.
type bodyWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Page serves GET and HEAD responses from store for ttl. Only 200 responses are
// stored; a hit replays the stored body and content type unchanged. HEAD shares
// the GET entry, net/http drops the body on the way out.
func Page(store Store, ttl time.Duration, vary VaryFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if (method != http.MethodGet && method != http.MethodHead) || ttl <= 0 {
			c.Next()
			return
		}

		key := "page:" + c.Request.URL.RequestURI()
		if vary != nil {
			key += ":" + vary(c)
		}
		ctx := c.Request.Context()

		raw, ok, err := store.Get(ctx, key)
		if err != nil {
			logging.Log.WithError(err).WithField("key", key).Warn("page cache read failed")
		}
		if ok {
			if contentType, body, valid := decodeEntry(raw); valid {
				pageLookups.WithLabelValues("hit").Inc()
				c.Header("X-Cache", "HIT")
				c.Data(http.StatusOK, contentType, body)
				c.Abort()
				return
			}
		}
		pageLookups.WithLabelValues("miss").Inc()

		w := &bodyWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Header("X-Cache", "MISS")
		c.Next()

		if w.Status() != http.StatusOK || c.IsAborted() {
			return
		}
		entry := encodeEntry(w.Header().Get("Content-Type"), w.buf.Bytes())
		if err := store.Set(ctx, key, entry, ttl); err != nil {
			logging.Log.WithError(err).WithField("key", key).Warn("page cache write failed")
		}
	}
}

// An entry is the content type, a newline, then the raw body.
func encodeEntry(contentType string, body []byte) []byte {
	out := make([]byte, 0, len(contentType)+1+len(body))
	out = append(out, contentType...)
	out = append(out, '\n')
	return append(out, body...)
}

func decodeEntry(raw []byte) (string, []byte, bool) {
	i := bytes.IndexByte(raw, '\n')
	if i < 0 {
		return "", nil, false
	}
	return string(raw[:i]), raw[i+1:], true
}
