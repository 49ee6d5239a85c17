package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/router"
	"yatube/internal/services"
	"yatube/internal/store"
	"yatube/internal/store/storetest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, username, link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) SendPasswordReset(to, username, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, username: username, link: link})
	return nil
}

func (m *fakeMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testApp struct {
	t         *testing.T
	st        *store.Store
	engine    *gin.Engine
	mailer    *fakeMailer
	clock     *fakeClock
	mediaRoot string
}

const siteURL = "http://testserver"

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := storetest.CreateTempDB(t)
	clock := &fakeClock{now: time.Now()}
	pageCache, err := cache.NewMemoryStore(100, cache.WithClock(clock.Now))
	require.NoError(t, err)

	cfg := &config.Config{
		Env:              "test",
		SessionSecret:    "handlers-test-secret-handlers-test",
		SiteURL:          siteURL,
		MediaRoot:        t.TempDir(),
		IndexCacheTTL:    20 * time.Second,
		PasswordResetTTL: time.Hour,
	}
	mailer := &fakeMailer{}
	engine, err := router.New(router.Deps{
		Config: cfg,
		Store:  st,
		Cache:  pageCache,
		Media:  services.NewMediaStore(cfg.MediaRoot),
		Mailer: mailer,
		Tokens: services.NewResetTokens(cfg.SessionSecret, cfg.PasswordResetTTL),
	})
	require.NoError(t, err)

	return &testApp{t: t, st: st, engine: engine, mailer: mailer, clock: clock, mediaRoot: cfg.MediaRoot}
}

// client keeps the session cookie between requests, like a browser.
type client struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) guest() *client {
	return &client{app: a, cookies: map[string]*http.Cookie{}}
}

// login signs username in with the fixture password.
func (a *testApp) login(username string) *client {
	a.t.Helper()
	c := a.guest()
	w := c.postForm("/auth/login/", url.Values{"username": {username}, "password": {storetest.Password}})
	require.Equal(a.t, http.StatusFound, w.Code, w.Body.String())
	return c
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.app.engine.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) postMultipart(path string, fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	c.app.t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(c.app.t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("image", filename)
		require.NoError(c.app.t, err)
		_, err = part.Write(content)
		require.NoError(c.app.t, err)
	}
	require.NoError(c.app.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func countCards(body string) int {
	return strings.Count(body, `class="post-card"`)
}
