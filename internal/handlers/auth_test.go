package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"yatube/internal/store/storetest"
	"yatube/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	w := app.guest().get("/auth/signup/")
	require.Equal(t, http.StatusOK, w.Code)

	w = app.guest().postForm("/auth/signup/", url.Values{
		"first_name": {"Leo"},
		"last_name":  {"Tolstoy"},
		"username":   {"leo"},
		"email":      {"leo@example.com"},
		"password1":  {"war-and-peace-1869"},
		"password2":  {"war-and-peace-1869"},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/", w.Header().Get("Location"))

	u, err := app.st.UserByUsername(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, "Leo Tolstoy", u.FullName())
	assert.NotEqual(t, "war-and-peace-1869", u.Password)
	assert.True(t, utils.CheckPasswordHash("war-and-peace-1869", u.Password))
}

func TestSignupCyrillicUsername(t *testing.T) {
	app := newTestApp(t)

	w := app.guest().postForm("/auth/signup/", url.Values{
		"username":  {"лев.толстой"},
		"password1": {"war-and-peace-1869"},
		"password2": {"war-and-peace-1869"},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	_, err := app.st.UserByUsername(context.Background(), "лев.толстой")
	require.NoError(t, err)

	w = app.guest().get("/profile/" + url.PathEscape("лев.толстой") + "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "лев.толстой")
}

func TestSignupInvalid(t *testing.T) {
	app := newTestApp(t)
	storetest.CreateUser(t, app.st, "leo")

	w := app.guest().postForm("/auth/signup/", url.Values{
		"username":  {"leo"},
		"password1": {"war-and-peace-1869"},
		"password2": {"war-and-peace-1869"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "A user with that username already exists.")

	w = app.guest().postForm("/auth/signup/", url.Values{
		"username":  {"new user"},
		"password1": {"12345678"},
		"password2": {"12345678"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Enter a valid username.")
	assert.Contains(t, w.Body.String(), "This password is entirely numeric.")

	n, err := app.st.CountUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	storetest.CreateUser(t, app.st, "leo")

	w := app.guest().get("/auth/login/?next=/follow/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="next" value="/follow/"`)

	w = app.guest().postForm("/auth/login/", url.Values{"username": {"leo"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")

	w = app.guest().postForm("/auth/login/", url.Values{"username": {"ghost"}, "password": {"whatever"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.guest().postForm("/auth/login/", url.Values{"username": {"leo"}, "password": {storetest.Password}, "next": {"/follow/"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/follow/", w.Header().Get("Location"))

	for _, next := range []string{"//evil.example/", "https://evil.example/", "/\\evil.example"} {
		w = app.guest().postForm("/auth/login/", url.Values{"username": {"leo"}, "password": {storetest.Password}, "next": {next}})
		assert.Equal(t, http.StatusFound, w.Code, next)
		assert.Equal(t, "/", w.Header().Get("Location"), next)
	}
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	storetest.CreateUser(t, app.st, "leo")
	leo := app.login("leo")

	require.Equal(t, http.StatusOK, leo.get("/create/").Code)

	w := leo.get("/auth/logout/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "You have been logged out")
	assert.NotContains(t, w.Body.String(), "User: ")

	assert.Equal(t, http.StatusFound, leo.get("/create/").Code)
	// logging out twice is harmless
	assert.Equal(t, http.StatusOK, app.guest().postForm("/auth/logout/", nil).Code)
}

func TestPasswordChange(t *testing.T) {
	app := newTestApp(t)
	storetest.CreateUser(t, app.st, "leo")

	w := app.guest().get("/auth/password_change/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/auth/password_change/", w.Header().Get("Location"))

	leo := app.login("leo")
	require.Equal(t, http.StatusOK, leo.get("/auth/password_change/").Code)

	w = leo.postForm("/auth/password_change/", url.Values{
		"old_password":  {"not-it"},
		"new_password1": {"brand-new-pass"},
		"new_password2": {"brand-new-pass"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Your old password was entered incorrectly.")

	w = leo.postForm("/auth/password_change/", url.Values{
		"old_password":  {storetest.Password},
		"new_password1": {"brand-new-pass"},
		"new_password2": {"brand-new-pass"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/password_change/done/", w.Header().Get("Location"))

	// the session survives the change
	assert.Equal(t, http.StatusOK, leo.get("/auth/password_change/done/").Code)

	w = app.guest().postForm("/auth/login/", url.Values{"username": {"leo"}, "password": {"brand-new-pass"}})
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	app := newTestApp(t)
	storetest.CreateUser(t, app.st, "leo")
	guest := app.guest()

	require.Equal(t, http.StatusOK, guest.get("/auth/password_reset/").Code)

	w := guest.postForm("/auth/password_reset/", url.Values{"email": {"nobody@example.com"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Empty(t, app.mailer.Sent())

	w = guest.postForm("/auth/password_reset/", url.Values{"email": {"leo@example.com"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/password_reset/done/", w.Header().Get("Location"))
	require.Equal(t, http.StatusOK, guest.get("/auth/password_reset/done/").Code)

	sent := app.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "leo@example.com", sent[0].to)
	assert.Equal(t, "leo", sent[0].username)
	require.True(t, strings.HasPrefix(sent[0].link, siteURL+"/auth/reset/"))
	resetPath := strings.TrimPrefix(sent[0].link, siteURL)

	w = guest.get(resetPath)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Enter a new password")

	w = guest.postForm(resetPath, url.Values{"new_password1": {"short"}, "new_password2": {"short"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = guest.postForm(resetPath, url.Values{"new_password1": {"reset-pass-2024"}, "new_password2": {"reset-pass-2024"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/reset/done/", w.Header().Get("Location"))
	assert.Equal(t, http.StatusOK, guest.get("/auth/reset/done/").Code)

	// the link dies with the old password
	w = guest.get(resetPath)
	assert.Contains(t, w.Body.String(), "Password reset unsuccessful")

	w = app.guest().postForm("/auth/login/", url.Values{"username": {"leo"}, "password": {"reset-pass-2024"}})
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestPasswordResetBadLink(t *testing.T) {
	app := newTestApp(t)
	storetest.CreateUser(t, app.st, "leo")

	for _, path := range []string{"/auth/reset/MQ/garbage/", "/auth/reset/!!/garbage/", "/auth/reset/OTk5/garbage/"} {
		w := app.guest().get(path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "Password reset unsuccessful", path)
	}
}
