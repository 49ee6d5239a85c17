package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"yatube/internal/logging"
	"yatube/internal/models"
	"yatube/internal/store"
	"yatube/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CheckUserKey = "user"
	PostKey      = "post"

	// SessionUserKey is the session field holding the logged-in user's id.
	SessionUserKey = "user_id"

	LoginPath = "/auth/login/"
)

// LoginURL builds the login redirect carrying the page to come back to.
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// CurrentUser returns the logged-in user or nil for anonymous visitors.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// ViewerKey identifies the visitor for per-user page caching: "u<id>" or "anon".
func ViewerKey(c *gin.Context) string {
	if u := CurrentUser(c); u != nil {
		return "u" + strconv.FormatUint(uint64(u.ID), 10)
	}
	return "anon"
}

// LoadUser retrieves user from session and sets to context
func LoadUser(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if id, ok := session.Get(SessionUserKey).(uint); ok {
			user, err := st.UserByID(c.Request.Context(), id)
			switch {
			case err == nil:
				c.Set(CheckUserKey, user)
			case errors.Is(err, store.ErrNotFound):
				// account deleted since login
				session.Delete(SessionUserKey)
				_ = session.Save()
			default:
				logging.Log.WithError(err).Error("load session user")
			}
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// PostOwnerRequired loads :post_id into the context and lets only its author
// through. Anyone else is sent to the post's detail page, whatever the method.
// Must run after AuthRequired. The page renderers are passed in because the
// handlers package imports this one.
func PostOwnerRequired(st *store.Store, notFound gin.HandlerFunc, serverError func(*gin.Context, error, string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := utils.ParseID(c.Param("post_id"))
		if !ok {
			notFound(c)
			c.Abort()
			return
		}
		post, err := st.PostByID(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			notFound(c)
			c.Abort()
			return
		}
		if err != nil {
			serverError(c, err, "load post for owner check")
			c.Abort()
			return
		}

		user := CurrentUser(c)
		if user == nil || user.ID != post.AuthorID {
			c.Redirect(http.StatusFound, "/posts/"+strconv.FormatUint(uint64(post.ID), 10)+"/")
			c.Abort()
			return
		}
		c.Set(PostKey, post)
		c.Next()
	}
}
