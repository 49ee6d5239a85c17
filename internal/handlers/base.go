package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"yatube/internal/logging"
	"yatube/internal/middleware"
	"yatube/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// NotFound renders the custom 404 page. It doubles as the engine's NoRoute handler.
func NotFound(c *gin.Context) {
	Render(c, http.StatusNotFound, "core/404.html", gin.H{"Path": c.Request.URL.Path})
}

// ServerError logs err and renders the 500 page.
func ServerError(c *gin.Context, err error, msg string) {
	logging.Log.WithError(err).WithField("path", c.Request.URL.Path).Error(msg)
	Render(c, http.StatusInternalServerError, "core/500.html", nil)
}

// storeError maps a lookup failure to 404 or 500.
func storeError(c *gin.Context, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		NotFound(c)
		return
	}
	ServerError(c, err, msg)
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}
