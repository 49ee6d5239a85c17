package handlers

import (
	"net/http"
	"yatube/internal/logging"
	"yatube/internal/middleware"
	"yatube/internal/store"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	store *store.Store
}

func NewFollowHandler(st *store.Store) *FollowHandler {
	return &FollowHandler{store: st}
}

// Index 关注的作者的帖子
func (h *FollowHandler) Index(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page, err := h.store.ListPosts(c.Request.Context(), store.PostFilter{FollowerID: user.ID}, c.Query("page"))
	if err != nil {
		ServerError(c, err, "list followed posts")
		return
	}
	Render(c, http.StatusOK, "posts/follow.html", gin.H{"PageObj": page})
}

// Follow records a new edge every time it is called.
func (h *FollowHandler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := h.store.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		storeError(c, err, "load author")
		return
	}

	user := middleware.CurrentUser(c)
	if _, err := h.store.CreateFollow(ctx, user.ID, author.ID); err != nil {
		ServerError(c, err, "create follow")
		return
	}
	logging.Log.WithField("follower_id", user.ID).WithField("followed_id", author.ID).Info("follow")
	c.Redirect(http.StatusFound, profileURL(author.Username))
}

// Unfollow removes every edge between the viewer and the author. 404 when there is none.
func (h *FollowHandler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := h.store.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		storeError(c, err, "load author")
		return
	}

	user := middleware.CurrentUser(c)
	n, err := h.store.DeleteFollows(ctx, user.ID, author.ID)
	if err != nil {
		ServerError(c, err, "delete follow")
		return
	}
	if n == 0 {
		NotFound(c)
		return
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}
