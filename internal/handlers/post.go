package handlers

import (
	"net/http"
	"yatube/internal/forms"
	"yatube/internal/logging"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/store"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	store *store.Store
	media *services.MediaStore
}

func NewPostHandler(st *store.Store, media *services.MediaStore) *PostHandler {
	return &PostHandler{store: st, media: media}
}

// Index 首页，所有帖子按时间倒序
func (h *PostHandler) Index(c *gin.Context) {
	page, err := h.store.ListPosts(c.Request.Context(), store.PostFilter{}, c.Query("page"))
	if err != nil {
		ServerError(c, err, "list posts")
		return
	}
	Render(c, http.StatusOK, "posts/index.html", gin.H{"PageObj": page})
}

func (h *PostHandler) GroupPosts(c *gin.Context) {
	ctx := c.Request.Context()
	group, err := h.store.GroupBySlug(ctx, c.Param("slug"))
	if err != nil {
		storeError(c, err, "load group")
		return
	}

	page, err := h.store.ListPosts(ctx, store.PostFilter{GroupID: group.ID}, c.Query("page"))
	if err != nil {
		ServerError(c, err, "list group posts")
		return
	}
	Render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"Group":   group,
		"PageObj": page,
	})
}

// Profile 用户主页
func (h *PostHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := h.store.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		storeError(c, err, "load author")
		return
	}

	page, err := h.store.ListPosts(ctx, store.PostFilter{AuthorID: author.ID}, c.Query("page"))
	if err != nil {
		ServerError(c, err, "list author posts")
		return
	}

	// follow state is per viewer; anonymous visitors follow nobody
	following := false
	if viewer := middleware.CurrentUser(c); viewer != nil {
		if following, err = h.store.IsFollowing(ctx, viewer.ID, author.ID); err != nil {
			ServerError(c, err, "check follow")
			return
		}
	}

	followers, err := h.store.CountFollowers(ctx, author.ID)
	if err != nil {
		ServerError(c, err, "count followers")
		return
	}
	followingCount, err := h.store.CountFollowing(ctx, author.ID)
	if err != nil {
		ServerError(c, err, "count following")
		return
	}

	Render(c, http.StatusOK, "posts/profile.html", gin.H{
		"Author":         author,
		"CountPosts":     page.Count,
		"PageObj":        page,
		"Following":      following,
		"CountFollowers": followers,
		"CountFollowing": followingCount,
	})
}

// Detail 帖子详情页，评论每页 5 条
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("post_id"))
	if !ok {
		NotFound(c)
		return
	}
	ctx := c.Request.Context()

	post, err := h.store.PostByID(ctx, id)
	if err != nil {
		storeError(c, err, "load post")
		return
	}
	count, err := h.store.CountPostsByAuthor(ctx, post.AuthorID)
	if err != nil {
		ServerError(c, err, "count author posts")
		return
	}
	comments, err := h.store.ListComments(ctx, post.ID, c.Query("page"))
	if err != nil {
		ServerError(c, err, "list comments")
		return
	}

	Render(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"Post":       post,
		"Chars10":    post.Excerpt(),
		"PubDate":    post.CreatedAt,
		"CountPosts": count,
		"PageObj":    comments,
		"Form":       &forms.CommentForm{},
	})
}

func (h *PostHandler) renderForm(c *gin.Context, code int, form *forms.PostForm, errs forms.Errors, post *models.Post) {
	groups, err := h.store.ListGroups(c.Request.Context())
	if err != nil {
		ServerError(c, err, "list groups")
		return
	}
	data := gin.H{
		"Form":   form,
		"Errors": errs,
		"Groups": groups,
		"IsEdit": post != nil,
	}
	if post != nil {
		data["Post"] = post
	}
	Render(c, code, "posts/create_post.html", data)
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, http.StatusOK, &forms.PostForm{}, forms.Errors{}, nil)
}

// Create 发布新帖子，成功后跳转到作者主页
func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	form := forms.BindPost(c)
	errs, err := form.Validate(ctx, h.store)
	if err != nil {
		ServerError(c, err, "validate post")
		return
	}
	if errs.Any() {
		h.renderForm(c, http.StatusBadRequest, form, errs, nil)
		return
	}

	post := &models.Post{Text: form.Text, AuthorID: user.ID, GroupID: form.GroupID}
	if form.Image != nil {
		if post.Image, err = h.media.SaveImage(form.Image); err != nil {
			ServerError(c, err, "save post image")
			return
		}
	}
	if err := h.store.CreatePost(ctx, post); err != nil {
		if rmErr := h.media.Remove(post.Image); rmErr != nil {
			logging.Log.WithError(rmErr).Warn("remove orphaned image")
		}
		ServerError(c, err, "create post")
		return
	}

	logging.Log.WithField("post_id", post.ID).WithField("user_id", user.ID).Info("post created")
	c.Redirect(http.StatusFound, profileURL(user.Username))
}

// ShowEdit only runs for the post's author; PostOwnerRequired sends everyone else away.
func (h *PostHandler) ShowEdit(c *gin.Context) {
	post := c.MustGet(middleware.PostKey).(*models.Post)
	h.renderForm(c, http.StatusOK, forms.PostFormFrom(post), forms.Errors{}, post)
}

// Update 编辑帖子：文本、分组、图片原地修改
func (h *PostHandler) Update(c *gin.Context) {
	post := c.MustGet(middleware.PostKey).(*models.Post)
	ctx := c.Request.Context()

	form := forms.BindPost(c)
	errs, err := form.Validate(ctx, h.store)
	if err != nil {
		ServerError(c, err, "validate post")
		return
	}
	if errs.Any() {
		h.renderForm(c, http.StatusBadRequest, form, errs, post)
		return
	}

	image := post.Image
	switch {
	case form.Image != nil:
		if image, err = h.media.SaveImage(form.Image); err != nil {
			ServerError(c, err, "save post image")
			return
		}
	case form.WantsImageCleared():
		image = ""
	}

	post.Text = form.Text
	post.GroupID = form.GroupID
	post.Image = image
	if err := h.store.UpdatePost(ctx, post); err != nil {
		storeError(c, err, "update post")
		return
	}
	c.Redirect(http.StatusFound, postURL(post.ID))
}

// AddComment always ends on the post page; an empty comment is dropped without a message.
func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("post_id"))
	if !ok {
		NotFound(c)
		return
	}
	ctx := c.Request.Context()

	post, err := h.store.PostByID(ctx, id)
	if err != nil {
		storeError(c, err, "load post")
		return
	}

	user := middleware.CurrentUser(c)
	form := forms.BindComment(c)
	if errs := form.Validate(); errs.Any() {
		logging.Log.WithField("post_id", post.ID).WithField("errors", errs).Debug("comment rejected")
	} else {
		comment := &models.Comment{PostID: post.ID, AuthorID: user.ID, Text: form.Text}
		if err := h.store.CreateComment(ctx, comment); err != nil {
			ServerError(c, err, "create comment")
			return
		}
	}
	c.Redirect(http.StatusFound, postURL(post.ID))
}
