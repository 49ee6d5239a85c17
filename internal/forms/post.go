package forms

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"
	"yatube/internal/models"
	"yatube/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// GroupFinder resolves the group a post is filed under.
type GroupFinder interface {
	GroupByID(ctx context.Context, id uint) (*models.Group, error)
}

type PostForm struct {
	Text       string                `form:"text" validate:"required"`
	Group      string                `form:"group"`
	ImageClear string                `form:"image-clear"`
	Image      *multipart.FileHeader `form:"-" validate:"-"`

	// GroupID is set by Validate from Group.
	GroupID *uint `form:"-" validate:"-"`
}

// PostFormFrom pre-fills the form with an existing post, for editing.
func PostFormFrom(p *models.Post) *PostForm {
	f := &PostForm{Text: p.Text, GroupID: p.GroupID}
	if p.GroupID != nil {
		f.Group = strconv.FormatUint(uint64(*p.GroupID), 10)
	}
	return f
}

// BindPost reads text, group and the optional image upload.
func BindPost(c *gin.Context) *PostForm {
	f := &PostForm{}
	// all fields are strings, so binding cannot fail on type
	_ = c.ShouldBind(f)
	f.Text = strings.TrimSpace(f.Text)
	f.Group = strings.TrimSpace(f.Group)
	if fh, err := c.FormFile("image"); err == nil {
		f.Image = fh
	}
	return f
}

// Selected reports whether the group select box should mark id.
func (f *PostForm) Selected(id uint) bool {
	return f.Group == strconv.FormatUint(uint64(id), 10)
}

// WantsImageCleared is true when the "clear" checkbox next to the current image was ticked.
func (f *PostForm) WantsImageCleared() bool {
	return f.ImageClear != ""
}

// Validate checks every field. The returned error is reserved for lookup failures.
func (f *PostForm) Validate(ctx context.Context, groups GroupFinder) (Errors, error) {
	errs := check(f)

	f.GroupID = nil
	if f.Group != "" {
		id, err := strconv.ParseUint(f.Group, 10, 64)
		if err != nil || id == 0 {
			errs.Add("group", msgInvalidChoice)
		} else if _, err := groups.GroupByID(ctx, uint(id)); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
			errs.Add("group", msgInvalidChoice)
		} else {
			gid := uint(id)
			f.GroupID = &gid
		}
	}

	if f.Image != nil {
		if f.WantsImageCleared() {
			errs.Add("image", msgImageConflict)
		} else if _, err := ValidateImage(f.Image); err != nil {
			errs.Add("image", imageMessage(err))
		}
	}
	return errs, nil
}

type CommentForm struct {
	Text string `form:"text" validate:"required"`
}

func BindComment(c *gin.Context) *CommentForm {
	f := &CommentForm{}
	_ = c.ShouldBind(f)
	f.Text = strings.TrimSpace(f.Text)
	return f
}

func (f *CommentForm) Validate() Errors {
	return check(f)
}
