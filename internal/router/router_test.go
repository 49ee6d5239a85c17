package router

import (
	"testing"
	"yatube/internal/services"
	"yatube/web"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := LoadTemplates(web.Templates, FuncMap(services.NewMediaStore(t.TempDir())))
	require.NoError(t, err)

	render, ok := r.(multitemplate.Render)
	require.True(t, ok)
	for _, name := range []string{
		"posts/index.html", "posts/group_list.html", "posts/profile.html", "posts/post_detail.html",
		"posts/create_post.html", "posts/follow.html", "core/404.html", "core/500.html",
		"users/signup.html", "users/login.html", "users/logged_out.html",
		"users/password_reset_confirm.html", "about/author.html", "about/tech.html",
	} {
		assert.Contains(t, render, name)
	}
	assert.NotContains(t, render, "email/password_reset.html")
	assert.NotContains(t, render, "layouts/base.html")
	assert.NotContains(t, render, "includes/paginator.html")
}

func TestFuncMapDict(t *testing.T) {
	dict := FuncMap(services.NewMediaStore(""))["dict"].(func(...interface{}) (map[string]interface{}, error))

	m, err := dict("Post", 1, "HideGroup", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"Post": 1, "HideGroup": true}, m)

	_, err = dict("odd")
	assert.Error(t, err)
	_, err = dict(1, 2)
	assert.Error(t, err)
}
