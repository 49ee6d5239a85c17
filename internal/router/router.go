package router

import (
	"io/fs"
	"net/http"
	"time"
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/handlers"
	"yatube/internal/middleware"
	"yatube/internal/services"
	"yatube/internal/store"
	"yatube/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionName = "yatube_session"

// Deps is everything the handlers need, built once in main.
type Deps struct {
	Config *config.Config
	Store  *store.Store
	Cache  cache.Store
	Media  *services.MediaStore
	Mailer handlers.Mailer
	Tokens *services.ResetTokens
}

// New assembles the engine: middleware, templates, static files and routes.
func New(d Deps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		handlers.ServerError(c, errors.Errorf("panic: %v", recovered), "recovered from panic")
		c.Abort()
	}))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())

	sessionStore := cookie.NewStore([]byte(d.Config.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((14 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   d.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, sessionStore))
	r.Use(middleware.LoadUser(d.Store))

	renderer, err := LoadTemplates(web.Templates, FuncMap(d.Media))
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, errors.Wrap(err, "static assets")
	}
	r.StaticFS("/static", http.FS(static))
	r.Static(services.MediaURLPrefix, d.Config.MediaRoot)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterRoutes(r, d)
	r.NoRoute(handlers.NotFound)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Handlers
	postHandler := handlers.NewPostHandler(d.Store, d.Media)
	followHandler := handlers.NewFollowHandler(d.Store)
	authHandler := handlers.NewAuthHandler(d.Store, d.Mailer, d.Tokens, d.Config.SiteURL)
	aboutHandler := handlers.NewAboutHandler()
	seoHandler := handlers.NewSEOHandler(d.Store, d.Config.SiteURL)

	authRequired := middleware.AuthRequired()

	// 公共路由 (Public Routes)
	indexCache := cache.Page(d.Cache, d.Config.IndexCacheTTL, middleware.ViewerKey)
	r.GET("/", indexCache, postHandler.Index)         // 首页，缓存 20 秒
	r.HEAD("/", indexCache, postHandler.Index)        // 与 GET 共用缓存
	r.GET("/group/:slug/", postHandler.GroupPosts)    // 分组帖子
	r.GET("/profile/:username/", postHandler.Profile) // 用户主页
	r.GET("/posts/:post_id/", postHandler.Detail)     // 帖子详情页

	// 受保护路由 (Protected Routes)
	r.GET("/create/", authRequired, postHandler.ShowCreate)
	r.POST("/create/", authRequired, postHandler.Create)
	ownerOnly := middleware.PostOwnerRequired(d.Store, handlers.NotFound, handlers.ServerError)
	r.GET("/posts/:post_id/edit/", authRequired, ownerOnly, postHandler.ShowEdit)
	r.POST("/posts/:post_id/edit/", authRequired, ownerOnly, postHandler.Update)
	r.POST("/posts/:post_id/comment", authRequired, postHandler.AddComment)

	r.GET("/follow/", authRequired, followHandler.Index)
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		r.Handle(method, "/profile/:username/follow", authRequired, followHandler.Follow)
		r.Handle(method, "/profile/:username/unfollow", authRequired, followHandler.Unfollow)
	}

	// 账号路由 (Auth Routes)
	auth := r.Group("/auth")
	{
		auth.GET("/signup/", authHandler.ShowSignup)
		auth.POST("/signup/", authHandler.Signup)
		auth.GET("/login/", authHandler.ShowLogin)
		auth.POST("/login/", authHandler.Login)
		auth.GET("/logout/", authHandler.Logout)
		auth.POST("/logout/", authHandler.Logout)

		auth.GET("/password_change/", authRequired, authHandler.ShowPasswordChange)
		auth.POST("/password_change/", authRequired, authHandler.PasswordChange)
		auth.GET("/password_change/done/", authRequired, authHandler.PasswordChangeDone)

		auth.GET("/password_reset/", authHandler.ShowPasswordReset)
		auth.POST("/password_reset/", authHandler.PasswordReset)
		auth.GET("/password_reset/done/", authHandler.PasswordResetDone)
		auth.GET("/reset/done/", authHandler.PasswordResetComplete)
		auth.GET("/reset/:uidb64/:token/", authHandler.ShowPasswordResetConfirm)
		auth.POST("/reset/:uidb64/:token/", authHandler.PasswordResetConfirm)
	}

	r.GET("/about/author/", aboutHandler.Author)
	r.GET("/about/tech/", aboutHandler.Tech)

	// SEO
	r.GET("/rss/", seoHandler.RSSFeed)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)
	r.GET("/robots.txt", seoHandler.RobotsTxt)
}
