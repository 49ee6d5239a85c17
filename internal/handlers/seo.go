package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"
	"yatube/internal/models"
	"yatube/internal/store"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	feedSize    = 20
	sitemapSize = 500
)

type SEOHandler struct {
	store   *store.Store
	siteURL string
}

func NewSEOHandler(st *store.Store, siteURL string) *SEOHandler {
	return &SEOHandler{store: st, siteURL: strings.TrimSuffix(siteURL, "/")}
}

// RobotsTxt 返回 robots.txt
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

# 禁止爬取账号相关页面
Disallow: /auth/
Disallow: /create/
Disallow: /follow/
Disallow: /posts/*/edit/

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

func sitemapURL(loc, lastmod, changefreq string, priority float64) string {
	return fmt.Sprintf(`  <url>
    <loc>%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, escapeXML(loc), lastmod, changefreq, priority)
}

// SitemapXML 动态生成 sitemap.xml
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().Format("2006-01-02")

	groups, err := h.store.ListGroups(ctx)
	if err != nil {
		ServerError(c, err, "list groups for sitemap")
		return
	}
	posts, err := h.store.RecentPosts(ctx, sitemapSize)
	if err != nil {
		ServerError(c, err, "list posts for sitemap")
		return
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
	b.WriteString(sitemapURL(h.siteURL+"/", now, "daily", 1.0))
	b.WriteString(sitemapURL(h.siteURL+"/about/author/", now, "monthly", 0.3))
	b.WriteString(sitemapURL(h.siteURL+"/about/tech/", now, "monthly", 0.3))

	for _, g := range groups {
		b.WriteString(sitemapURL(h.siteURL+"/group/"+g.Slug+"/", now, "daily", 0.7))
	}

	// 根据帖子新旧程度调整优先级
	for _, p := range posts {
		days := time.Since(p.CreatedAt).Hours() / 24
		priority, changefreq := 0.6, "weekly"
		if days < 7 {
			priority, changefreq = 0.8, "daily"
		}
		b.WriteString(sitemapURL(h.siteURL+postURL(p.ID), p.CreatedAt.Format("2006-01-02"), changefreq, priority))
	}
	b.WriteString(`</urlset>`)

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

// RSSFeed 生成 RSS 2.0 feed，最新 20 篇帖子
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	posts, err := h.store.RecentPosts(c.Request.Context(), feedSize)
	if err != nil {
		ServerError(c, err, "list posts for feed")
		return
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>Yatube</title>
    <link>` + escapeXML(h.siteURL+"/") + `</link>
    <description>Latest updates on the site</description>
    <language>en</language>
    <lastBuildDate>` + time.Now().Format(time.RFC1123Z) + `</lastBuildDate>
    <atom:link href="` + escapeXML(h.siteURL+"/rss/") + `" rel="self" type="application/rss+xml"/>
`)

	for _, p := range posts {
		link := h.siteURL + postURL(p.ID)
		b.WriteString(`    <item>
      <title>` + escapeXML(feedTitle(p)) + `</title>
      <link>` + escapeXML(link) + `</link>
      <description><![CDATA[` + cdata(string(utils.RenderText(p.Text))) + `]]></description>
      <author>` + escapeXML(p.Author.Username) + `</author>
`)
		if p.Group != nil {
			b.WriteString(`      <category>` + escapeXML(p.Group.Title) + `</category>
`)
		}
		b.WriteString(`      <pubDate>` + p.CreatedAt.Format(time.RFC1123Z) + `</pubDate>
      <guid isPermaLink="true">` + escapeXML(link) + `</guid>
    </item>
`)
	}
	b.WriteString(`  </channel>
</rss>`)

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

// feedTitle is the first line of the post with markdown stripped, cut to a readable length.
func feedTitle(p models.Post) string {
	text := utils.PlainText(string(utils.RenderText(p.Text)))
	line := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	if runes := []rune(line); len(runes) > 60 {
		return string(runes[:60]) + "…"
	}
	return line
}

// escapeXML 转义 XML 特殊字符
func escapeXML(s string) string {
	return html.EscapeString(s)
}

// a literal "]]>" would end the CDATA section early
func cdata(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}
