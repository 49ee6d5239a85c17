package utils

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DecorateHTML 为渲染后的正文补充图片懒加载等属性
func DecorateHTML(htmlStr string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(htmlStr)
	}

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("loading", "lazy")
		s.SetAttr("referrerpolicy", "no-referrer")
		s.AddClass("img-fluid")
	})

	doc.Find("table").Each(func(i int, s *goquery.Selection) {
		s.AddClass("table")
	})

	// goquery wraps fragments in html/body; only the body content is wanted
	out, _ := doc.Find("body").Html()
	if out == "" {
		out, _ = doc.Html()
	}
	return template.HTML(out)
}

// PlainText strips markup, e.g. for feed descriptions.
func PlainText(htmlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return htmlStr
	}
	return strings.TrimSpace(doc.Text())
}
