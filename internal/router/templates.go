package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"
	"yatube/internal/forms"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/pkg/errors"
)

const templatesRoot = "templates"

// FuncMap is available to every page template.
func FuncMap(media *services.MediaStore) template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"formatDate": func(t time.Time) string {
			return t.Format("2 January 2006")
		},
		"year": func() int {
			return time.Now().Year()
		},
		"renderText": utils.RenderText,
		"mediaURL":   media.URL,
		"fieldErrors": func(errs forms.Errors, field string) []string {
			return errs.Get(field)
		},
	}
}

// LoadTemplates builds one template set per page: the layout, every include
// and the page itself. Pages are keyed by their path under templates/,
// e.g. "posts/index.html". Mail templates are not pages and are skipped.
func LoadTemplates(fsys fs.FS, funcMap template.FuncMap) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layout := path.Join(templatesRoot, "layouts", "base.html")
	includes, err := fs.Glob(fsys, path.Join(templatesRoot, "includes", "*.html"))
	if err != nil {
		return nil, errors.Wrap(err, "glob includes")
	}
	views, err := fs.Glob(fsys, path.Join(templatesRoot, "*", "*.html"))
	if err != nil {
		return nil, errors.Wrap(err, "glob views")
	}

	for _, view := range views {
		name := strings.TrimPrefix(view, templatesRoot+"/")
		switch path.Dir(name) {
		case "layouts", "includes", "email":
			continue
		}

		files := append([]string{layout}, includes...)
		files = append(files, view)
		tmpl, err := template.New(path.Base(layout)).Funcs(funcMap).ParseFS(fsys, files...)
		if err != nil {
			return nil, errors.Wrapf(err, "parse template %s", name)
		}
		r.Add(name, tmpl)
	}
	return r, nil
}
