package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/myrjola/lastalibi/internal/contexthelpers"
	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/ui"
)

type BaseTemplateData struct {
	CurrentPath string
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(r.Context()),
	}
}

// pageTemplate returns a template for the given page name.
//
// pageName corresponds to a directory inside ui/templates/pages. It has to
// include a template named "page".
func (app *application) pageTemplate(pageName string) (*template.Template, error) {
	files := []string{
		"templates/base.gohtml",
	}

	pageTemplateFiles, err := fs.Glob(ui.Files, fmt.Sprintf("templates/pages/%s/*.gohtml", pageName))
	if err != nil {
		return nil, errors.Wrap(err, "glob page template files")
	}
	files = append(files, pageTemplateFiles...)

	// The FuncMap has to exist before parsing. The csrf function is overridden
	// per request in render.
	return template.New(pageName).Funcs(template.FuncMap{
		"csrf": func() string {
			panic("not implemented")
		},
	}).ParseFS(ui.Files, files...)
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, file string, data any) {
	app.renderTemplate(w, r, status, file, "base", data)
}

// renderPartial renders a named template without the base layout, used for
// htmx fragment swaps.
func (app *application) renderPartial(w http.ResponseWriter, r *http.Request, status int, file string, name string, data any) {
	app.renderTemplate(w, r, status, file, name, data)
}

func (app *application) renderTemplate(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	file string,
	name string,
	data any,
) {
	var (
		err error
		t   *template.Template
	)

	if t, err = app.pageTemplate(file); err != nil {
		app.serverError(w, r, errors.Wrap(err, "parse template", slog.String("template", file)))
		return
	}

	buf := new(bytes.Buffer)
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", contexthelpers.CSRFToken(r.Context()))
	t.Funcs(template.FuncMap{
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // the token is not user-provided
		},
	})
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template",
			slog.String("template", file), slog.String("name", name)))
		return
	}

	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
