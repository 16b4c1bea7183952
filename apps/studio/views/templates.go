package views

import (
	"bytes"
	"embed"
	"html/template"
	"sync"
	"time"
)

const dateLayout = "Jan 02, 2006 at 15:04 UTC"

var (
	//go:embed templates/*.gohtml
	templateFS embed.FS

	templates *template.Template
	tmplInit  sync.Once
	tmplErr   error
)

func parseTemplates() {
	templates, tmplErr = template.New("views").
		Option("missingkey=error").
		Funcs(template.FuncMap{"date": formatDate}).
		ParseFS(templateFS, "templates/*.gohtml")
}

// renderTemplate executes the named template (file name without extension).
func renderTemplate(name string, data interface{}) (template.HTML, error) {
	tmplInit.Do(parseTemplates) // only parse once
	if tmplErr != nil {
		return "", tmplErr
	}
	var buff bytes.Buffer
	if err := templates.ExecuteTemplate(&buff, name+".gohtml", data); err != nil {
		return "", err
	}
	return template.HTML(buff.String()), nil // nolint:gosec
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(dateLayout)
}
