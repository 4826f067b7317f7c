package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"resume-maker/internal/styles"
)

//go:embed templates
var templateFS embed.FS

// Pages every Renderer must provide.
var pageNames = []string{"index", "signup", "login", "resume_builder", "preview_templates", "cover_letter_form"}

// Flash is a one-shot message displayed at the top of a page.
type Flash struct {
	Category string
	Message  string
}

// PageData is passed to every page template.
type PageData struct {
	Title    string
	UserName string
	LoggedIn bool
	Flashes  []Flash
	Data     any
}

// DocumentData is passed to resume and cover letter templates.
type DocumentData struct {
	Style       styles.Style
	Data        any
	Token       string
	IsPDF       bool
	DownloadURL string
}

// Renderer executes the embedded template set.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates and checks that every page and every
// style of the given registries has a template.
func New(registries ...*styles.Registry) (*Renderer, error) {
	tmpl, err := template.New("root").Funcs(template.FuncMap{
		"join": strings.Join,
		"lines": func(s string) []string {
			var out []string
			for _, l := range strings.Split(s, "\n") {
				if l = strings.TrimSpace(l); l != "" {
					out = append(out, l)
				}
			}
			return out
		},
		"initials": initials,
	}).ParseFS(templateFS, "templates/*.tmpl", "templates/pages/*.tmpl", "templates/resume/*.tmpl", "templates/cover_letter/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	var missing []string
	for _, name := range pageNames {
		if tmpl.Lookup("page/"+name) == nil {
			missing = append(missing, "page/"+name)
		}
	}
	for _, reg := range registries {
		for _, s := range reg.All() {
			if tmpl.Lookup(s.TemplateName()) == nil {
				missing = append(missing, s.TemplateName())
			}
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing templates: %s", strings.Join(missing, ", "))
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page renders the named page.
func (r *Renderer) Page(name string, data PageData) ([]byte, error) {
	return r.execute("page/"+name, data)
}

// Document renders a resume or cover letter in style.
func (r *Renderer) Document(style styles.Style, data DocumentData) ([]byte, error) {
	data.Style = style
	return r.execute(style.TemplateName(), data)
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func initials(name string) string {
	var b strings.Builder
	for _, f := range strings.Fields(name) {
		for _, r := range f {
			b.WriteRune(r)
			break
		}
		if b.Len() >= 8 {
			break
		}
	}
	return strings.ToUpper(b.String())
}
