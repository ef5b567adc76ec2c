package email

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// HTMLRenderer loads *.html templates from a directory. When a template is
// missing it falls back to a built-in plain layout so mail still goes out.
type HTMLRenderer struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
}

var fallbackTemplate = template.Must(template.New("fallback").Parse(
	`<html><body><h2>{{.Title}}</h2><p>{{.Body}}</p>{{if .Link}}<p><a href="{{.Link}}">{{.LinkText}}</a></p>{{end}}</body></html>`))

func NewHTMLRenderer(dir string) *HTMLRenderer {
	r := &HTMLRenderer{templates: make(map[string]*template.Template)}
	if dir != "" {
		_ = r.loadDir(dir)
	}
	return r
}

func (r *HTMLRenderer) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".html")
		tmpl, err := template.ParseFiles(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", entry.Name(), err)
		}
		r.templates[name] = tmpl
	}
	return nil
}

func (r *HTMLRenderer) Render(name string, data TemplateData) (string, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()

	if !ok {
		tmpl = fallbackTemplate
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
