package scaffold

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/vango-dev/bemhtml/internal/config"
	"github.com/vango-dev/bemhtml/internal/errors"
	"github.com/vango-dev/bemhtml/pkg/naming"
)

// Config contains template variables.
type Config struct {
	// ProjectName is the name of the project.
	ProjectName string

	// Description is a short project description.
	Description string

	// Naming is the class naming preset (default "origin").
	Naming string
}

// Template represents a project template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Project builds the bemhtml.json of the new project.
	Project func(cfg Config) *config.Config

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"site":    siteTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("B145").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: minimal, site")
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create generates a project from the template in dir.
func (t *Template) Create(dir string, cfg Config) error {
	if cfg.Naming == "" {
		cfg.Naming = naming.PresetOrigin
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	project := config.New()
	if t.Project != nil {
		project = t.Project(cfg)
	}
	if err := project.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		return err
	}

	for relPath, content := range t.Files {
		tmpl, err := template.New(relPath).Parse(content)
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
			return err
		}
	}

	return nil
}

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "bemhtml.json and a single page",
		Project: func(c Config) *config.Config {
			cfg := config.New()
			cfg.Name = c.ProjectName
			cfg.Renderer.Naming = c.Naming
			cfg.Server.Pages = "pages"
			return cfg
		},
		Files: map[string]string{
			"pages/index.json": `{
  "block": "page",
  "content": [
    {"elem": "title", "tag": "h1", "content": {{printf "%q" .ProjectName}}},
    {"elem": "text", "tag": "p", "content": {{printf "%q" .Description}}}
  ]
}
`,
		},
	}
}

func siteTemplate() *Template {
	return &Template{
		Name:        "site",
		Description: "Templates file, pages and a stylesheet",
		Project: func(c Config) *config.Config {
			cfg := config.New()
			cfg.Name = c.ProjectName
			cfg.Templates = "templates.yaml"
			cfg.Renderer.Naming = c.Naming
			cfg.Server.Pages = "pages"
			cfg.Server.Static = "static"
			cfg.Server.StyleSheets = []string{"/static/main.css"}
			cfg.Publish.Prefix = c.ProjectName + "/"
			return cfg
		},
		Files: map[string]string{
			"templates.yaml": `# Defaults applied to every node of a block or element.
- block: page
  tag: main
- block: page
  elem: title
  tag: h1
- block: page
  elem: text
  tag: p
- block: link
  tag: a
- block: menu
  tag: ul
- block: menu
  elem: item
  tag: li
`,
			"pages/index.yaml": `block: page
content:
  - elem: title
    content: {{printf "%q" .ProjectName}}
  - elem: text
    content: {{printf "%q" .Description}}
  - block: menu
    content:
      - elem: item
        elemMods: {current: true}
        content: {block: link, attrs: {href: /pages/index}, content: Home}
      - elem: item
        content: {block: link, attrs: {href: /pages/about}, content: About}
`,
			"pages/about.yaml": `block: page
content:
  - elem: title
    content: About
  - elem: text
    content: Rendered by bemhtml.
`,
			"static/main.css": `.page { font-family: system-ui, sans-serif; max-width: 800px; margin: 0 auto; padding: 2rem; }
.page__title { color: #2563eb; }
.menu__item_current .link { font-weight: bold; }
`,
		},
	}
}
