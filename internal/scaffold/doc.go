// Package scaffold creates new bemhtml projects from built-in templates.
//
// # Available Templates
//
//   - minimal: bemhtml.json and a single page
//   - site: templates file, pages, stylesheet and live reload setup
//
// # Usage
//
//	tmpl, err := scaffold.Get("site")
//	if err != nil {
//	    return err
//	}
//	if err := tmpl.Create(projectDir, scaffold.Config{ProjectName: "docs"}); err != nil {
//	    return err
//	}
//
// # Template Variables
//
// Files are text/template sources:
//
//	{{.ProjectName}}   - Name of the project
//	{{.Description}}   - Project description
//	{{.Naming}}        - Class naming preset
package scaffold
