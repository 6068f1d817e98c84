package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bemhtml/internal/errors"
	"github.com/vango-dev/bemhtml/internal/scaffold"
	"github.com/vango-dev/bemhtml/pkg/naming"
)

func createCmd() *cobra.Command {
	var (
		template    string
		description string
		preset      string
	)

	cmd := &cobra.Command{
		Use:   "create <dir>",
		Short: "Create a new bemhtml project",
		Long: `Create a new bemhtml project in the given directory.

Templates:
  minimal   bemhtml.json and a single page
  site      templates file, pages and a stylesheet (default)

Examples:
  bemhtml create docs
  bemhtml create docs --template=minimal --naming=two-dashes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args[0], template, description, preset)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "site", "Project template (minimal, site)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	cmd.Flags().StringVar(&preset, "naming", naming.PresetOrigin, "Class naming preset")

	return cmd
}

func runCreate(cmd *cobra.Command, dir, templateName, description, preset string) error {
	projectDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	name := filepath.Base(projectDir)

	if !isValidProjectName(name) {
		return errors.New("B147").
			WithDetail(fmt.Sprintf("%q is not a valid project name", name)).
			WithSuggestion("Use letters, digits, hyphens and underscores")
	}
	if _, ok := naming.Preset(preset); !ok {
		return errors.New("B121").
			WithDetail(fmt.Sprintf("Unknown naming preset %q.", preset))
	}
	if _, err := os.Stat(projectDir); !os.IsNotExist(err) {
		return errors.New("B140").
			WithDetail("Directory '" + dir + "' already exists").
			WithSuggestion("Choose a different name or remove the existing directory")
	}

	tmpl, err := scaffold.Get(templateName)
	if err != nil {
		return err
	}

	if description == "" {
		description = "A site rendered with bemhtml"
	}

	info("Creating project from '%s' template...", templateName)
	err = tmpl.Create(projectDir, scaffold.Config{
		ProjectName: name,
		Description: description,
		Naming:      preset,
	})
	if err != nil {
		// Clean up on error
		os.RemoveAll(projectDir)
		return err
	}

	success("Created %s/", dir)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  To get started:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "    cd %s\n", dir)
	fmt.Fprintln(out, "    bemhtml serve --watch")
	fmt.Fprintln(out)
	return nil
}

func isValidProjectName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
