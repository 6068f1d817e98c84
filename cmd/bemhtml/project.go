package main

import (
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bemhtml/internal/config"
	"github.com/vango-dev/bemhtml/internal/errors"
	"github.com/vango-dev/bemhtml/pkg/bemhtml"
	"github.com/vango-dev/bemhtml/pkg/naming"
)

// rendererFlags are the output options that override bemhtml.json.
type rendererFlags struct {
	xhtml               bool
	elemJSInstances     bool
	omitOptionalEndTags bool
	unquotedAttrs       bool
	naming              string
	noEscape            bool
}

func (f *rendererFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVar(&f.xhtml, "xhtml", false, "Close void elements with />")
	flags.BoolVar(&f.elemJSInstances, "elem-js-instances", false, "Add i-bem to elements with js params")
	flags.BoolVar(&f.omitOptionalEndTags, "omit-optional-end-tags", false, "Omit optional end tags such as </li>")
	flags.BoolVar(&f.unquotedAttrs, "unquoted-attrs", false, "Leave safe attribute values unquoted")
	flags.StringVar(&f.naming, "naming", "", "Class naming preset: "+strings.Join(presetNames, " or "))
	flags.BoolVar(&f.noEscape, "no-escape", false, "Do not escape text content")
}

// apply copies the flags the user set onto cfg.
func (f *rendererFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("xhtml") {
		cfg.Renderer.XHTML = f.xhtml
	}
	if flags.Changed("elem-js-instances") {
		cfg.Renderer.ElemJSInstances = f.elemJSInstances
	}
	if flags.Changed("omit-optional-end-tags") {
		cfg.Renderer.OmitOptionalEndTags = f.omitOptionalEndTags
	}
	if flags.Changed("unquoted-attrs") {
		cfg.Renderer.UnquotedAttrs = f.unquotedAttrs
	}
	if flags.Changed("naming") {
		cfg.Renderer.Naming = f.naming
	}
	if flags.Changed("no-escape") {
		escape := !f.noEscape
		cfg.Renderer.EscapeContent = &escape
	}
}

// loadProject loads the config at path, or bemhtml.json from the current
// directory or a parent. Without a config file the defaults are used.
func loadProject(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}

	root, err := config.FindProjectRoot(".")
	if err != nil {
		if stderrors.Is(err, errors.New("B141")) {
			slog.Debug("no bemhtml.json found, using defaults")
			return config.New(), nil
		}
		return nil, err
	}
	return config.Load(root)
}

// newEngine creates an engine from cfg and loads templatesPath if set.
func newEngine(cfg *config.Config, templatesPath string) (*bemhtml.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := cfg.Options()
	opts.Logger = slog.Default()
	engine := bemhtml.New(opts)

	if templatesPath != "" {
		if err := engine.LoadTemplatesFile(templatesPath); err != nil {
			return nil, err
		}
		slog.Debug("templates loaded", "path", templatesPath)
	}
	return engine, nil
}

// presetNames lists the accepted --naming values.
var presetNames = []string{naming.PresetOrigin, naming.PresetTwoDashes}
