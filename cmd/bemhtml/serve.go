package main

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bemhtml/internal/config"
	"github.com/vango-dev/bemhtml/internal/dev"
	"github.com/vango-dev/bemhtml/pkg/server"
)

type serveOptions struct {
	configPath string
	templates  string
	addr       string
	pages      string
	watch      bool
	renderer   rendererFlags
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server",
		Long: `Start the HTTP preview server.

Endpoints:
  POST /render        render the request body (JSON, YAML or MessagePack)
  GET  /ws            render documents sent over a WebSocket
  GET  /pages/{name}  render a page from the pages directory
  GET  /static/*      files from the static directory
  GET  /metrics       Prometheus metrics
  GET  /healthz       liveness probe

With --watch the templates file and pages directory are polled for
changes. Templates are reloaded and open pages refresh automatically.

Examples:
  bemhtml serve
  bemhtml serve --addr :9000 --pages ./pages --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, &opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to bemhtml.json")
	flags.StringVarP(&opts.templates, "templates", "t", "", "Templates file (overrides bemhtml.json)")
	flags.StringVarP(&opts.addr, "addr", "a", "", "Listen address (default from bemhtml.json)")
	flags.StringVarP(&opts.pages, "pages", "p", "", "Pages directory (overrides bemhtml.json)")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Reload templates and pages on change")
	opts.renderer.register(cmd)

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := loadProject(opts.configPath)
	if err != nil {
		return err
	}
	opts.renderer.apply(cmd, cfg)

	templatesPath := cfg.TemplatesPath()
	if opts.templates != "" {
		templatesPath = opts.templates
	}
	engine, err := newEngine(cfg, templatesPath)
	if err != nil {
		return err
	}

	addr := cfg.Address()
	if opts.addr != "" {
		addr = opts.addr
	}
	pagesDir := cfg.PagesPath()
	if opts.pages != "" {
		pagesDir = opts.pages
	}

	srvConfig := &server.Config{
		Address:        addr,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		PagesDir:       pagesDir,
		StyleSheets:    cfg.Server.StyleSheets,
		StaticDir:      cfg.StaticPath(),
		Logger:         slog.Default(),
	}

	var reload *dev.ReloadServer
	if opts.watch {
		reload = dev.NewReloadServer(srvConfig.CheckOrigin)
		srvConfig.Reloader = reload
		defer reload.Close()
	}

	srv := server.New(engine, srvConfig)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.watch {
		w := newProjectWatcher(cfg, templatesPath, pagesDir, srv, reload)
		go w.Start(ctx)
		defer w.Stop()
	}

	success("Serving on http://%s", addr)
	if pagesDir != "" {
		info("Pages: http://%s/pages/{name}", addr)
	}
	return srv.Run(ctx)
}

// newProjectWatcher polls the project files. A template change rebuilds
// the engine before browsers reload; when the templates fail to load the
// error overlay is shown instead.
func newProjectWatcher(cfg *config.Config, templatesPath, pagesDir string, srv *server.Server, reload *dev.ReloadServer) *dev.Watcher {
	var paths []string
	if templatesPath != "" {
		paths = append(paths, templatesPath)
	}
	if pagesDir != "" {
		paths = append(paths, pagesDir)
	}
	if static := cfg.StaticPath(); static != "" {
		paths = append(paths, static)
	}

	w := dev.NewWatcher(dev.WatcherConfig{Paths: paths})
	w.OnChange(func(c dev.Change) {
		logger := slog.With("component", "watch", "path", c.Path)

		if templatesPath != "" && filepath.Clean(c.Path) == filepath.Clean(templatesPath) {
			engine, err := newEngine(cfg, templatesPath)
			if err != nil {
				logger.Error("templates reload failed", "error", err)
				reload.NotifyError(err)
				return
			}
			srv.SetEngine(engine)
			reload.ClearError()
			logger.Info("templates reloaded")
		}

		switch {
		case c.Type == dev.ChangeCSS:
			reload.NotifyCSS(c.Path)
			return
		case c.Type == dev.ChangeDocument && pagesDir != "" && filepath.Dir(c.Path) == filepath.Clean(pagesDir):
			reload.NotifyPage(filepath.Base(c.Path))
			return
		}
		reload.NotifyReload()
		logger.Debug("reload sent", "clients", reload.ClientCount())
	})
	return w
}
