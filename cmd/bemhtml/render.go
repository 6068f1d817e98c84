package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bemhtml/internal/config"
	"github.com/vango-dev/bemhtml/internal/errors"
	"github.com/vango-dev/bemhtml/pkg/bemjson"
	"github.com/vango-dev/bemhtml/pkg/publish"
)

type renderOptions struct {
	configPath string
	templates  string
	format     string
	output     string
	stream     bool
	renderer   rendererFlags

	publish  string
	bucket   string
	prefix   string
	region   string
	endpoint string
}

func renderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a BEMJSON document",
		Long: `Render a BEMJSON document to HTML.

The document is read from the file argument, or from stdin when the
argument is missing or "-". The input format is taken from --format,
then from the file extension, and defaults to JSON.

Examples:
  bemhtml render page.json
  bemhtml render page.yaml --templates templates.yaml -o page.html
  cat page.json | bemhtml render --stream
  bemhtml render page.json --publish index.html --bucket my-site`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, &opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to bemhtml.json")
	flags.StringVarP(&opts.templates, "templates", "t", "", "Templates file (overrides bemhtml.json)")
	flags.StringVarP(&opts.format, "format", "f", "", "Input format: json, yaml or msgpack")
	flags.StringVarP(&opts.output, "output", "o", "", "Write HTML to a file instead of stdout")
	flags.BoolVar(&opts.stream, "stream", false, "Write fragments as soon as they are rendered")
	flags.StringVar(&opts.publish, "publish", "", "Upload the HTML to S3 under this name")
	flags.StringVar(&opts.bucket, "bucket", "", "S3 bucket (overrides bemhtml.json)")
	flags.StringVar(&opts.prefix, "prefix", "", "S3 key prefix (overrides bemhtml.json)")
	flags.StringVar(&opts.region, "region", "", "AWS region (overrides bemhtml.json)")
	flags.StringVar(&opts.endpoint, "endpoint", "", "S3 endpoint URL (overrides bemhtml.json)")
	opts.renderer.register(cmd)

	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOptions, args []string) error {
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

	tree, err := readDocument(cmd.InOrStdin(), args, opts.format)
	if err != nil {
		return err
	}

	if opts.publish != "" {
		html, err := engine.Apply(tree)
		if err != nil {
			return err
		}
		return publishPage(cmd, cfg, opts, html)
	}

	write := func(w io.Writer) error {
		if opts.stream {
			return engine.Stream(w, tree)
		}
		html, err := engine.Apply(tree)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	}

	if opts.output == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	return writeAndClose(f, write)
}

// writeAndClose runs write on wc and closes it. A failed Close is reported
// because buffered data may be lost.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

// readDocument reads and decodes the input document.
func readDocument(stdin io.Reader, args []string, formatName string) (any, error) {
	path := ""
	if len(args) == 1 && args[0] != "-" {
		path = args[0]
	}

	format := bemjson.FormatJSON
	if formatName != "" {
		f, err := bemjson.ParseFormat(formatName)
		if err != nil {
			return nil, errors.New("B202").Wrap(err)
		}
		format = f
	} else if path != "" {
		format = bemjson.FormatFromPath(path)
	}

	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	tree, err := bemjson.Decode(format, data)
	if err != nil {
		derr := errors.New("B201").Wrap(err)
		if path != "" {
			line, column := bemjson.Position(err)
			derr.WithLocation(path, line, column)
		}
		return nil, derr
	}
	return tree, nil
}

func publishPage(cmd *cobra.Command, cfg *config.Config, opts *renderOptions, html string) error {
	pc := cfg.Publish
	if opts.bucket != "" {
		pc.Bucket = opts.bucket
	}
	if opts.prefix != "" {
		pc.Prefix = opts.prefix
	}
	if opts.region != "" {
		pc.Region = opts.region
	}
	if opts.endpoint != "" {
		pc.Endpoint = opts.endpoint
	}

	client := publish.NewS3Client(publish.ClientConfig{
		Region:   pc.Region,
		Endpoint: pc.Endpoint,
	})
	pub, err := publish.New(client, publish.Options{
		Bucket:       pc.Bucket,
		Prefix:       pc.Prefix,
		ContentType:  pc.ContentType,
		CacheControl: pc.CacheControl,
	})
	if err != nil {
		return err
	}

	res, err := pub.Publish(cmd.Context(), filepath.ToSlash(opts.publish), html)
	if err != nil {
		return err
	}
	success("Published %s", res.URL())
	info("%d bytes", res.Bytes)
	return nil
}
