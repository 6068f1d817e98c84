package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vango-dev/bemhtml/internal/errors"
	"github.com/vango-dev/bemhtml/pkg/bemhtml"
	"github.com/vango-dev/bemhtml/pkg/bemjson"
	"github.com/vango-dev/bemhtml/pkg/naming"
	"github.com/vango-dev/bemhtml/pkg/render"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "bemhtml.json"

	// DefaultPort is the default preview server port.
	DefaultPort = 8080

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultMaxBodyBytes limits the size of a BEMJSON request body.
	DefaultMaxBodyBytes = 4 << 20

	// DefaultContentType is the Content-Type of published pages.
	DefaultContentType = "text/html; charset=utf-8"
)

// Config represents the complete bemhtml.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Renderer contains the HTML output options.
	Renderer RendererConfig `json:"renderer,omitempty"`

	// Templates is the path to the templates file (JSON or YAML).
	Templates string `json:"templates,omitempty"`

	// Server contains preview server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Publish contains S3 publishing configuration.
	Publish PublishConfig `json:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RendererConfig contains the HTML output options.
type RendererConfig struct {
	// XHTML closes void elements with "/>".
	XHTML bool `json:"xhtml,omitempty"`

	// ElemJSInstances adds the i-bem class to elements with a JS payload.
	ElemJSInstances bool `json:"elemJsInstances,omitempty"`

	// OmitOptionalEndTags drops optional end tags such as </li>.
	OmitOptionalEndTags bool `json:"omitOptionalEndTags,omitempty"`

	// UnquotedAttrs leaves safe attribute values unquoted.
	UnquotedAttrs bool `json:"unquotedAttrs,omitempty"`

	// Naming is the class naming preset: "origin" or "two-dashes".
	Naming string `json:"naming,omitempty"`

	// EscapeContent XML-escapes text content (default: true).
	EscapeContent *bool `json:"escapeContent,omitempty"`
}

// ServerConfig contains preview server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// MaxBodyBytes limits the size of a render request.
	MaxBodyBytes int64 `json:"maxBodyBytes,omitempty"`

	// AllowedOrigins lists the origins accepted by the WebSocket endpoint.
	// Empty allows same-origin requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`

	// Pages is the directory of BEMJSON pages served under /pages.
	Pages string `json:"pages,omitempty"`

	// StyleSheets are linked from every served page.
	StyleSheets []string `json:"styleSheets,omitempty"`

	// Static is the directory served under /static.
	Static string `json:"static,omitempty"`
}

// PublishConfig contains S3 publishing settings.
type PublishConfig struct {
	// Bucket is the target S3 bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty"`

	// ContentType is the Content-Type stored with published pages.
	ContentType string `json:"contentType,omitempty"`

	// CacheControl is the Cache-Control stored with published pages.
	CacheControl string `json:"cacheControl,omitempty"`

	// Endpoint overrides the S3 endpoint (e.g., a local MinIO).
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Renderer: RendererConfig{
			Naming: naming.PresetOrigin,
		},
		Server: ServerConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Publish: PublishConfig{
			ContentType: DefaultContentType,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for bemhtml.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("B141").
				WithDetail("No bemhtml.json found in " + filepath.Dir(path)).
				WithSuggestion("Create bemhtml.json or pass the options as flags")
		}
		return nil, errors.New("B120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		perr := errors.New("B120").
			WithDetail("Failed to parse bemhtml.json: " + err.Error()).
			WithSuggestion("Check that bemhtml.json is valid JSON")
		line, column := bemjson.LineColumn(data, jsonOffset(err))
		return nil, perr.WithLocation(path, line, column)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// jsonOffset returns the input offset of a decoding error, or -1.
func jsonOffset(err error) int64 {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return syntaxErr.Offset
	}
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return typeErr.Offset
	}
	return -1
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("B120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("B120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Renderer.Naming == "" {
		c.Renderer.Naming = naming.PresetOrigin
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Publish.ContentType == "" {
		c.Publish.ContentType = DefaultContentType
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := naming.Preset(c.Renderer.Naming); !ok {
		return errors.New("B121").
			WithDetail(fmt.Sprintf("Unknown naming preset %q.", c.Renderer.Naming))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("B122").
			WithDetail("Port must be between 0 and 65535")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New("B122").
			WithDetail("maxBodyBytes must not be negative")
	}
	return nil
}

// Options converts the renderer section to engine options.
func (c *Config) Options() bemhtml.Options {
	n, _ := naming.Preset(c.Renderer.Naming)
	return bemhtml.Options{
		RendererConfig: render.RendererConfig{
			XHTML:               c.Renderer.XHTML,
			ElemJSInstances:     c.Renderer.ElemJSInstances,
			OmitOptionalEndTags: c.Renderer.OmitOptionalEndTags,
			UnquotedAttrs:       c.Renderer.UnquotedAttrs,
			Naming:              n,
		},
		EscapeContent: c.Renderer.EscapeContent,
	}
}

// Address returns the listen address of the preview server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// TemplatesPath returns the absolute path to the templates file, or "" when
// none is configured.
func (c *Config) TemplatesPath() string {
	return c.resolve(c.Templates)
}

// PagesPath returns the path to the pages directory, or "" when none is
// configured.
func (c *Config) PagesPath() string {
	return c.resolve(c.Server.Pages)
}

// StaticPath returns the path to the static directory, or "" when none is
// configured.
func (c *Config) StaticPath() string {
	return c.resolve(c.Server.Static)
}

// resolve makes a path relative to the config file directory.
func (c *Config) resolve(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing bemhtml.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("B141").
				WithDetail("No bemhtml.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
