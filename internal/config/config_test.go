package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/bemhtml/internal/errors"
	"github.com/vango-dev/bemhtml/pkg/naming"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Renderer.Naming != naming.PresetOrigin {
		t.Errorf("Renderer.Naming = %q, want %q", cfg.Renderer.Naming, naming.PresetOrigin)
	}
	if cfg.Publish.ContentType != DefaultContentType {
		t.Errorf("Publish.ContentType = %q, want %q", cfg.Publish.ContentType, DefaultContentType)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !stderrors.Is(err, errors.New("B141")) {
		t.Errorf("Load() error = %v, want B141", err)
	}

	configJSON := `{
  "name": "site",
  "renderer": {
    "xhtml": true,
    "naming": "two-dashes",
    "escapeContent": false
  },
  "templates": "templates.yaml",
  "server": {
    "port": 9000
  },
  "publish": {
    "bucket": "pages",
    "region": "eu-west-1"
  }
}
`
	writeConfig(t, tmpDir, configJSON)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "site" {
		t.Errorf("Name = %q, want %q", cfg.Name, "site")
	}
	if !cfg.Renderer.XHTML {
		t.Error("Renderer.XHTML should be true")
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9000)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want default %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("Server.MaxBodyBytes = %d, want %d", cfg.Server.MaxBodyBytes, DefaultMaxBodyBytes)
	}
	if cfg.Publish.Bucket != "pages" {
		t.Errorf("Publish.Bucket = %q, want %q", cfg.Publish.Bucket, "pages")
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
	if cfg.TemplatesPath() != filepath.Join(tmpDir, "templates.yaml") {
		t.Errorf("TemplatesPath() = %q", cfg.TemplatesPath())
	}
	if cfg.Address() != "localhost:9000" {
		t.Errorf("Address() = %q, want %q", cfg.Address(), "localhost:9000")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"server": {"port": "x"}}`)

	_, err := Load(tmpDir)
	var be *errors.Error
	if !stderrors.As(err, &be) || be.Code != "B120" {
		t.Fatalf("Load() error = %v, want B120", err)
	}
	if !strings.Contains(be.Detail, "bemhtml.json") {
		t.Errorf("Detail = %q", be.Detail)
	}
}

func TestLoadSyntaxErrorLocation(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "{\n  \"name\": \"docs\",\n  \"server\": {\"port\": }\n}\n")

	_, err := Load(tmpDir)
	var be *errors.Error
	if !stderrors.As(err, &be) || be.Code != "B120" {
		t.Fatalf("Load() error = %v, want B120", err)
	}
	if be.Location == nil || be.Location.Line != 3 {
		t.Fatalf("Location = %+v, want line 3", be.Location)
	}
	if be.Location.File != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Location.File = %q", be.Location.File)
	}
	if len(be.Context) == 0 || !strings.Contains(strings.Join(be.Context, "\n"), `"port": }`) {
		t.Errorf("Context = %q, want the failing line", be.Context)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown naming", func(c *Config) { c.Renderer.Naming = "react" }, "B121"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "B122"},
		{"negative body limit", func(c *Config) { c.Server.MaxBodyBytes = -1 }, "B122"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !stderrors.Is(err, errors.New(tt.code)) {
				t.Errorf("Validate() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := New()
	cfg.Renderer.Naming = naming.PresetTwoDashes
	cfg.Renderer.OmitOptionalEndTags = true
	off := false
	cfg.Renderer.EscapeContent = &off

	opts := cfg.Options()
	if opts.Naming != naming.TwoDashes {
		t.Errorf("Naming = %+v, want %+v", opts.Naming, naming.TwoDashes)
	}
	if !opts.OmitOptionalEndTags {
		t.Error("OmitOptionalEndTags should be true")
	}
	if opts.EscapeContent == nil || *opts.EscapeContent {
		t.Error("EscapeContent should be false")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Name = "round-trip"
	cfg.Publish.Prefix = "pages/"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.Name != "round-trip" || loaded.Publish.Prefix != "pages/" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", loaded.Dir(), tmpDir)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists() mismatch")
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPagesPath(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"server": {"pages": "pages"}, "publish": {"endpoint": "http://localhost:9000"}}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := cfg.PagesPath(); got != filepath.Join(tmpDir, "pages") {
		t.Errorf("PagesPath() = %q", got)
	}
	if cfg.Publish.Endpoint != "http://localhost:9000" {
		t.Errorf("Publish.Endpoint = %q", cfg.Publish.Endpoint)
	}
	if got := New().PagesPath(); got != "" {
		t.Errorf("PagesPath() without pages = %q, want empty", got)
	}
}
