package main

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/bemhtml/internal/errors"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	templates := filepath.Join(dir, "templates.yaml")
	writeFile(t, templates, "- block: link\n  tag: a\n")
	page := filepath.Join(dir, "page.yaml")
	writeFile(t, page, "block: link\nmods:\n  active: true\ncontent: Home\n")
	cfgPath := filepath.Join(dir, "bemhtml.json")
	writeFile(t, cfgPath, `{"templates": "templates.yaml"}`)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "stdin json",
			stdin: `{"block":"b1","content":"<hi>"}`,
			args:  []string{"render", "-c", cfgPath},
			want:  `<div class="b1">&lt;hi&gt;</div>`,
		},
		{
			name: "yaml file with templates",
			args: []string{"render", "-c", cfgPath, page},
			want: `<a class="link link_active">Home</a>`,
		},
		{
			name:  "stream",
			stdin: `[{"block":"a"},{"block":"b"}]`,
			args:  []string{"render", "-c", cfgPath, "--stream"},
			want:  `<div class="a"></div><div class="b"></div>`,
		},
		{
			name:  "flags override config",
			stdin: `{"block":"b1","mods":{"m":"v"},"content":"<x>"}`,
			args:  []string{"render", "-c", cfgPath, "--naming", "two-dashes", "--no-escape"},
			want:  `<div class="b1 b1--m_v"><x></div>`,
		},
		{
			name:  "explicit format",
			stdin: "block: y\n",
			args:  []string{"render", "-c", cfgPath, "-f", "yaml", "-"},
			want:  `<div class="y"></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCLI(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("render error: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderCommandOutputFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bemhtml.json")
	writeFile(t, cfgPath, `{}`)
	out := filepath.Join(dir, "out.html")

	if _, err := runCLI(t, `{"block":"b1"}`, "render", "-c", cfgPath, "-o", out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != `<div class="b1"></div>` {
		t.Errorf("file = %q", data)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bemhtml.json")
	writeFile(t, cfgPath, `{}`)

	tests := []struct {
		name     string
		stdin    string
		args     []string
		wantCode string
	}{
		{"bad input", `{"block":`, []string{"render", "-c", cfgPath}, "B201"},
		{"unknown format", `{}`, []string{"render", "-c", cfgPath, "-f", "xml"}, "B202"},
		{"elem without block", `{"elem":"e"}`, []string{"render", "-c", cfgPath}, "B102"},
		{"unknown naming", `{}`, []string{"render", "-c", cfgPath, "--naming", "dots"}, "B121"},
		{"missing config", `{}`, []string{"render", "-c", filepath.Join(dir, "nope.json")}, "B141"},
		{"publish without bucket", `{}`, []string{"render", "-c", cfgPath, "--publish", "index.html"}, "B302"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.stdin, tt.args...)
			if !stderrors.Is(err, errors.New(tt.wantCode)) {
				t.Errorf("error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestRenderCommandErrorLocation(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bemhtml.json")
	writeFile(t, cfgPath, `{}`)
	page := filepath.Join(dir, "page.json")
	writeFile(t, page, "{\n  \"block\": \"page\",\n  \"content\": [1, 2,,]\n}\n")

	_, err := runCLI(t, "", "render", "-c", cfgPath, page)
	var be *errors.Error
	if !stderrors.As(err, &be) || be.Code != "B201" {
		t.Fatalf("error = %v, want B201", err)
	}
	if be.Location == nil || be.Location.File != page || be.Location.Line != 3 {
		t.Errorf("Location = %+v, want %s line 3", be.Location, page)
	}

	var out strings.Builder
	errors.DisableColors()
	defer errors.EnableColors()
	errors.Fprint(&out, err)
	if !strings.Contains(out.String(), `"content": [1, 2,,]`) {
		t.Errorf("formatted error should quote the failing line:\n%s", out.String())
	}
}

type closeRecorder struct {
	strings.Builder
	closed   int
	closeErr error
}

func (c *closeRecorder) Close() error {
	c.closed++
	return c.closeErr
}

func TestWriteAndClose(t *testing.T) {
	diskFull := stderrors.New("no space left on device")
	writeErr := stderrors.New("render failed")

	tests := []struct {
		name     string
		write    error
		closeErr error
		want     error
	}{
		{"ok", nil, nil, nil},
		{"close fails", nil, diskFull, diskFull},
		{"write fails", writeErr, diskFull, writeErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc := &closeRecorder{closeErr: tt.closeErr}
			err := writeAndClose(wc, func(w io.Writer) error {
				io.WriteString(w, "<p></p>")
				return tt.write
			})
			if err != tt.want {
				t.Errorf("writeAndClose() = %v, want %v", err, tt.want)
			}
			if wc.closed != 1 {
				t.Errorf("Close called %d times, want 1", wc.closed)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	got, err := runCLI(t, "", "version", "--short")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if got != version+"\n" {
		t.Errorf("output = %q, want %q", got, version+"\n")
	}
}

func TestCreateCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")

	if _, err := runCLI(t, "", "create", dir, "--template", "minimal"); err != nil {
		t.Fatalf("create error: %v", err)
	}
	for _, rel := range []string{"bemhtml.json", filepath.Join("pages", "index.json")} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	got, err := runCLI(t, "", "render", "-c", filepath.Join(dir, "bemhtml.json"), filepath.Join(dir, "pages", "index.json"))
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.HasPrefix(got, `<div class="page"><h1 class="page__title">docs</h1>`) {
		t.Errorf("output = %q", got)
	}

	_, err = runCLI(t, "", "create", dir)
	if !stderrors.Is(err, errors.New("B140")) {
		t.Errorf("second create error = %v, want B140", err)
	}
}

func TestExplainCommand(t *testing.T) {
	got, err := runCLI(t, "", "explain", "b102")
	if err != nil {
		t.Fatalf("explain error: %v", err)
	}
	if !strings.HasPrefix(got, "B102: Element outside of a block (render)\n\n") {
		t.Errorf("output = %q", got)
	}

	list, err := runCLI(t, "", "explain")
	if err != nil {
		t.Fatalf("explain error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(list), "\n")
	if !strings.HasPrefix(lines[0], "B101  template") {
		t.Errorf("first line = %q, want B101", lines[0])
	}
	if !strings.Contains(list, "B302  publish   Missing bucket") {
		t.Errorf("list missing B302:\n%s", list)
	}

	if _, err := runCLI(t, "", "explain", "B999"); err == nil {
		t.Error("explain B999 should fail")
	}
}

func TestIsValidProjectName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"docs", true},
		{"my-site_2", true},
		{"", false},
		{"..", false},
		{"my site", false},
		{"a/b", false},
	}
	for _, tt := range tests {
		if got := isValidProjectName(tt.name); got != tt.want {
			t.Errorf("isValidProjectName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
