package server

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestStaticRelPath(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/static/main.css", "main.css", true},
		{"/static/css/main.css", "css/main.css", true},
		{"/static/", "", false},
		{"/static/../secret", "", false},
		{"/static/a/./b", "", false},
		{"/static//etc/passwd", "", false},
		{"/static/a\\b", "", false},
		{"/static/a\x00b", "", false},
		{"/other/main.css", "", false},
	}
	for _, tt := range tests {
		got, ok := staticRelPath(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("staticRelPath(%q) = (%q, %v), want (%q, %v)", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestIsFingerprinted(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"app.a1b2c3d4.css", true},
		{"css/app.A1B2C3D4E5.css", true},
		{"app.css", false},
		{"app.min.css", false},
		{"app.a1b2c3dz.css", false},
	}
	for _, tt := range tests {
		if got := isFingerprinted(tt.path); got != tt.want {
			t.Errorf("isFingerprinted(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.css"), ".page{}")
	writeFile(t, filepath.Join(dir, "app.0123abcd.css"), ".app{}")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := newTestServer(t, &Config{StaticDir: dir})

	tests := []struct {
		path         string
		wantStatus   int
		wantBody     string
		wantCacheCtl string
	}{
		{"/static/main.css", http.StatusOK, ".page{}", "public, max-age=3600, must-revalidate"},
		{"/static/app.0123abcd.css", http.StatusOK, ".app{}", "public, max-age=31536000, immutable"},
		{"/static/sub", http.StatusNotFound, "", ""},
		{"/static/missing.css", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := doRequest(s, "GET", tt.path, "", nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if got := rec.Header().Get("Cache-Control"); got != tt.wantCacheCtl {
				t.Errorf("Cache-Control = %q, want %q", got, tt.wantCacheCtl)
			}
		})
	}
}

func TestStaticNoCacheUnderReload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.css"), ".page{}")
	s := newTestServer(t, &Config{StaticDir: dir, Reloader: fakeReloader{}})

	rec := doRequest(s, "GET", "/static/main.css", "", nil)
	if got := rec.Header().Get("Cache-Control"); got != "no-store, no-cache, must-revalidate" {
		t.Errorf("Cache-Control = %q", got)
	}
}
