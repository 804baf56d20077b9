package walker

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// testdataDir returns the absolute path to the testdata/site directory.
func testdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	root := filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "site")
	abs, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("resolve testdata path: %v", err)
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		t.Fatalf("testdata dir does not exist: %s", abs)
	}
	return abs
}

func TestWalk_FindsPages(t *testing.T) {
	pages, err := Walk(Config{RootDir: testdataDir(t)})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	want := []string{"/home/index.html", "/login/index.html", "/talk/index.html"}
	if len(pages) != len(want) {
		t.Fatalf("Walk() returned %d pages, want %d: %+v", len(pages), len(want), pages)
	}
	for i, p := range pages {
		if p.URLPath != want[i] {
			t.Errorf("pages[%d].URLPath = %q, want %q", i, p.URLPath, want[i])
		}
		if !filepath.IsAbs(p.Path) {
			t.Errorf("pages[%d].Path = %q, want absolute", i, p.Path)
		}
	}
}

func TestWalk_Exclude(t *testing.T) {
	pages, err := Walk(Config{RootDir: testdataDir(t), Exclude: []string{"login/**"}})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	for _, p := range pages {
		if p.RelPath == "login/index.html" {
			t.Errorf("excluded page %q was returned", p.RelPath)
		}
	}
	if len(pages) != 2 {
		t.Errorf("Walk() returned %d pages, want 2", len(pages))
	}
}

func TestWalk_SkipsExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"index.html", "node_modules/pkg/index.html", ".git/index.html"} {
		path := filepath.Join(dir, rel)
		os.MkdirAll(filepath.Dir(path), 0o755)
		os.WriteFile(path, []byte("<html></html>"), 0o644)
	}

	pages, err := Walk(Config{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if len(pages) != 1 || pages[0].URLPath != "/index.html" {
		t.Errorf("Walk() = %+v, want only /index.html", pages)
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	if _, err := Walk(Config{RootDir: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestMatchesInclude(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"talk/index.html", nil, true},
		{"index.html", nil, true},
		{"assets/site.css", nil, false},
		{"talk/index.html", []string{"talk/*.html"}, true},
		{"home/index.html", []string{"talk/*.html"}, false},
		{"deep/a/b/page.html", []string{"*.html"}, true},
	}
	for _, tt := range tests {
		if got := MatchesInclude(tt.path, tt.patterns); got != tt.want {
			t.Errorf("MatchesInclude(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
}
