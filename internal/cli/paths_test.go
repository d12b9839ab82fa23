package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/forcelayout/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir(config.Cache{})
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir(config.Cache{})
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheDirConfigured(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir, err := cacheDir(config.Cache{Dir: "/srv/layouts"})
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/srv/layouts" {
		t.Errorf("cacheDir() = %q, want configured dir", dir)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/netscience.gml", "data/netscience"},
		{"", "graph.json", "graph"},
		{"out/net.svg", "netscience.gml", "out/net"},
		{"out/net.png", "netscience.gml", "out/net"},
		{"out/net", "netscience.gml", "out/net"},
		{"out/net.v2", "netscience.gml", "out/net.v2"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths("", "graph.json", []string{"svg", "json", "dot"})
	want := map[string]string{
		"svg":  "graph.svg",
		"json": "graph.layout.json",
		"dot":  "graph.dot",
	}
	for f, p := range want {
		if got[f] != p {
			t.Errorf("outputPaths()[%q] = %q, want %q", f, got[f], p)
		}
	}

	single := outputPaths("figure.svg", "graph.gml", []string{"svg"})
	if single["svg"] != "figure.svg" {
		t.Errorf("single format should use output verbatim, got %q", single["svg"])
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "svg"},
		{"svg", "svg"},
		{"svg,pdf,png", "svg|pdf|png"},
		{" svg , dot ,", "svg|dot"},
	}

	for _, tt := range tests {
		if got := strings.Join(parseFormats(tt.input), "|"); got != tt.want {
			t.Errorf("parseFormats(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsLayoutFile(t *testing.T) {
	if !isLayoutFile("out/netscience.layout.json") {
		t.Error("layout JSON should be recognized")
	}
	if isLayoutFile("graph.json") {
		t.Error("plain JSON graph is not a layout file")
	}
}
