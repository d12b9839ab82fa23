package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/palette"
)

const testGML = `graph [
  node [ id 0 label "ABRAMSON, G" ]
  node [ id 1 label "KUPERMAN, M" ]
  node [ id 2 label "ACEBRON, J" ]
  node [ id 3 label "BONILLA, L" ]
  node [ id 4 label "PEREZVICENTE, C" ]
  node [ id 5 label "RITORT, F" ]
  edge [ source 0 target 1 ]
  edge [ source 2 target 3 ]
  edge [ source 3 target 4 ]
  edge [ source 2 target 4 ]
]`

// workspace isolates a command run: its own working directory with a graph
// file, and private cache and config homes.
func workspace(t *testing.T) (dir, input string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Chdir(dir)

	input = filepath.Join(dir, "netscience.gml")
	require.NoError(t, os.WriteFile(input, []byte(testGML), 0644))
	return dir, input
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLayoutCommand(t *testing.T) {
	dir, input := workspace(t)

	_, err := execute(t, "layout", input, "-n", "50", "-q")
	require.NoError(t, err)

	l, err := graph.ReadLayoutFile(filepath.Join(dir, "netscience.layout.json"))
	require.NoError(t, err)
	require.Len(t, l.Nodes, 6)
	assert.Equal(t, "ABRAMSON, G", l.Nodes[0].Label)
	assert.Equal(t, force.DefaultSeed, l.Seed)
	assert.Equal(t, 50, l.Config.Iterations)
	assert.Equal(t, palette.Base[2], l.Nodes[2].Color, "triangle is the largest of three sizes")
	assert.Equal(t, palette.Base[0], l.Nodes[5].Color, "isolated node is the smallest size")

	entries, err := os.ReadDir(filepath.Join(dir, "cache", appName))
	require.NoError(t, err)
	assert.NotEmpty(t, entries, "layout is cached")

	// A second run reuses the cache and yields the same positions.
	out := filepath.Join(dir, "again.json")
	_, err = execute(t, "layout", input, "-n", "50", "-q", "-o", out)
	require.NoError(t, err)
	again, err := graph.ReadLayoutFile(out)
	require.NoError(t, err)
	assert.Equal(t, l.Positions(), again.Positions())
}

func TestLayoutCommandMatchesEngine(t *testing.T) {
	dir, input := workspace(t)

	_, err := execute(t, "layout", input, "-n", "40", "--seed", "7", "--gravity", "0.5", "--no-cache", "-q")
	require.NoError(t, err)

	l, err := graph.ReadLayoutFile(filepath.Join(dir, "netscience.layout.json"))
	require.NoError(t, err)

	g, err := l.Graph()
	require.NoError(t, err)
	cfg := force.DefaultConfig()
	cfg.Iterations = 40
	cfg.Gravity = 0.5
	want, err := force.Layout(context.Background(), g.Adjacency, nil, cfg, force.WithSeed(7))
	require.NoError(t, err)
	assert.Equal(t, want, l.Positions())
}

func TestLayoutCommandInit(t *testing.T) {
	dir, input := workspace(t)

	initPath := filepath.Join(dir, "init.json")
	require.NoError(t, os.WriteFile(initPath, []byte(`[[0,0],[1,0],[0,1],[1,1],[2,2],[3,3]]`), 0644))

	_, err := execute(t, "layout", input, "-n", "10", "--init", initPath, "--seed", "1", "-q", "-o", "a.json")
	require.NoError(t, err)
	_, err = execute(t, "layout", input, "-n", "10", "--init", initPath, "--seed", "2", "-q", "-o", "b.json", "--no-cache")
	require.NoError(t, err)

	a, err := graph.ReadLayoutFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	b, err := graph.ReadLayoutFile(filepath.Join(dir, "b.json"))
	require.NoError(t, err)
	assert.Equal(t, a.Positions(), b.Positions(), "explicit positions ignore the seed")

	require.NoError(t, os.WriteFile(initPath, []byte(`[[0,0]]`), 0644))
	_, err = execute(t, "layout", input, "--init", initPath, "-q")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "error: %v", err)
}

func TestLayoutCommandConfigFile(t *testing.T) {
	dir, input := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forcelayout.toml"), []byte(`
[layout]
iterations = 30
seed = 9

[cache]
backend = "none"
`), 0644))

	_, err := execute(t, "layout", input, "-q")
	require.NoError(t, err)
	l, err := graph.ReadLayoutFile(filepath.Join(dir, "netscience.layout.json"))
	require.NoError(t, err)
	assert.Equal(t, 30, l.Config.Iterations)
	assert.Equal(t, int64(9), l.Seed)

	_, err = os.Stat(filepath.Join(dir, "cache", appName))
	assert.True(t, os.IsNotExist(err), "backend none writes no cache")

	// Explicit flags win over the file.
	_, err = execute(t, "layout", input, "-q", "-n", "20")
	require.NoError(t, err)
	l, err = graph.ReadLayoutFile(filepath.Join(dir, "netscience.layout.json"))
	require.NoError(t, err)
	assert.Equal(t, 20, l.Config.Iterations)
	assert.Equal(t, int64(9), l.Seed)
}

func TestLayoutCommandErrors(t *testing.T) {
	dir, input := workspace(t)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"NegativeArea", []string{"layout", input, "--area", "-1"}, errors.ErrCodeConfiguration},
		{"ZeroIterations", []string{"layout", input, "-n", "0"}, errors.ErrCodeConfiguration},
		{"MissingFile", []string{"layout", filepath.Join(dir, "missing.gml")}, errors.ErrCodeFileNotFound},
		{"BadConfig", []string{"layout", input, "--config", filepath.Join(dir, "missing.toml")}, errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
		})
	}

	_, err := execute(t, "layout")
	assert.Error(t, err, "graph argument is required")
}

func TestRenderCommand(t *testing.T) {
	dir, input := workspace(t)

	_, err := execute(t, "render", input, "-f", "svg,dot,json", "-n", "50", "-q", "--width", "400", "--height", "300")
	require.NoError(t, err)

	svg, err := os.ReadFile(filepath.Join(dir, "netscience.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(svg), `width="400"`)
	assert.Contains(t, string(svg), "RITORT, F")

	dot, err := os.ReadFile(filepath.Join(dir, "netscience.dot"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(dot), "graph G {"))

	l, err := graph.ReadLayoutFile(filepath.Join(dir, "netscience.layout.json"))
	require.NoError(t, err)
	assert.Len(t, l.Nodes, 6)

	t.Run("FromLayoutFile", func(t *testing.T) {
		out := filepath.Join(dir, "from-layout.svg")
		_, err := execute(t, "render", filepath.Join(dir, "netscience.layout.json"), "-o", out, "--width", "400", "--height", "300")
		require.NoError(t, err)
		got, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, svg, got, "stored positions draw the same picture")
	})

	t.Run("InvalidFormat", func(t *testing.T) {
		_, err := execute(t, "render", input, "-f", "gif", "-q")
		assert.Error(t, err)
	})

	t.Run("InvalidSize", func(t *testing.T) {
		_, err := execute(t, "render", input, "--width", "0", "-q")
		assert.Error(t, err)
	})
}

func TestRenderCommandMetrics(t *testing.T) {
	dir, input := workspace(t)
	metrics := filepath.Join(dir, "forcelayout.prom")

	_, err := execute(t, "render", input, "-n", "20", "-q", "--metrics-file", metrics)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "forcelayout_layouts_total")
	assert.Contains(t, string(data), `forcelayout_renders_total{format="svg",result="ok"} 1`)
}

func TestComponentRows(t *testing.T) {
	g := graph.New([]string{"a", "b", "c", "d", "e", "f", "g"})
	g.AddEdge(0, 1)
	g.AddEdge(2, 3)
	g.AddEdge(4, 5)
	g.AddEdge(5, 6)

	rows := componentRows(g.Adjacency)
	assert.Equal(t, []componentRow{
		{Size: 2, Count: 2, Color: palette.Base[0]},
		{Size: 3, Count: 1, Color: palette.Base[1]},
	}, rows)
}

func TestComponentsCommandJSON(t *testing.T) {
	_, input := workspace(t)

	out, err := execute(t, "components", input, "--json")
	require.NoError(t, err)

	var rows []componentRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, []componentRow{
		{Size: 1, Count: 1, Color: palette.Base[0]},
		{Size: 2, Count: 1, Color: palette.Base[1]},
		{Size: 3, Count: 1, Color: palette.Base[2]},
	}, rows)
}

func TestCacheCommands(t *testing.T) {
	dir, input := workspace(t)

	_, err := execute(t, "layout", input, "-n", "10", "-q")
	require.NoError(t, err)

	cacheRoot := filepath.Join(dir, "cache", appName)
	entries, err := os.ReadDir(cacheRoot)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	_, err = execute(t, "cache", "clear")
	require.NoError(t, err)

	var files int
	require.NoError(t, filepath.Walk(cacheRoot, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files++
		}
		return err
	}))
	assert.Zero(t, files)

	_, err = execute(t, "cache", "path")
	assert.NoError(t, err)
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, appName)

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}
