package cmd_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-ioc/cmd"
	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/routing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	envFile := filepath.Join(t.TempDir(), "missing.env")

	root := cmd.NewRootCommand()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(append(args, "--env-file", envFile))

	err := root.Execute()
	return out.String(), err
}

func TestGraph_YAML(t *testing.T) {
	out, err := run(t, "graph")
	require.NoError(t, err)

	var nodes []container.GraphNode
	require.NoError(t, yaml.Unmarshal([]byte(out), &nodes))

	byKey := make(map[string]container.GraphNode, len(nodes))
	for _, n := range nodes {
		byKey[n.Key] = n
	}

	require.Contains(t, byKey, "app.CatsRepository")
	assert.Equal(t, "singleton", byKey["app.CatsRepository"].Lifetime)
	assert.Equal(t, "scoped", byKey["*app.RequestContext"].Lifetime)
	assert.Equal(t, "transient", byKey["*app.CatsController"].Lifetime)

	var targets []string
	for _, edge := range byKey["*app.CatsController"].Dependencies {
		targets = append(targets, edge.Target)
	}
	assert.ElementsMatch(t, []string{
		"*app.GetCatHandler",
		"app.CatsRepository",
		"*app.RequestContext",
		"*http.Request",
	}, targets)
}

func TestGraph_Text(t *testing.T) {
	out, err := run(t, "graph", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "*app.CatsController (transient, type)")
	assert.Contains(t, out, "-> *app.GetCatHandler")
}

func TestGraph_UnknownFormat(t *testing.T) {
	_, err := run(t, "graph", "--format", "dot")
	assert.ErrorContains(t, err, `unknown format "dot"`)
}

func TestRoutes(t *testing.T) {
	out, err := run(t, "routes")
	require.NoError(t, err)

	assert.Contains(t, out, "METHOD")
	assert.Contains(t, out, "/api/cats/{id}")
	assert.Contains(t, out, "/api/whoami")
}

func TestRoutes_YAML(t *testing.T) {
	out, err := run(t, "routes", "--yaml")
	require.NoError(t, err)

	var routes []routing.Route
	require.NoError(t, yaml.Unmarshal([]byte(out), &routes))
	assert.Contains(t, routes, routing.Route{Method: "DELETE", Pattern: "/api/cats/{id}"})
}

func TestVersion(t *testing.T) {
	cmd.SetVersion("1.2.3")
	t.Cleanup(func() { cmd.SetVersion("dev") })

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "go-ioc version 1.2.3")
}

func TestUnknownCommand(t *testing.T) {
	_, err := run(t, "nope")
	assert.Error(t, err)
}
