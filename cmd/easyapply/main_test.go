package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/amp-labs/easyapply/build"
	"github.com/amp-labs/easyapply/envutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer

	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.ExecuteContext(ctx)

	return stdout.String(), err
}

//nolint:paralleltest // Commands configure the global logger
func TestGraph(t *testing.T) {
	out, err := execute(t.Context(), "graph", "--direction", "LR", "--no-jumps")
	require.NoError(t, err)

	assert.Contains(t, out, "direction LR")
	assert.Contains(t, out, "Info --> Upload")
	assert.NotContains(t, out, "jump")
}

//nolint:paralleltest // Commands configure the global logger
func TestValidate(t *testing.T) {
	out, err := execute(t.Context(), "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "UNREACHABLE_STATE")

	_, err = execute(t.Context(), "validate", "--strict")
	require.ErrorIs(t, err, errInvalidTable)
}

//nolint:paralleltest // Commands configure the global logger
func TestVersion(t *testing.T) {
	out, err := execute(t.Context(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, appName+" "), out)

	out, err = execute(t.Context(), "version", "--json")
	require.NoError(t, err)

	var info build.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info.Version)
	assert.Nil(t, info.Dependencies)
}

//nolint:paralleltest // Commands configure the global logger and signal handler
func TestRunSubmitsSnapshot(t *testing.T) {
	ctx := t.Context()
	for key, value := range map[string]string{
		"EASYAPPLY_PACING_MIN":        "0",
		"EASYAPPLY_PACING_MAX":        "0",
		"EASYAPPLY_INTERACTION_DELAY": "0",
		"EASYAPPLY_UPLOAD_PAUSE_MIN":  "0",
		"EASYAPPLY_UPLOAD_PAUSE_MAX":  "0",
		"EASYAPPLY_CLICK_TIMEOUT":     "50ms",
	} {
		ctx = envutil.WithEnvOverride(ctx, key, value)
	}

	out, err := execute(ctx, "run", "--site", "../../probe/htmldoc/testdata/site")
	require.NoError(t, err)
	assert.Contains(t, out, "Submitted on done.html after 0 recoveries")

	out, err = execute(ctx, "run", "--site", "../../probe/htmldoc/testdata/site", "--start", "invalid.html")
	require.Error(t, err)
	assert.Contains(t, out, "Suspended")
}

//nolint:paralleltest // Commands configure the global logger
func TestRunRequiresSite(t *testing.T) {
	_, err := execute(t.Context(), "run")
	require.Error(t, err)
}

func TestResolveMetricsAddr(t *testing.T) {
	t.Parallel()

	ctx := envutil.WithEnvOverride(t.Context(), "EASYAPPLY_METRICS_ADDR", "127.0.0.1:2112")

	addr, err := resolveMetricsAddr(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:2112", addr.String())

	addr, err = resolveMetricsAddr(ctx, ":9090")
	require.NoError(t, err)
	assert.Equal(t, ":9090", addr.String())

	_, err = resolveMetricsAddr(ctx, "9090")
	require.Error(t, err)

	addr, err = resolveMetricsAddr(envutil.WithEnvOverride(t.Context(), "EASYAPPLY_METRICS_ADDR", ""), "")
	require.NoError(t, err)
	assert.True(t, addr.IsZero(), "a blank value disables the server")
}
