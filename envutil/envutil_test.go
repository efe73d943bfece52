package envutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amp-labs/easyapply/envtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Parallel()

	ctx := WithEnvOverride(t.Context(), "EASYAPPLY_TEST_STRING", "hello")

	val, err := String(ctx, "EASYAPPLY_TEST_STRING").Value()
	require.NoError(t, err)
	assert.Equal(t, "hello", val)

	_, err = String(t.Context(), "EASYAPPLY_TEST_STRING_MISSING").Value()
	require.ErrorIs(t, err, ErrEnvVarMissing)

	val = String(t.Context(), "EASYAPPLY_TEST_STRING_MISSING", Default("fallback")).ValueOrFatal()
	assert.Equal(t, "fallback", val)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	ctx := WithEnvOverride(t.Context(), "EASYAPPLY_TEST_SET", "12")
	ctx = WithEnvOverride(ctx, "EASYAPPLY_TEST_BAD", "twelve")

	n, err := Int(ctx, "EASYAPPLY_TEST_SET", Default(3)).Value()
	require.NoError(t, err)
	assert.Equal(t, 12, n, "a set variable wins over the default")

	n, err = Int(ctx, "EASYAPPLY_TEST_UNSET", Default(3)).Value()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = Int(ctx, "EASYAPPLY_TEST_BAD", Default(3)).Value()
	require.ErrorIs(t, err, ErrBadEnvVar, "the default does not hide a parse error")

	_, err = Int(ctx, "EASYAPPLY_TEST_UNSET", Default(-1), Validate(Positive[int])).Value()
	require.ErrorIs(t, err, ErrNotPositive, "defaults are validated too")
}

func TestTypedReaders(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	ctx = WithEnvOverride(ctx, "B", "true")
	ctx = WithEnvOverride(ctx, "I", " 40 ")
	ctx = WithEnvOverride(ctx, "F", "2.5")
	ctx = WithEnvOverride(ctx, "D1", "4.1s")
	ctx = WithEnvOverride(ctx, "D2", "30")
	ctx = WithEnvOverride(ctx, "L", "WARN")
	ctx = WithEnvOverride(ctx, "BAD", "nope")
	ctx = WithEnvOverride(ctx, "ADDR", " 127.0.0.1:2112 ")

	b, err := Bool(ctx, "B").Value()
	require.NoError(t, err)
	assert.True(t, b)

	i, err := Int(ctx, "I").Value()
	require.NoError(t, err)
	assert.Equal(t, 40, i)

	f, err := Float64(ctx, "F").Value()
	require.NoError(t, err)
	assert.InDelta(t, 2.5, f, 0)

	d, err := Duration(ctx, "D1").Value()
	require.NoError(t, err)
	assert.Equal(t, 4100*time.Millisecond, d)

	d, err = Duration(ctx, "D2").Value()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	lvl, err := SlogLevel(ctx, "L").Value()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	addr, err := HostAndPort(ctx, "ADDR").Value()
	require.NoError(t, err)
	assert.Equal(t, envtypes.HostPort{Host: "127.0.0.1", Port: 2112}, addr)

	_, err = HostAndPort(ctx, "BAD").Value()
	require.ErrorIs(t, err, envtypes.ErrBadHostAndPort)

	_, err = Int(ctx, "BAD").Value()
	require.ErrorIs(t, err, ErrBadEnvVar)

	assert.Equal(t, 7, Int(ctx, "BAD").ValueOrElse(7))
	assert.Equal(t, 7, Int(ctx, "UNSET").ValueOrElse(7))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	ctx := WithEnvOverride(t.Context(), "N", "-1")

	_, err := Int(ctx, "N", Validate(NonNegative[int])).Value()
	require.ErrorIs(t, err, ErrNegativeNumber)

	ctx = WithEnvOverride(ctx, "N", "0")

	_, err = Int(ctx, "N", Validate(NonNegative[int])).Value()
	require.NoError(t, err)

	_, err = Int(ctx, "N", Validate(Positive[int])).Value()
	require.ErrorIs(t, err, ErrNotPositive)
}

func TestFilePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF"), 0o600))

	path, err := FilePath(WithEnvOverride(t.Context(), "P", file), "P").Value()
	require.NoError(t, err)
	assert.Equal(t, file, path)

	_, err = FilePath(WithEnvOverride(t.Context(), "P", dir), "P").Value()
	require.ErrorIs(t, err, ErrNotAFile)

	_, err = FilePath(WithEnvOverride(t.Context(), "P", filepath.Join(dir, "missing")), "P").Value()
	require.ErrorIs(t, err, os.ErrNotExist)
}
