package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/pfind/pfind/internal/config"
)

func parseArgs(t *testing.T, args ...string) (*config.Options, error) {
	t.Helper()

	opts := config.NewOptions()

	var out bytes.Buffer

	app := newApp(opts, &out, &out, func(*cli.Context) error { return nil })

	err := app.Run(append([]string{"pfind"}, args...))

	return opts, err
}

func TestApp_BindsFlagsAndPositionals(t *testing.T) {
	t.Parallel()

	opts, err := parseArgs(t, "-e", "size>1K", "-t", "7", "--print0", "/a", "/b")
	require.NoError(t, err)

	assert.Equal(t, "size>1K", opts.Expression)
	assert.Equal(t, 7, opts.Threads)
	assert.True(t, opts.Print0)
	assert.Equal(t, []string{"/a", "/b"}, opts.Roots)
}

func TestApp_ExpressionIsRequired(t *testing.T) {
	t.Parallel()

	_, err := parseArgs(t)
	require.Error(t, err)
}

func TestApp_WalkerOverridesStayNilUnlessSet(t *testing.T) {
	t.Parallel()

	opts, err := parseArgs(t, "-e", "depth=1")
	require.NoError(t, err)

	assert.Nil(t, opts.IgnoreHidden)
	assert.Nil(t, opts.ReadGitIgnore)
	assert.Nil(t, opts.SameFilesystem)
}

func TestApp_WalkerOverridesBindWhenSet(t *testing.T) {
	t.Parallel()

	opts, err := parseArgs(t, "-e", "depth=1", "--ignore-hidden", "--read-git-ignore=false")
	require.NoError(t, err)

	require.NotNil(t, opts.IgnoreHidden)
	assert.True(t, *opts.IgnoreHidden)

	require.NotNil(t, opts.ReadGitIgnore)
	assert.False(t, *opts.ReadGitIgnore)
}

func TestApp_AllEnablesStandardFilters(t *testing.T) {
	t.Parallel()

	opts, err := parseArgs(t, "-e", "depth=1", "-a")
	require.NoError(t, err)

	assert.True(t, opts.AllStandardFilters)
}

func TestApp_DefaultRootIsCwd(t *testing.T) {
	t.Parallel()

	opts, err := parseArgs(t, "-e", "depth=1")
	require.NoError(t, err)

	assert.Equal(t, []string{"."}, opts.Roots)
}
