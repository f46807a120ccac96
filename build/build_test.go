package build_test

import (
	"runtime/debug"
	"testing"

	"github.com/amp-labs/amp-flat/build"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidJSON(t *testing.T) {
	t.Parallel()

	js := `{
		"version": "v0.3.0",
		"git_commit": "abc123",
		"build_time": "2025-10-05T12:00:00Z",
		"go_version": "go1.25.5",
		"dependencies": {
			"github.com/example/pkg": "v1.2.3"
		}
	}`

	info, ok := build.Parse(js)

	require.True(t, ok)
	assert.Equal(t, "v0.3.0", info.Version)
	assert.Equal(t, "abc123", info.GitCommit)
	assert.Equal(t, "2025-10-05T12:00:00Z", info.BuildTime)
	assert.Equal(t, "go1.25.5", info.GoVersion)
	assert.Equal(t, map[string]string{"github.com/example/pkg": "v1.2.3"}, info.Dependencies)
}

func TestParse_Rejected(t *testing.T) {
	t.Parallel()

	for _, js := range []string{"", "{}", "not valid json"} {
		info, ok := build.Parse(js)

		assert.False(t, ok, js)
		assert.Nil(t, info, js)
	}
}

func TestFromBuildInfo(t *testing.T) {
	t.Parallel()

	bi := &debug.BuildInfo{
		GoVersion: "go1.25.1",
		Main:      debug.Module{Path: "github.com/amp-labs/amp-flat", Version: "v1.0.0"},
		Deps: []*debug.Module{
			{Path: "github.com/zeebo/xxh3", Version: "v1.0.2"},
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2025-01-01T00:00:00Z"},
			{Key: "GOOS", Value: "linux"},
		},
	}

	info := build.FromBuildInfo(bi)

	assert.Equal(t, &build.Info{
		Version:      "v1.0.0",
		GitCommit:    "deadbeef",
		BuildTime:    "2025-01-01T00:00:00Z",
		GoVersion:    "go1.25.1",
		Dependencies: map[string]string{"github.com/zeebo/xxh3": "v1.0.2"},
	}, info)
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	info := build.Current(`{"version":"v9.9.9"}`)
	assert.Equal(t, "v9.9.9", info.Version)

	assert.NotNil(t, build.Current(""))
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	info := &build.Info{
		GitCommit: "abc",
		Dependencies: map[string]string{
			"b.example/two": "v2",
			"a.example/one": "v1",
		},
	}

	assert.Equal(t,
		"version:    (devel)\n"+
			"commit:     abc\n"+
			"dependency: a.example/one v1\n"+
			"dependency: b.example/two v2\n",
		info.String())
}
