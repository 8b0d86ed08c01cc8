package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "dev", RawVersion())
	assert.True(t, strings.HasPrefix(Version(), "dev"))
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.Equal(t, RawVersion(), info.Version)
	assert.Equal(t, runtime.GOOS, info.Platform.OS)
	assert.Equal(t, runtime.GOARCH, info.Platform.Arch)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.LessOrEqual(t, len(info.GitCommit), 12)
}
