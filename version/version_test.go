package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	i := Info{CommitHash: "0123456789abcdef", BuildTime: "2024-08-01", Version: "v0.3.0", Platform: "linux/amd64"}

	assert.Equal(t, "0123456", i.Short())
	assert.Equal(t, "paddock v0.3.0 (commit 0123456, built 2024-08-01, linux/amd64)", i.String())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestUserAgent(t *testing.T) {
	assert.Contains(t, UserAgent(), "paddock/"+Version)
}
