package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolved_PrefersLinkedValues(t *testing.T) {
	oldV, oldC := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = oldV, oldC })

	Version, GitCommit = "v1.2.3", "abc123"
	v, c := Resolved()
	assert.Equal(t, "v1.2.3", v)
	assert.Equal(t, "abc123", c)
	assert.Equal(t, "v1.2.3 (commit abc123, built "+BuildTime+")", String())
}

func TestResolved_NeverEmpty(t *testing.T) {
	v, c := Resolved()
	assert.NotEmpty(t, v)
	assert.NotEmpty(t, c)
}
