package provision

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"acme", "acme-corp", "demo_acme_0189f7a0", "A1-b2_C3"}
	for _, name := range valid {
		assert.NoError(t, ValidateIdentifier(name), "expected %q to pass", name)
	}

	invalid := []string{
		"",
		"acme corp",
		"acme;drop",
		"acme`",
		"../etc",
		"a/b",
		"acme.corp",
		"demo' OR '1'='1",
		strings.Repeat("a", 65),
	}
	for _, name := range invalid {
		assert.Error(t, ValidateIdentifier(name), "expected %q to fail", name)
	}
}

func TestContainedPath(t *testing.T) {
	base := t.TempDir()

	t.Run("joins validated segments", func(t *testing.T) {
		path, err := ContainedPath(base, "acme", "instance.env")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "acme", "instance.env"), path)
	})

	t.Run("rejects traversal segments", func(t *testing.T) {
		_, err := ContainedPath(base, "..")
		assert.Error(t, err)

		_, err = ContainedPath(base, "../other")
		assert.Error(t, err)

		_, err = ContainedPath(base, "acme/../..")
		assert.Error(t, err)
	})

	t.Run("rejects absolute segments", func(t *testing.T) {
		_, err := ContainedPath(base, "/etc/passwd")
		assert.Error(t, err)
	})
}
