package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScratchLifecycle(t *testing.T) {
	scratch, err := NewScratch()
	require.NoError(t, err)

	info, err := os.Stat(scratch.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	f, err := scratch.CreateFile("in")
	require.NoError(t, err)
	_, err = f.WriteString("%PDF-1.4\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	scratch.Cleanup()
	_, err = os.Stat(scratch.Dir())
	assert.True(t, os.IsNotExist(err), "cleanup must remove the whole directory")
}

func TestScratchFilePathsDoNotCollide(t *testing.T) {
	scratch, err := NewScratch()
	require.NoError(t, err)
	defer scratch.Cleanup()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		p := scratch.FilePath("in")
		assert.False(t, seen[p])
		seen[p] = true

		assert.Equal(t, scratch.Dir(), filepath.Dir(p))
		assert.True(t, strings.HasPrefix(filepath.Base(p), "in_"))
		assert.True(t, strings.HasSuffix(p, ".pdf"))
	}
}

func TestScratchCleanupIsIdempotent(t *testing.T) {
	scratch, err := NewScratch()
	require.NoError(t, err)

	scratch.Cleanup()
	scratch.Cleanup()
}
