package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordPool_PickStaysInPool(t *testing.T) {
	t.Parallel()
	pool, err := NewWordPool([]string{"casa", "perro", "sol"})
	require.NoError(t, err)

	allowed := map[string]bool{"casa": true, "perro": true, "sol": true}
	for i := 0; i < 50; i++ {
		assert.True(t, allowed[pool.Pick()])
	}
}

func TestWordPool_SingleWordAllowsRepeats(t *testing.T) {
	t.Parallel()
	pool, err := NewWordPool([]string{"casa"})
	require.NoError(t, err)

	assert.Equal(t, "casa", pool.Pick())
	assert.Equal(t, "casa", pool.Pick())
}

func TestNewWordPool_Empty(t *testing.T) {
	t.Parallel()
	_, err := NewWordPool(nil)
	assert.Error(t, err)
}

func TestLoadWordsFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("casa\n\nperro\nsol\n"), 0o600))

	words, err := LoadWordsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"casa", "perro", "sol"}, words)
}

func TestLoadWordsFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := LoadWordsFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestDefaultWords_NotEmpty(t *testing.T) {
	t.Parallel()
	assert.NotEmpty(t, DefaultWords())
}
