package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesMatchingFindsGlobMatches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.trailnet.tmp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.trailnet.tmp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644))

	matches, err := filesMatching(filepath.Join(dir, "*.trailnet.tmp"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestFilesMatchingEmptyWhenNoMatches(t *testing.T) {
	dir := t.TempDir()
	matches, err := filesMatching(filepath.Join(dir, "*.nope"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFilesMatchingRejectsMalformedPattern(t *testing.T) {
	_, err := filesMatching("[")
	assert.Error(t, err)
}
