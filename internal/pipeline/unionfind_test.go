package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionFindMinimumIDRepresentative(t *testing.T) {
	uf := newUnionFind(5)
	uf.union(3, 1)
	uf.union(4, 1)

	assert.Equal(t, 1, uf.find(3))
	assert.Equal(t, 1, uf.find(4))
	assert.Equal(t, 0, uf.find(0), "untouched singleton should remain its own representative")
}

func TestUnionFindTransitiveMerge(t *testing.T) {
	uf := newUnionFind(4)
	uf.union(0, 1)
	uf.union(2, 3)
	uf.union(1, 2)

	root := uf.find(0)
	for i := 1; i < 4; i++ {
		assert.Equal(t, root, uf.find(i), "expected all of 0..3 to share a root")
	}
}
