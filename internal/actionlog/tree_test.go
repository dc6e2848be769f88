// ABOUTME: Tests for the ordered path tree
// ABOUTME: Covers overwrite semantics, pruning and flatten order

package actionlog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/2389/coven-throttle/internal/logpath"
)

func TestTree_SetReplacesSubtreeWithLeaf(t *testing.T) {
	root := newBranch()
	root.set(logpath.Path{"A", "B", "C"}, "t1")
	root.set(logpath.Path{"A", "B"}, "t2")

	ts, ok := root.get(logpath.Path{"A", "B"})
	assert.True(t, ok)
	assert.Equal(t, "t2", ts)

	_, ok = root.get(logpath.Path{"A", "B", "C"})
	assert.False(t, ok)
}

func TestTree_SetReplacesLeafWithSubtree(t *testing.T) {
	root := newBranch()
	root.set(logpath.Path{"A", "B"}, "t1")
	root.set(logpath.Path{"A", "B", "C"}, "t2")

	_, ok := root.get(logpath.Path{"A", "B"})
	assert.False(t, ok, "a branch is not a leaf")

	ts, ok := root.get(logpath.Path{"A", "B", "C"})
	assert.True(t, ok)
	assert.Equal(t, "t2", ts)
}

func TestTree_FlattenInsertionOrder(t *testing.T) {
	root := newBranch()
	root.set(logpath.Path{"Z", "GLOBAL", "REQUEST"}, "t1")
	root.set(logpath.Path{"A", "GLOBAL", "REQUEST"}, "t2")
	root.set(logpath.Path{"Z", "GLOBAL", "REQUEST"}, "t3")

	assert.Equal(t, []string{
		"Z--GLOBAL--REQUEST--t3",
		"A--GLOBAL--REQUEST--t2",
	}, root.flatten(nil, nil))
}

func TestTree_UnsetPrunesEmptyBranches(t *testing.T) {
	root := newBranch()
	root.set(logpath.Path{"A", "ID_1", "REQUEST"}, "t1")
	root.set(logpath.Path{"B", "ID_1", "REQUEST"}, "t2")

	assert.True(t, root.unset(logpath.Path{"A", "ID_1", "REQUEST"}))
	assert.Equal(t, []string{"B"}, root.keys)
	assert.False(t, root.unset(logpath.Path{"A", "ID_1", "REQUEST"}))
	assert.False(t, root.unset(logpath.Path{"B", "ID_1", "REQUEST", "DEEPER"}))
	assert.Equal(t, 1, root.leaves())
}
