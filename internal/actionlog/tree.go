// ABOUTME: Ordered nested-mapping tree holding timestamps at path leaves
// ABOUTME: Implements set, get, unset and depth-first flattening

package actionlog

import (
	"slices"
	"strings"

	"github.com/2389/coven-throttle/internal/logpath"
)

// Delimiter joins segments and the leaf value in flattened entries.
const Delimiter = "--"

// node is either a leaf holding a timestamp or a branch of children.
type node struct {
	leaf     string
	isLeaf   bool
	keys     []string // children in insertion order
	children map[string]*node
}

func newBranch() *node {
	return &node{children: make(map[string]*node)}
}

func (n *node) put(seg string, child *node) {
	if _, ok := n.children[seg]; !ok {
		n.keys = append(n.keys, seg)
	}
	n.children[seg] = child
}

func (n *node) drop(seg string) {
	if _, ok := n.children[seg]; !ok {
		return
	}
	delete(n.children, seg)
	if i := slices.Index(n.keys, seg); i >= 0 {
		n.keys = slices.Delete(n.keys, i, i+1)
	}
}

// set stores ts at path. Leaves met on the way down become branches.
func (n *node) set(path logpath.Path, ts string) {
	cur := n
	for _, seg := range path[:len(path)-1] {
		child, ok := cur.children[seg]
		if !ok || child.isLeaf {
			child = newBranch()
			cur.put(seg, child)
		}
		cur = child
	}
	cur.put(path.Terminal(), &node{leaf: ts, isLeaf: true})
}

// get returns the leaf at path.
func (n *node) get(path logpath.Path) (string, bool) {
	cur := n
	for _, seg := range path {
		if cur.isLeaf {
			return "", false
		}
		child, ok := cur.children[seg]
		if !ok {
			return "", false
		}
		cur = child
	}
	if !cur.isLeaf {
		return "", false
	}
	return cur.leaf, true
}

// unset removes the value or subtree at path and prunes branches left empty.
// It reports whether anything was removed.
func (n *node) unset(path logpath.Path) bool {
	if len(path) == 0 || n.isLeaf {
		return false
	}
	seg := path[0]
	child, ok := n.children[seg]
	if !ok {
		return false
	}
	if len(path) == 1 {
		n.drop(seg)
		return true
	}
	removed := child.unset(path[1:])
	if removed && !child.isLeaf && len(child.keys) == 0 {
		n.drop(seg)
	}
	return removed
}

// flatten appends one "seg--seg--value" entry per leaf under n.
func (n *node) flatten(prefix []string, out []string) []string {
	for _, key := range n.keys {
		child := n.children[key]
		segs := append(prefix[:len(prefix):len(prefix)], key)
		if child.isLeaf {
			out = append(out, strings.Join(append(segs, child.leaf), Delimiter))
			continue
		}
		out = child.flatten(segs, out)
	}
	return out
}

func (n *node) leaves() int {
	if n.isLeaf {
		return 1
	}
	total := 0
	for _, child := range n.children {
		total += child.leaves()
	}
	return total
}
