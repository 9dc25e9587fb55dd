// Package cull provides a depth-bounded quadtree for spatial culling.
//
// The tree indexes identifiers by their bounding rectangles in a map's
// local coordinate system. Lookups return every identifier whose
// rectangle overlaps a query rectangle, so a renderer can skip objects
// that cannot be visible.
//
// A Tree is not safe for concurrent use. Scene state is mutated from a
// single goroutine, so the tree does not carry its own lock.
package cull

import (
	"fmt"

	"github.com/gogpu/globe/geo"
)

// DefaultMaxDepth bounds subdivision when no depth is configured.
const DefaultMaxDepth = 4

// Tree is a depth-bounded quadtree over a fixed local extent.
//
// Items whose rectangles are invalid, or that span multiple children,
// stay at the shallowest node that contains them. An item inserted
// twice moves to its new rectangle.
type Tree[K comparable] struct {
	coordSys geo.CoordSystem
	root     *node[K]
	maxDepth int

	// items maps each key to the node holding it, for O(1) removal.
	items map[K]*node[K]
	mbrs  map[K]geo.Mbr
}

type node[K comparable] struct {
	mbr      geo.Mbr
	depth    int
	children [4]*node[K]
	members  map[K]struct{}
}

// New creates a tree over localMbr subdividing at most maxDepth levels.
// A maxDepth of zero or less falls back to DefaultMaxDepth.
func New[K comparable](coordSys geo.CoordSystem, localMbr geo.Mbr, maxDepth int) *Tree[K] {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Tree[K]{
		coordSys: coordSys,
		root:     &node[K]{mbr: localMbr, members: make(map[K]struct{})},
		maxDepth: maxDepth,
		items:    make(map[K]*node[K]),
		mbrs:     make(map[K]geo.Mbr),
	}
}

// CoordSystem returns the coordinate system the tree's extent lives in.
func (t *Tree[K]) CoordSystem() geo.CoordSystem { return t.coordSys }

// Insert places id at the deepest node whose bounds contain mbr.
// Re-inserting an existing id relocates it. Invalid rectangles, and
// rectangles outside the tree's extent, land in the root node.
func (t *Tree[K]) Insert(id K, mbr geo.Mbr) {
	if _, ok := t.items[id]; ok {
		t.Remove(id)
	}

	n := t.root
	if mbr.Valid() && mbr.Inside(t.root.mbr) {
		n = t.descend(t.root, mbr)
	}
	n.members[id] = struct{}{}
	t.items[id] = n
	t.mbrs[id] = mbr
}

// descend walks toward the deepest child that still contains mbr,
// creating children along the way.
func (t *Tree[K]) descend(n *node[K], mbr geo.Mbr) *node[K] {
	for n.depth < t.maxDepth {
		q := quadrantFor(n.mbr, mbr)
		if q < 0 {
			break
		}
		if n.children[q] == nil {
			n.children[q] = &node[K]{
				mbr:     quadrantMbr(n.mbr, q),
				depth:   n.depth + 1,
				members: make(map[K]struct{}),
			}
		}
		n = n.children[q]
	}
	return n
}

// Remove takes id out of the tree. Removing an absent id is a no-op.
func (t *Tree[K]) Remove(id K) {
	n, ok := t.items[id]
	if !ok {
		return
	}
	delete(n.members, id)
	delete(t.items, id)
	delete(t.mbrs, id)
}

// Query returns every id whose rectangle overlaps mbr. Items with
// invalid rectangles are always returned; they were never placed
// spatially and must not be culled. An invalid query rectangle
// matches everything.
func (t *Tree[K]) Query(mbr geo.Mbr) []K {
	var out []K
	if !mbr.Valid() {
		out = make([]K, 0, len(t.items))
		for id := range t.items {
			out = append(out, id)
		}
		return out
	}
	t.collect(t.root, mbr, &out)
	return out
}

func (t *Tree[K]) collect(n *node[K], query geo.Mbr, out *[]K) {
	if n == nil {
		return
	}
	if n != t.root && !n.mbr.Overlaps(query) {
		return
	}
	for id := range n.members {
		itemMbr := t.mbrs[id]
		if !itemMbr.Valid() || itemMbr.Overlaps(query) {
			*out = append(*out, id)
		}
	}
	for _, child := range n.children {
		t.collect(child, query, out)
	}
}

// Len returns the number of items in the tree.
func (t *Tree[K]) Len() int { return len(t.items) }

// Stats describes the shape of the tree.
type Stats struct {
	Items    int
	Nodes    int
	MaxDepth int // deepest allocated node
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("CullTree[%d items, %d nodes, depth %d]",
		s.Items, s.Nodes, s.MaxDepth)
}

// Stats walks the tree and reports its current shape.
func (t *Tree[K]) Stats() Stats {
	s := Stats{Items: len(t.items)}
	var walk func(n *node[K])
	walk = func(n *node[K]) {
		if n == nil {
			return
		}
		s.Nodes++
		if n.depth > s.MaxDepth {
			s.MaxDepth = n.depth
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(t.root)
	return s
}

// quadrantFor returns which quadrant of parent fully contains mbr,
// or -1 when mbr straddles a split line.
func quadrantFor(parent, mbr geo.Mbr) int {
	mid := parent.MidPoint()
	var q int
	switch {
	case mbr.UR.X() <= mid.X():
		// left half
	case mbr.LL.X() >= mid.X():
		q = 1
	default:
		return -1
	}
	switch {
	case mbr.UR.Y() <= mid.Y():
		// bottom half
	case mbr.LL.Y() >= mid.Y():
		q += 2
	default:
		return -1
	}
	return q
}

// quadrantMbr returns the bounds of quadrant q of parent.
// Quadrants are numbered 0..3: bottom-left, bottom-right,
// top-left, top-right.
func quadrantMbr(parent geo.Mbr, q int) geo.Mbr {
	mid := parent.MidPoint()
	llx, lly := parent.LL.X(), parent.LL.Y()
	urx, ury := parent.UR.X(), parent.UR.Y()
	switch q {
	case 0:
		return geo.NewMbr(llx, lly, mid.X(), mid.Y())
	case 1:
		return geo.NewMbr(mid.X(), lly, urx, mid.Y())
	case 2:
		return geo.NewMbr(llx, mid.Y(), mid.X(), ury)
	default:
		return geo.NewMbr(mid.X(), mid.Y(), urx, ury)
	}
}
