package octree

import (
	"collision3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type staticNode struct {
	center   rl.Vector3
	half     float32
	children [8]int
	objects  []Object
	content  content
}

// StaticTree is a full oct-tree laid out in one slice: the children of node i
// live at 8i+1 .. 8i+8. It is built once and then only read.
type StaticTree struct {
	nodes    []staticNode
	maxDepth int
	count    int
}

// Build allocates every node down to maxDepth. Building a tree that is already
// built, or asking for a depth outside [0, DepthLimit], does nothing; call
// Clear first to rebuild.
func (t *StaticTree) Build(center rl.Vector3, halfExtent float32, maxDepth int) {
	if t.nodes != nil || maxDepth < 0 || maxDepth > DepthLimit {
		return
	}
	t.maxDepth = maxDepth
	t.nodes = make([]staticNode, NodeCount(maxDepth))
	t.buildNode(0, center, halfExtent, 0)
}

func (t *StaticTree) buildNode(idx int, center rl.Vector3, half float32, depth int) {
	node := &t.nodes[idx]
	node.center = center
	node.half = half

	step := half * 0.5
	for i := 0; i < 8; i++ {
		if depth == t.maxDepth {
			node.children[i] = NoChild
			continue
		}
		child := idx*8 + 1 + i
		node.children[i] = child
		t.buildNode(child, childCenter(center, step, i), step, depth+1)
	}
}

// Insert stores obj in the first node whose split planes it straddles, or in the
// leaf reached by following octants. It returns the index of that node, or -1
// when the tree has not been built.
func (t *StaticTree) Insert(obj Object) int {
	if len(t.nodes) == 0 {
		return -1
	}
	bounds := obj.Bounds()
	idx := 0
	for {
		node := &t.nodes[idx]
		node.content.add(bounds)

		oct, straddle := octant(node.center, obj)
		if straddle || node.children[oct] == NoChild {
			node.objects = append(node.objects, obj)
			t.count++
			return idx
		}
		idx = node.children[oct]
	}
}

// Query returns the IDs of every object held by a node whose contents overlap
// region. The result over-approximates and never repeats an ID.
func (t *StaticTree) Query(region geom.AABB) []int {
	var out []int
	t.Visit(region, func(o Object) bool {
		out = append(out, o.ID)
		return true
	})
	return out
}

// Visit walks the same nodes as Query in depth-first order, stopping early when
// fn returns false.
func (t *StaticTree) Visit(region geom.AABB, fn func(Object) bool) {
	if len(t.nodes) == 0 {
		return
	}
	t.visit(0, region, fn)
}

func (t *StaticTree) visit(idx int, region geom.AABB, fn func(Object) bool) bool {
	node := &t.nodes[idx]
	if !node.content.overlaps(region) {
		return true
	}
	for _, o := range node.objects {
		if !fn(o) {
			return false
		}
	}
	for _, child := range node.children {
		if child == NoChild {
			continue
		}
		if !t.visit(child, region, fn) {
			return false
		}
	}
	return true
}

// Clear releases all nodes and their object lists.
func (t *StaticTree) Clear() {
	for i := range t.nodes {
		t.nodes[i].objects = nil
	}
	t.nodes = nil
	t.count = 0
	t.maxDepth = 0
}

func (t *StaticTree) Built() bool  { return t.nodes != nil }
func (t *StaticTree) Len() int     { return t.count }
func (t *StaticTree) NodeLen() int { return len(t.nodes) }

// NodeObjects returns the objects stored directly in node idx.
func (t *StaticTree) NodeObjects(idx int) []Object {
	if idx < 0 || idx >= len(t.nodes) {
		return nil
	}
	return t.nodes[idx].objects
}
