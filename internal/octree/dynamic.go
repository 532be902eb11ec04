package octree

import (
	"collision3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// maxAncestors bounds the ancestor stack used while enumerating pairs.
const maxAncestors = 40

type dynamicNode struct {
	center   rl.Vector3
	half     float32
	children [8]int32
	objects  []Object
	content  content
}

// DynamicTree is an oct-tree whose nodes are allocated on demand in an arena
// slice. It is meant to be filled, used and destroyed within one tick; the
// objects it stores are references, the tree never owns what they describe.
type DynamicTree struct {
	nodes    []dynamicNode
	maxDepth int
	count    int
}

func NewDynamicTree(center rl.Vector3, halfExtent float32, maxDepth int) *DynamicTree {
	maxDepth = min(maxDepth, DepthLimit, maxAncestors-1)
	t := &DynamicTree{maxDepth: maxDepth}
	t.newNode(center, halfExtent)
	return t
}

func (t *DynamicTree) newNode(center rl.Vector3, half float32) int32 {
	t.nodes = append(t.nodes, dynamicNode{
		center:   center,
		half:     half,
		children: [8]int32{NoChild, NoChild, NoChild, NoChild, NoChild, NoChild, NoChild, NoChild},
	})
	return int32(len(t.nodes) - 1)
}

// Insert places obj using the same straddle rule as the static tree, creating
// child nodes as needed. It returns the index of the node that holds obj.
func (t *DynamicTree) Insert(obj Object) int {
	if len(t.nodes) == 0 {
		return -1
	}
	bounds := obj.Bounds()
	idx := int32(0)
	for depth := 0; ; depth++ {
		t.nodes[idx].content.add(bounds)

		oct, straddle := octant(t.nodes[idx].center, obj)
		if straddle || depth >= t.maxDepth {
			t.nodes[idx].objects = append(t.nodes[idx].objects, obj)
			t.count++
			return int(idx)
		}

		child := t.nodes[idx].children[oct]
		if child == NoChild {
			step := t.nodes[idx].half * 0.5
			// newNode may grow the arena, so index again afterwards
			child = t.newNode(childCenter(t.nodes[idx].center, step, oct), step)
			t.nodes[idx].children[oct] = child
		}
		idx = child
	}
}

// EnumeratePairs calls fn for every pair of objects that may touch: objects in
// the same node, and objects in a node paired with those held by its
// ancestors. Objects in sibling subtrees are separated by a split plane and are
// never reported. Each unordered pair is reported at most once.
func (t *DynamicTree) EnumeratePairs(fn func(a, b Object)) {
	if len(t.nodes) == 0 {
		return
	}
	ancestors := make([]int32, 0, maxAncestors)
	t.pairs(0, ancestors, fn)
}

func (t *DynamicTree) pairs(idx int32, ancestors []int32, fn func(a, b Object)) {
	node := &t.nodes[idx]

	for _, anc := range ancestors {
		for _, a := range t.nodes[anc].objects {
			for _, b := range node.objects {
				if a.ID == b.ID {
					continue
				}
				fn(a, b)
			}
		}
	}
	for i := 0; i < len(node.objects); i++ {
		for j := i + 1; j < len(node.objects); j++ {
			if node.objects[i].ID == node.objects[j].ID {
				continue
			}
			fn(node.objects[i], node.objects[j])
		}
	}

	ancestors = append(ancestors, idx)
	for _, child := range node.children {
		if child != NoChild {
			t.pairs(child, ancestors, fn)
		}
	}
}

// Query returns the IDs of every object held by a node whose contents overlap region.
func (t *DynamicTree) Query(region geom.AABB) []int {
	var out []int
	for i := range t.nodes {
		// arena order is a valid traversal: parents are always allocated first
		node := &t.nodes[i]
		if !node.content.overlaps(region) {
			continue
		}
		for _, o := range node.objects {
			out = append(out, o.ID)
		}
	}
	return out
}

// Destroy releases every node and object list.
func (t *DynamicTree) Destroy() {
	for i := range t.nodes {
		t.nodes[i].objects = nil
	}
	t.nodes = nil
	t.count = 0
}

func (t *DynamicTree) Len() int     { return t.count }
func (t *DynamicTree) NodeLen() int { return len(t.nodes) }
