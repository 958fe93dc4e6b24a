package bvh

import (
	"fmt"

	"github.com/Mu-L/nanort/log"
	"github.com/Mu-L/nanort/types"
)

// Builder performs the recursive top-down SAH construction described in
// the spec: partition the index permutation in place, emit a leaf once
// primitive count or depth caps are hit, otherwise recurse on the two
// sides chosen by the binned SAH search.
type Builder struct {
	opts   BuildOptions
	policy *buildPolicy
	logger log.Logger
}

// NewBuilder returns a Builder configured with opts.
func NewBuilder(opts BuildOptions) *Builder {
	return &Builder{
		opts:   opts,
		policy: newBuildPolicy(opts.BinSize),
		logger: log.New("bvh.builder"),
	}
}

type buildResult struct {
	nodes       []Node
	indices     []uint32
	sceneBounds AABB
	stats       Statistics
}

// Build runs the construction over n primitives described by adapter.
func (b *Builder) Build(n uint32, adapter PrimitiveAdapter) (buildResult, error) {
	if n == 0 {
		return buildResult{}, fmt.Errorf("%w: zero primitives", ErrInvalidInput)
	}

	indices := make([]uint32, n)
	bboxes := make([]AABB, n)
	centroids := make([]types.Vec3, n)

	sceneBounds := EmptyAABB()
	centroidBounds := EmptyAABB()

	for i := uint32(0); i < n; i++ {
		box := adapter.BoundingBox(i)
		if !box.IsFinite() {
			return buildResult{}, fmt.Errorf("%w: primitive %d has a non-finite bounding box", ErrInvalidInput, i)
		}
		indices[i] = i
		bboxes[i] = box
		centroids[i] = box.Centroid()
		sceneBounds = sceneBounds.Union(box)
		centroidBounds = centroidBounds.UnionPoint(centroids[i])
	}

	st := &buildState{
		opts:      b.opts,
		policy:    b.policy,
		adapter:   adapter,
		indices:   indices,
		bboxes:    bboxes,
		centroids: centroids,
	}

	st.buildRange(0, n, 0)

	b.logger.Debugf(
		"bvh build: %d primitives, %d nodes (%d leaf, %d branch), max depth %d",
		n, len(st.nodes), st.stats.NumLeafNodes, st.stats.NumBranchNodes, st.stats.MaxTreeDepth,
	)

	return buildResult{
		nodes:       st.nodes,
		indices:     indices,
		sceneBounds: sceneBounds,
		stats:       st.stats,
	}, nil
}

// buildState threads the mutable construction state through the
// recursion without re-allocating on every call.
type buildState struct {
	opts      BuildOptions
	policy    *buildPolicy
	adapter   PrimitiveAdapter
	indices   []uint32
	bboxes    []AABB
	centroids []types.Vec3

	nodes []Node
	stats Statistics
}

// buildRange partitions indices[begin:end) and returns the index of the
// node covering that range. Children, when any, are emitted at higher
// node indices than their parent.
func (s *buildState) buildRange(begin, end uint32, depth int) uint32 {
	if depth > s.stats.MaxTreeDepth {
		s.stats.MaxTreeDepth = depth
	}

	bounds := EmptyAABB()
	centroidBounds := EmptyAABB()
	for i := begin; i < end; i++ {
		id := s.indices[i]
		bounds = bounds.Union(s.bboxes[id])
		centroidBounds = centroidBounds.UnionPoint(s.centroids[id])
	}

	count := end - begin

	if count <= s.opts.MinLeafPrimitives || depth >= s.opts.MaxTreeDepth {
		return s.emitLeaf(begin, end, bounds)
	}

	best, ok := s.policy.bestSplit(s.indices[begin:end], s.centroids, s.bboxes, centroidBounds, bounds)
	leafCost := intersectionCost * float32(count)
	if !ok || best.cost >= leafCost {
		return s.emitLeaf(begin, end, bounds)
	}

	mid := s.partition(begin, end, best.axis, best.position)
	if mid == begin || mid == end {
		// Every primitive landed on one side despite the binned
		// estimate promising a non-empty split; fall back to a leaf
		// rather than recursing forever on an identical range.
		return s.emitLeaf(begin, end, bounds)
	}

	nodeIndex := uint32(len(s.nodes))
	s.nodes = append(s.nodes, Node{Bounds: bounds, axis: best.axis})
	s.stats.NumBranchNodes++

	left := s.buildRange(begin, mid, depth+1)
	right := s.buildRange(mid, end, depth+1)
	s.nodes[nodeIndex].left = left
	s.nodes[nodeIndex].right = right

	return nodeIndex
}

// partition reorders indices[begin:end) so that every id whose centroid
// lies left of position along axis precedes every id that doesn't, using
// the adapter's reusable SAH predicate. Returns the pivot index.
func (s *buildState) partition(begin, end uint32, axis Axis, position float32) uint32 {
	s.adapter.SetSAHPredicate(axis, position)

	i, j := begin, end
	for i < j {
		if s.adapter.SAHPredicateSide(s.indices[i]) {
			i++
			continue
		}
		j--
		s.indices[i], s.indices[j] = s.indices[j], s.indices[i]
	}
	return i
}

func (s *buildState) emitLeaf(begin, end uint32, bounds AABB) uint32 {
	nodeIndex := uint32(len(s.nodes))
	s.nodes = append(s.nodes, Node{Bounds: bounds, left: begin, right: end, leaf: true})
	s.stats.NumLeafNodes++
	return nodeIndex
}
