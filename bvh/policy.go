package bvh

import (
	"math"

	"github.com/Mu-L/nanort/types"
)

// traversalCost and intersectionCost are the C_trav/C_isect constants used
// by the SAH cost formula. The spec leaves these unexposed; (1.0, 1.0) is
// the accepted default.
const (
	traversalCost    float32 = 1.0
	intersectionCost float32 = 1.0
)

// bin accumulates the primitives whose centroid falls into one bucket of
// a binned SAH sweep.
type bin struct {
	count  uint32
	bounds AABB
}

// buildPolicy implements the binned surface-area-heuristic split search
// described in the spec: primitives are bucketed into BinSize equal-width
// bins along a candidate axis, then a left-to-right and right-to-left
// sweep turns the per-bin tallies into a running cost for every split
// plane between bins.
type buildPolicy struct {
	binSize int
}

func newBuildPolicy(binSize int) *buildPolicy {
	if binSize < 2 {
		binSize = 2
	}
	return &buildPolicy{binSize: binSize}
}

// split describes a candidate partition plane and its SAH cost.
type split struct {
	axis     Axis
	position float32
	cost     float32
}

// bestSplit searches all three axes and returns the lowest-cost valid
// split, or ok=false if every candidate produced an empty side.
func (p *buildPolicy) bestSplit(ids []uint32, centroids []types.Vec3, bboxes []AABB, centroidBounds AABB, parentBounds AABB) (best split, ok bool) {
	parentArea := parentBounds.SurfaceArea()
	if parentArea <= 0 {
		return split{}, false
	}

	best.cost = float32(math.Inf(1))

	for axis := AxisX; axis <= AxisZ; axis++ {
		extent := centroidBounds.Extent()[axis]
		if extent <= 0 {
			continue
		}

		candidate, found := p.axisSplit(ids, centroids, bboxes, centroidBounds, parentArea, axis, extent)
		if !found {
			continue
		}
		if !ok || candidate.cost < best.cost ||
			(candidate.cost == best.cost && axis < best.axis) {
			best = candidate
			ok = true
		}
	}

	return best, ok
}

func (p *buildPolicy) axisSplit(ids []uint32, centroids []types.Vec3, bboxes []AABB, centroidBounds AABB, parentArea float32, axis Axis, extent float32) (split, bool) {
	binCount := p.binSize
	bins := make([]bin, binCount)
	for i := range bins {
		bins[i].bounds = EmptyAABB()
	}

	origin := centroidBounds.Min[axis]
	scale := float32(binCount) / extent

	binIndex := func(c types.Vec3) int {
		idx := int((c[axis] - origin) * scale)
		if idx < 0 {
			idx = 0
		}
		if idx >= binCount {
			idx = binCount - 1
		}
		return idx
	}

	for _, id := range ids {
		idx := binIndex(centroids[id])
		bins[idx].count++
		bins[idx].bounds = bins[idx].bounds.Union(bboxes[id])
	}

	// Left-to-right and right-to-left running unions turn the per-bin
	// tallies into the (N_left, bounds_left) / (N_right, bounds_right)
	// pair needed at every one of the binCount-1 split planes.
	leftCount := make([]uint32, binCount)
	leftBounds := make([]AABB, binCount)
	running := EmptyAABB()
	var runningCount uint32
	for i := 0; i < binCount; i++ {
		running = running.Union(bins[i].bounds)
		runningCount += bins[i].count
		leftCount[i] = runningCount
		leftBounds[i] = running
	}

	rightCount := make([]uint32, binCount)
	rightBounds := make([]AABB, binCount)
	running = EmptyAABB()
	runningCount = 0
	for i := binCount - 1; i >= 0; i-- {
		running = running.Union(bins[i].bounds)
		runningCount += bins[i].count
		rightCount[i] = runningCount
		rightBounds[i] = running
	}

	best := split{cost: float32(math.Inf(1))}
	found := false

	for i := 0; i < binCount-1; i++ {
		nLeft := leftCount[i]
		nRight := rightCount[i+1]
		if nLeft == 0 || nRight == 0 {
			continue
		}

		cost := traversalCost + intersectionCost*
			(leftBounds[i].SurfaceArea()*float32(nLeft)+rightBounds[i+1].SurfaceArea()*float32(nRight))/parentArea

		if !found || cost < best.cost {
			best = split{axis: axis, position: origin + float32(i+1)/scale, cost: cost}
			found = true
		}
	}

	return best, found
}
