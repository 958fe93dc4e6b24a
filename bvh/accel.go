package bvh

import (
	"sync"

	"github.com/Mu-L/nanort/types"
)

// Accel owns the node array and primitive-index permutation produced by a
// Build and exposes the read-only query surface. It is created empty,
// populated once by Build, and from then on immutable: a second Build
// fully replaces the contents atomically from any concurrent reader's
// point of view.
type Accel struct {
	mu sync.RWMutex

	nodes       []Node
	indices     []uint32
	sceneBounds AABB
	stats       Statistics
	valid       bool
}

// NewAccel returns an empty, unbuilt Accel.
func NewAccel() *Accel {
	return &Accel{}
}

// Build constructs the acceleration structure over n primitives described
// by adapter, using opts to configure the SAH search and leaf/depth caps.
// On success the Accel's prior contents (if any) are atomically replaced.
// On failure the Accel is left exactly as it was before the call.
func (a *Accel) Build(n uint32, adapter PrimitiveAdapter, opts BuildOptions) error {
	result, err := NewBuilder(opts).Build(n, adapter)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.nodes = result.nodes
	a.indices = result.indices
	a.sceneBounds = result.sceneBounds
	a.stats = result.stats
	a.valid = true
	a.mu.Unlock()

	return nil
}

// Traverse walks the tree for ray, feeding each candidate leaf primitive
// to intersector, and returns the hit flag. It is safe to call
// concurrently from any number of goroutines once a Build has succeeded,
// provided each caller supplies its own Intersector instance. Called on
// an unbuilt or failed Accel it reports no hit without touching
// intersector's internal state beyond Prepare/Finalize.
func (a *Accel) Traverse(ray Ray, intersector PrimitiveIntersector, opts TraceOptions) (HitRecord, bool) {
	a.mu.RLock()
	nodes, indices, valid := a.nodes, a.indices, a.valid
	a.mu.RUnlock()

	if !valid {
		intersector.Prepare(ray, opts)
		return intersector.Finalize(ray, false), false
	}

	rec := traverse(nodes, indices, ray, intersector, opts)
	return rec, rec.Hit
}

// BoundingBox returns the scene bounds established by the last successful
// Build. Its value is undefined if IsValid reports false.
func (a *Accel) BoundingBox() (types.Vec3, types.Vec3) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sceneBounds.Min, a.sceneBounds.Max
}

// Statistics returns the diagnostic counters from the last successful
// Build.
func (a *Accel) Statistics() Statistics {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

// IsValid reports whether a Build has succeeded at least once.
func (a *Accel) IsValid() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.valid
}
