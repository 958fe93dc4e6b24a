package bvh

import "github.com/Mu-L/nanort/types"

// HitRecord carries the user-visible result of a traversal, materialised
// once by PrimitiveIntersector.Finalize.
type HitRecord struct {
	Hit         bool
	T           float32
	PrimitiveID uint32
	U, V        float32
	Normal      types.Vec3
}

// PrimitiveIntersector is the query-time capability a caller implements to
// test primitives against a ray. A single Intersector instance must never
// be shared between concurrently running traversals; each caller owns its
// own instance so it can cache per-ray scratch state (inverse direction,
// running closest hit) between Prepare and Finalize.
type PrimitiveIntersector interface {
	// Prepare is called once per traversal before any Intersect call.
	Prepare(ray Ray, opts TraceOptions)

	// Intersect tests primitive id against the ray. tCurrent is the
	// distance of the closest hit found so far (ray.MaxT if none yet).
	// On hit it returns (true, tNew) with min_t <= tNew <= tCurrent and
	// records whatever it needs internally to answer Finalize.
	Intersect(tCurrent float32, id uint32) (bool, float32)

	// Finalize is called once after traversal completes (or immediately
	// if the root box was missed) and materialises the HitRecord.
	Finalize(ray Ray, hit bool) HitRecord
}
