package bvh

// PrimitiveAdapter is the build-time capability a caller implements to
// expose a primitive set to the Builder. The Builder never reads vertex or
// geometry data directly; it only calls BoundingBox and the SAH predicate
// pair below.
//
// SetSAHPredicate/SAHPredicateSide exist as a single mutable pair, rather
// than a pure SAHPredicateSide(axis, position, id), so an adapter can cache
// whatever it needs (e.g. a precomputed centroid slice) once per partition
// pass instead of once per primitive.
type PrimitiveAdapter interface {
	// BoundingBox returns the bounding box of primitive id.
	BoundingBox(id uint32) AABB

	// SetSAHPredicate fixes the axis and split position used by the
	// following calls to SAHPredicateSide.
	SetSAHPredicate(axis Axis, position float32)

	// SAHPredicateSide reports whether primitive id's centroid lies
	// strictly left of the position set by the last SetSAHPredicate
	// call along that axis.
	SAHPredicateSide(id uint32) bool
}
