package bvh

// BuildOptions configures the Builder. The zero value is not useful; use
// DefaultBuildOptions and override individual fields.
type BuildOptions struct {
	// MinLeafPrimitives forces a leaf when the primitive count drops to
	// or below this value.
	MinLeafPrimitives uint32

	// MaxLeafPrimitives is an upper-bound hint on leaf size. The Builder
	// does not read it: leaf size follows from MinLeafPrimitives,
	// MaxTreeDepth and the SAH cost alone.
	MaxLeafPrimitives uint32

	// BinSize is the number of SAH bins evaluated per axis.
	BinSize int

	// MaxTreeDepth caps recursion depth; a node reaching this depth is
	// always emitted as a leaf regardless of primitive count.
	MaxTreeDepth int

	// CacheBBox names the per-primitive bounding box cache. The Builder
	// always precomputes and retains that array for the duration of the
	// build, calling PrimitiveAdapter.BoundingBox once per primitive, so
	// this field has no effect on the build.
	CacheBBox bool
}

// DefaultBuildOptions returns the spec-mandated defaults: 4 minimum leaf
// primitives, 16 maximum, 64 SAH bins per axis, depth cap 30.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		MinLeafPrimitives: 4,
		MaxLeafPrimitives: 16,
		BinSize:           64,
		MaxTreeDepth:      30,
		CacheBBox:         false,
	}
}

// Statistics reports diagnostic counters collected during a build. The
// fields are stable across a given build but their exact values are not
// part of the package's compatibility contract.
type Statistics struct {
	NumLeafNodes   uint32
	NumBranchNodes uint32
	MaxTreeDepth   int
}
