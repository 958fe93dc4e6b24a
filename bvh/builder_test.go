package bvh

import (
	"math/rand"
	"testing"

	"github.com/Mu-L/nanort/types"
)

func randomTriangleMesh(seed int64, n int) *TriangleMesh {
	rng := rand.New(rand.NewSource(seed))
	verts := make([]types.Vec3, 0, n*3)
	for i := 0; i < n; i++ {
		ox, oy, oz := rng.Float32()*100, rng.Float32()*100, rng.Float32()*100
		verts = append(verts,
			types.XYZ(ox, oy, oz),
			types.XYZ(ox+rng.Float32(), oy, oz),
			types.XYZ(ox, oy+rng.Float32(), oz),
		)
	}
	return &TriangleMesh{Vertices: verts}
}

func leafIDs(t *testing.T, nodes []Node, indices []uint32) map[uint32]int {
	t.Helper()
	seen := map[uint32]int{}
	for _, n := range nodes {
		if !n.IsLeaf() {
			continue
		}
		for i := n.Begin(); i < n.End(); i++ {
			seen[indices[i]]++
		}
	}
	return seen
}

func TestExhaustivePermutation(t *testing.T) {
	mesh := randomTriangleMesh(1, 237)
	b := NewBuilder(DefaultBuildOptions())
	result, err := b.Build(uint32(len(mesh.Vertices)/3), mesh)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := leafIDs(t, result.nodes, result.indices)
	if len(seen) != 237 {
		t.Fatalf("got %d distinct primitive ids across leaves, want 237", len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("primitive %d referenced %d times, want exactly 1", id, count)
		}
	}
}

func TestTightBounds(t *testing.T) {
	mesh := randomTriangleMesh(2, 180)
	b := NewBuilder(DefaultBuildOptions())
	result, err := b.Build(uint32(len(mesh.Vertices)/3), mesh)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var check func(idx uint32) AABB
	check = func(idx uint32) AABB {
		node := result.nodes[idx]
		if node.IsLeaf() {
			box := EmptyAABB()
			for i := node.Begin(); i < node.End(); i++ {
				box = box.Union(mesh.BoundingBox(result.indices[i]))
			}
			if !boxesClose(box, node.Bounds) {
				t.Errorf("leaf %d bounds %+v != union of primitive bboxes %+v", idx, node.Bounds, box)
			}
			return node.Bounds
		}

		lb := check(node.LeftChild())
		rb := check(node.RightChild())
		union := lb.Union(rb)
		if !boxesClose(union, node.Bounds) {
			t.Errorf("internal node %d bounds %+v != union of children %+v", idx, node.Bounds, union)
		}
		return node.Bounds
	}
	check(0)
}

func boxesClose(a, b AABB) bool {
	const eps = 1e-3
	for axis := 0; axis < 3; axis++ {
		if abs32(a.Min[axis]-b.Min[axis]) > eps || abs32(a.Max[axis]-b.Max[axis]) > eps {
			return false
		}
	}
	return true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestBuildDeterministic(t *testing.T) {
	mesh1 := randomTriangleMesh(42, 150)
	mesh2 := randomTriangleMesh(42, 150)

	r1, err := NewBuilder(DefaultBuildOptions()).Build(150, mesh1)
	if err != nil {
		t.Fatalf("Build 1: %v", err)
	}
	r2, err := NewBuilder(DefaultBuildOptions()).Build(150, mesh2)
	if err != nil {
		t.Fatalf("Build 2: %v", err)
	}

	if len(r1.nodes) != len(r2.nodes) {
		t.Fatalf("node count differs: %d vs %d", len(r1.nodes), len(r2.nodes))
	}
	for i := range r1.nodes {
		if r1.nodes[i] != r2.nodes[i] {
			t.Errorf("node %d differs between identical builds: %+v vs %+v", i, r1.nodes[i], r2.nodes[i])
		}
	}
	for i := range r1.indices {
		if r1.indices[i] != r2.indices[i] {
			t.Errorf("index %d differs between identical builds: %v vs %v", i, r1.indices[i], r2.indices[i])
		}
	}
}
