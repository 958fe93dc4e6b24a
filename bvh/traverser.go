package bvh

// maxStackDepth bounds the explicit traversal stack. The spec recommends
// max_tree_depth + 1; 64 comfortably covers the default cap of 30 even
// after accounting for the extra push a near/far split can need.
const maxStackDepth = 64

// traverse walks nodes/indices for ray, feeding each leaf primitive to
// intersector and returning the materialised HitRecord. It never
// allocates on the hot path: the traversal stack is a fixed-size array.
func traverse(nodes []Node, indices []uint32, ray Ray, intersector PrimitiveIntersector, opts TraceOptions) HitRecord {
	intersector.Prepare(ray, opts)

	if len(nodes) == 0 {
		return intersector.Finalize(ray, false)
	}

	invDir := ray.InvDirection()

	tEnter, tExit, ok := nodes[0].Bounds.Slab(ray, invDir)
	if !ok || tEnter > ray.MaxT || tExit < ray.MinT {
		return intersector.Finalize(ray, false)
	}

	var stack [maxStackDepth]uint32
	sp := 0
	stack[sp] = 0
	sp++

	tCurrent := ray.MaxT
	hit := false

	for sp > 0 {
		sp--
		node := nodes[stack[sp]]

		if node.IsLeaf() {
			for i := node.Begin(); i < node.End(); i++ {
				id := indices[i]
				if !opts.Contains(id) {
					continue
				}
				if newHit, t := intersector.Intersect(tCurrent, id); newHit {
					tCurrent = t
					hit = true
				}
			}
			continue
		}

		left, right := node.LeftChild(), node.RightChild()
		lEnter, lExit, lOk := nodes[left].Bounds.Slab(ray, invDir)
		rEnter, rExit, rOk := nodes[right].Bounds.Slab(ray, invDir)

		lOk = lOk && lEnter <= tCurrent && lExit >= ray.MinT
		rOk = rOk && rEnter <= tCurrent && rExit >= ray.MinT

		// Near-child-first: push the farther child first so the
		// nearer one pops (and can tighten tCurrent) before it.
		switch {
		case lOk && rOk:
			if lEnter <= rEnter {
				stack[sp], sp = right, sp+1
				stack[sp], sp = left, sp+1
			} else {
				stack[sp], sp = left, sp+1
				stack[sp], sp = right, sp+1
			}
		case lOk:
			stack[sp], sp = left, sp+1
		case rOk:
			stack[sp], sp = right, sp+1
		}
	}

	return intersector.Finalize(ray, hit)
}
