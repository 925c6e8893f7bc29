package traversal

// Collide runs a collision traversal from the two roots.
func Collide(node CollisionTester) {
	node.Preprocess()
	collisionRecurse(node, 0, 0)
	node.Postprocess()
}

func collisionRecurse(node CollisionTester, i, j int) {
	l1 := node.IsFirstNodeLeaf(i)
	l2 := node.IsSecondNodeLeaf(j)

	if l1 && l2 {
		node.LeafTesting(i, j)
		return
	}
	if node.BVTesting(i, j) {
		return
	}

	if node.FirstOverSecond(i, j) {
		collisionRecurse(node, node.FirstLeftChild(i), j)
		if node.CanStop() {
			return
		}
		collisionRecurse(node, node.FirstRightChild(i), j)
	} else {
		collisionRecurse(node, i, node.SecondLeftChild(j))
		if node.CanStop() {
			return
		}
		collisionRecurse(node, i, node.SecondRightChild(j))
	}
}

// Distance runs a distance traversal from the two roots.
func Distance(node DistanceTester) {
	node.Preprocess()
	distanceRecurse(node, 0, 0)
	node.Postprocess()
}

// distanceRecurse probes both child pairings, descends the nearer one first,
// and visits each only if its volume bound can still improve the result. The
// two BVTesting calls precede the two CanStop calls so that testers keeping
// per-test state see them in matched pairs.
func distanceRecurse(node DistanceTester, i, j int) {
	l1 := node.IsFirstNodeLeaf(i)
	l2 := node.IsSecondNodeLeaf(j)

	if l1 && l2 {
		node.LeafTesting(i, j)
		return
	}

	var a1, a2, b1, b2 int
	if node.FirstOverSecond(i, j) {
		a1, a2 = node.FirstLeftChild(i), j
		b1, b2 = node.FirstRightChild(i), j
	} else {
		a1, a2 = i, node.SecondLeftChild(j)
		b1, b2 = i, node.SecondRightChild(j)
	}

	d1 := node.BVTesting(a1, a2)
	d2 := node.BVTesting(b1, b2)

	if d2 < d1 {
		if !node.CanStop(d2) {
			distanceRecurse(node, b1, b2)
		}
		if !node.CanStop(d1) {
			distanceRecurse(node, a1, a2)
		}
	} else {
		if !node.CanStop(d1) {
			distanceRecurse(node, a1, a2)
		}
		if !node.CanStop(d2) {
			distanceRecurse(node, b1, b2)
		}
	}
}
