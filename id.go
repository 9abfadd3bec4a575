package itc

// ID is an identity tree: a recursive partition of the unit interval
// describing which sub-intervals this replica owns. A leaf either owns
// its whole interval or none of it; an interior node delegates to its
// two children and owns nothing itself.
type ID struct {
	owned bool

	// Both nil for a leaf, both set for an interior node.
	left  *ID
	right *ID
}

// newIDLeaf returns a leaf identity. owned selects between the "1"
// (owner) and "0" (non-owner) leaf.
func newIDLeaf(owned bool) *ID {
	return &ID{owned: owned}
}

// newIDNode returns an interior identity node over the two children.
func newIDNode(left, right *ID) *ID {
	return &ID{left: left, right: right}
}

// isLeaf reports whether i is a leaf. One-armed nodes do not exist in
// valid trees; validation rejects them before they reach the algebra.
func (i *ID) isLeaf() bool {
	return i.left == nil && i.right == nil
}

// isZero reports whether i is the non-owning leaf "0".
func (i *ID) isZero() bool {
	return i.isLeaf() && !i.owned
}

// isOne reports whether i is the owning leaf "1".
func (i *ID) isOne() bool {
	return i.isLeaf() && i.owned
}

// clone returns a deep copy of i. Identities are never shared between
// stamps, so every boundary crossing copies.
func (i *ID) clone() *ID {
	if i == nil {
		return nil
	}
	if i.isLeaf() {
		return newIDLeaf(i.owned)
	}
	return newIDNode(i.left.clone(), i.right.clone())
}

// equal reports structural equality of two identity trees.
func (i *ID) equal(other *ID) bool {
	if i.isLeaf() != other.isLeaf() {
		return false
	}
	if i.isLeaf() {
		return i.owned == other.owned
	}
	return i.left.equal(other.left) && i.right.equal(other.right)
}

// normalize rewrites i into normal form in place, collapsing (0, 0)
// to 0 and (1, 1) to 1 bottom-up. It returns i for chaining. The
// rewrite preserves the ownership set and is idempotent.
func (i *ID) normalize() *ID {
	if i.isLeaf() {
		return i
	}
	i.left.normalize()
	i.right.normalize()
	if i.left.isZero() && i.right.isZero() {
		i.left, i.right = nil, nil
		i.owned = false
	} else if i.left.isOne() && i.right.isOne() {
		i.left, i.right = nil, nil
		i.owned = true
	}
	return i
}

// split halves the ownership of i into two disjoint identities whose
// union is the ownership of i. The result trees are freshly allocated;
// i is not modified.
func (i *ID) split() (*ID, *ID) {
	if i.isLeaf() {
		if !i.owned {
			// Splitting nothing yields nothing on both sides.
			return newIDLeaf(false), newIDLeaf(false)
		}
		return newIDNode(newIDLeaf(true), newIDLeaf(false)),
			newIDNode(newIDLeaf(false), newIDLeaf(true))
	}
	if i.left.isZero() {
		a, b := i.right.split()
		return newIDNode(newIDLeaf(false), a),
			newIDNode(newIDLeaf(false), b)
	}
	if i.right.isZero() {
		a, b := i.left.split()
		return newIDNode(a, newIDLeaf(false)),
			newIDNode(b, newIDLeaf(false))
	}
	return newIDNode(i.left.clone(), newIDLeaf(false)),
		newIDNode(newIDLeaf(false), i.right.clone())
}

// sumIDs merges two disjoint identities back into one. It is the
// inverse of split. The inputs are not modified; the result is fresh
// and normalised. Returns ErrOverlappingInterval when both inputs own
// some common sub-interval.
func sumIDs(a, b *ID) (*ID, error) {
	if a.isZero() {
		return b.clone(), nil
	}
	if b.isZero() {
		return a.clone(), nil
	}
	if a.isLeaf() || b.isLeaf() {
		// Neither operand is 0 here, so at least one owning leaf
		// covers an interval the other operand also occupies.
		return nil, ErrOverlappingInterval
	}
	left, err := sumIDs(a.left, b.left)
	if err != nil {
		return nil, err
	}
	right, err := sumIDs(a.right, b.right)
	if err != nil {
		return nil, err
	}
	return newIDNode(left, right).normalize(), nil
}
