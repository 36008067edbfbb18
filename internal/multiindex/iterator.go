package multiindex

// iterator holding the iterators state
type iterator[K any] struct {
	tree *redBlackTree[K]
	node *redBlackNode[K]
	pos  iterPos
}

type iterPos byte

const (
	begin, onmyway, end iterPos = 0, 1, 2
)

// iterator returns an iterator one-before-first
//
// IMPORTANT: iterator does not provide thread safety
func (t *redBlackTree[K]) iterator() iterator[K] {
	return iterator[K]{tree: t, node: nil, pos: begin}
}

// iteratorAt returns an iterator at node, one-past-the-end for nil
//
// IMPORTANT: iterator does not provide thread safety
func (t *redBlackTree[K]) iteratorAt(node *redBlackNode[K]) iterator[K] {
	if node == nil {
		return iterator[K]{tree: t, node: nil, pos: end}
	}
	return iterator[K]{tree: t, node: node, pos: onmyway}
}

// next moves the iterator to the next element
func (it *iterator[K]) next() bool {
	if it.pos == end {
		it.node = nil
		return false
	}

	if it.pos == begin {
		minNode := it.tree.min()
		if minNode == nil {
			it.node = nil
			it.pos = end
			return false
		}
		it.node = minNode
		it.pos = onmyway
		return true
	}

	if it.node.right != nil {
		it.node = it.node.right
		for it.node.left != nil {
			it.node = it.node.left
		}
		it.pos = onmyway
		return true
	}

	for it.node.parent != nil {
		node := it.node
		it.node = it.node.parent
		if node == it.node.left {
			it.pos = onmyway
			return true
		}
	}

	it.pos = end
	it.node = nil
	return false
}

// prev moves the iterator to the previous element
func (it *iterator[K]) prev() bool {
	if it.pos == begin {
		it.node = nil
		return false
	}

	if it.pos == end {
		maxNode := it.tree.max()
		if maxNode == nil {
			it.node = nil
			it.pos = begin
			return false
		}
		it.node = maxNode
		it.pos = onmyway
		return true
	}

	if it.node.left != nil {
		it.node = it.node.left
		for it.node.right != nil {
			it.node = it.node.right
		}
		it.pos = onmyway
		return true
	}

	for it.node.parent != nil {
		curNode := it.node
		it.node = it.node.parent
		if curNode == it.node.right {
			it.pos = onmyway
			return true
		}
	}

	it.node = nil
	it.pos = begin
	return false
}

// begin resets the iterator to one-before-first
func (it *iterator[K]) begin() {
	it.node = nil
	it.pos = begin
}

// end moves the iterator to one-past-the-end
func (it *iterator[K]) end() {
	it.node = nil
	it.pos = end
}
