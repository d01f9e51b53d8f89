package tree

import "github.com/visionsmart/insight/dataset"

// Node is one position in the fitted binary tree. A node with children is a
// split on Feature at Threshold (≤ goes left); a node without children is a
// leaf whose Value is the prediction. The root exclusively owns its subtrees;
// trees are never mutated after construction.
type Node struct {
	Feature   string
	Threshold float64
	Left      *Node
	Right     *Node
	Value     float64
	Samples   int
	Impurity  float64
}

// IsLeaf reports whether the node is terminal.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// predict walks the tree over an indexed feature vector.
func (n *Node) predict(x []float64, featureIndex map[string]int) float64 {
	node := n
	for !node.IsLeaf() {
		if x[featureIndex[node.Feature]] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// Predict walks the tree over a record, reading each split's feature by
// column name. It returns false when a visited split's feature is null or
// non-numeric in the record.
func (n *Node) Predict(row dataset.Record) (float64, bool) {
	node := n
	for !node.IsLeaf() {
		v, ok := row.Float(node.Feature)
		if !ok {
			return 0, false
		}
		if v <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value, true
}

// leafCount counts terminal nodes.
func (n *Node) leafCount() int {
	if n.IsLeaf() {
		return 1
	}
	return n.Left.leafCount() + n.Right.leafCount()
}

// depth returns the longest root-to-leaf edge count.
func (n *Node) depth() int {
	if n.IsLeaf() {
		return 0
	}
	l := n.Left.depth()
	r := n.Right.depth()
	if r > l {
		l = r
	}
	return l + 1
}
