package gbt

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Node is one node of a regression tree. Leaves carry the (already
// learning-rate-scaled) contribution to the ensemble prediction.
type Node struct {
	Leaf      bool    `yaml:"leaf"`
	Value     float64 `yaml:"value,omitempty"`
	Feature   int     `yaml:"feature,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty"`
	Left      *Node   `yaml:"left,omitempty"`
	Right     *Node   `yaml:"right,omitempty"`
}

// predict walks the tree for one feature vector.
func (n *Node) predict(x []float64) float64 {
	for !n.Leaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// scale multiplies every leaf value by f.
func (n *Node) scale(f float64) {
	if n.Leaf {
		n.Value *= f
		return
	}
	n.Left.scale(f)
	n.Right.scale(f)
}

// split describes the best threshold found for a node.
type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

// buildTree grows a depth-limited regression tree on the residuals of the
// rows referenced by idx, minimizing squared error at every split.
func buildTree(x [][]float64, residual []float64, idx []int, depth, maxDepth, minLeaf int) *Node {
	if depth >= maxDepth || len(idx) < 2*minLeaf {
		return leafNode(residual, idx)
	}

	best, ok := bestSplit(x, residual, idx, minLeaf)
	if !ok {
		return leafNode(residual, idx)
	}

	return &Node{
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      buildTree(x, residual, best.left, depth+1, maxDepth, minLeaf),
		Right:     buildTree(x, residual, best.right, depth+1, maxDepth, minLeaf),
	}
}

func leafNode(residual []float64, idx []int) *Node {
	vals := make([]float64, len(idx))
	for i, j := range idx {
		vals[i] = residual[j]
	}
	return &Node{Leaf: true, Value: stat.Mean(vals, nil)}
}

// bestSplit scans every feature for the threshold with the largest squared
// error reduction. Features are visited in schema order and ties keep the
// first candidate, so tree growth is deterministic.
func bestSplit(x [][]float64, residual []float64, idx []int, minLeaf int) (split, bool) {
	var best split
	var total float64
	for _, j := range idx {
		total += residual[j]
	}
	n := float64(len(idx))
	baseScore := total * total / n

	order := make([]int, len(idx))
	for f := 0; f < len(x[idx[0]]); f++ {
		copy(order, idx)
		sort.SliceStable(order, func(a, b int) bool {
			return x[order[a]][f] < x[order[b]][f]
		})

		var leftSum float64
		for i := 0; i < len(order)-1; i++ {
			leftSum += residual[order[i]]
			// Only cut between distinct feature values.
			if x[order[i]][f] == x[order[i+1]][f] {
				continue
			}
			nl := float64(i + 1)
			nr := n - nl
			if int(nl) < minLeaf || int(nr) < minLeaf {
				continue
			}
			rightSum := total - leftSum
			gain := leftSum*leftSum/nl + rightSum*rightSum/nr - baseScore
			if gain > best.gain {
				threshold := (x[order[i]][f] + x[order[i+1]][f]) / 2
				best = split{
					feature:   f,
					threshold: threshold,
					gain:      gain,
					left:      append([]int(nil), order[:i+1]...),
					right:     append([]int(nil), order[i+1:]...),
				}
			}
		}
	}

	return best, best.gain > 0
}
