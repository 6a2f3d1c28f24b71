package grammar

import (
	"math"

	"github.com/nihei9/tabgen/bitset"
)

const depthFinalized = math.MaxInt

// digraph computes, for every node of a relation, the union of the follow
// rows of every node reachable from it. It is a Tarjan-style strongly
// connected component traversal that propagates rows on the fly: members
// of one component end up with identical rows.
type digraph struct {
	relation [][]int
	follow   *bitset.Matrix
	depth    []int
	vertices []int
}

func runDigraph(relation [][]int, follow *bitset.Matrix) {
	d := &digraph{
		relation: relation,
		follow:   follow,
		depth:    make([]int, len(relation)),
	}
	for n, edges := range relation {
		if d.depth[n] == 0 && len(edges) > 0 {
			d.traverse(n)
		}
	}
}

func (d *digraph) traverse(n int) {
	d.vertices = append(d.vertices, n)
	height := len(d.vertices)
	d.depth[n] = height

	for _, m := range d.relation[n] {
		if d.depth[m] == 0 {
			d.traverse(m)
		}
		if d.depth[n] > d.depth[m] {
			d.depth[n] = d.depth[m]
		}
		d.follow.MergeRow(n, d.follow, m)
	}

	if d.depth[n] != height {
		return
	}
	for {
		m := d.vertices[len(d.vertices)-1]
		d.vertices = d.vertices[:len(d.vertices)-1]
		d.depth[m] = depthFinalized
		if m == n {
			break
		}
		d.follow.CopyRow(m, d.follow, n)
	}
}
