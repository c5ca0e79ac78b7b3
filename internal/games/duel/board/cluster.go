package board

import (
	"github.com/vovakirdan/blockduel/internal/core"
)

// Cluster is a maximal 4-connected group of same-colored Normal blocks.
type Cluster struct {
	Color core.Color
	Cells []core.Coord // row-major order
}

// Size returns the number of cells in the cluster.
func (c Cluster) Size() int {
	return len(c.Cells)
}

// DetectClusters returns every cluster of at least minSize Normal blocks.
// Clusters are ordered by their first cell in row-major order, so the
// result is deterministic for a given grid.
func DetectClusters(g *Grid, minSize int) []Cluster {
	visited := make([]bool, len(g.Cells))
	var clusters []Cluster

	for i, cell := range g.Cells {
		if visited[i] || !cell.Filled || cell.Block.Kind != KindNormal {
			continue
		}
		color := cell.Block.Color
		cells := flood(g, core.C(i%g.W, i/g.W), visited, func(b Block) bool {
			return b.Kind == KindNormal && b.Color == color
		})
		if len(cells) >= minSize {
			clusters = append(clusters, Cluster{Color: color, Cells: cells})
		}
	}
	return clusters
}

// flood collects the 4-connected region reachable from start over blocks
// accepted by match. Visited cells are marked in visited. The returned cells
// are sorted row-major.
func flood(g *Grid, start core.Coord, visited []bool, match func(Block) bool) []core.Coord {
	queue := []core.Coord{start}
	visited[g.index(start)] = true
	var out []core.Coord

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		out = append(out, c)
		for _, d := range core.Dirs {
			n := c.Step(d)
			if !g.InBounds(n) {
				continue
			}
			ni := g.index(n)
			if visited[ni] {
				continue
			}
			nc := g.Cells[ni]
			if !nc.Filled || !match(nc.Block) {
				continue
			}
			visited[ni] = true
			queue = append(queue, n)
		}
	}
	sortCoords(out)
	return out
}

func sortCoords(cs []core.Coord) {
	// Insertion sort: regions are small and mostly ordered already.
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && cs[j].Less(cs[j-1]); j-- {
			cs[j], cs[j-1] = cs[j-1], cs[j]
		}
	}
}
