package board

// ApplyGravity compacts every column so no empty cell sits below a filled
// one. Blocks keep their relative order within a column. Returns true if any
// block moved.
func ApplyGravity(g *Grid) bool {
	moved := false
	for x := 0; x < g.W; x++ {
		write := g.H - 1
		for y := g.H - 1; y >= 0; y-- {
			i := y*g.W + x
			if !g.Cells[i].Filled {
				continue
			}
			if y != write {
				g.Cells[write*g.W+x] = g.Cells[i]
				g.Cells[i] = Empty()
				moved = true
			}
			write--
		}
	}
	return moved
}

// Settled reports whether no filled cell has an empty cell directly below it.
func Settled(g *Grid) bool {
	for x := 0; x < g.W; x++ {
		seenEmpty := false
		for y := g.H - 1; y >= 0; y-- {
			filled := g.Cells[y*g.W+x].Filled
			if !filled {
				seenEmpty = true
			} else if seenEmpty {
				return false
			}
		}
	}
	return true
}
