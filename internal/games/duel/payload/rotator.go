package payload

// DefaultRotation spreads units across a six-wide board from the edges in.
var DefaultRotation = []int{0, 5, 1, 4, 2, 3}

// Rotator walks a fixed cyclic sequence of columns.
type Rotator struct {
	seq []int
	pos int
}

// NewRotator returns a rotator over seq. An empty seq uses DefaultRotation.
func NewRotator(seq []int) *Rotator {
	if len(seq) == 0 {
		seq = DefaultRotation
	}
	return &Rotator{seq: append([]int(nil), seq...)}
}

// Period returns the length of the sequence.
func (r *Rotator) Period() int {
	return len(r.seq)
}

// Peek returns the column the next unit would try first.
func (r *Rotator) Peek() int {
	return r.seq[r.pos]
}

// Pick returns the next column with room and advances past it. Full columns
// are skipped. When no column in a whole cycle has room, ok is false and the
// rotator does not move.
func (r *Rotator) Pick(room func(col int) int) (col int, ok bool) {
	for i := 0; i < len(r.seq); i++ {
		idx := (r.pos + i) % len(r.seq)
		c := r.seq[idx]
		if room(c) > 0 {
			r.pos = (idx + 1) % len(r.seq)
			return c, true
		}
	}
	return 0, false
}

// Reset returns to the start of the sequence.
func (r *Rotator) Reset() {
	r.pos = 0
}
