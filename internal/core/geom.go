package core

import "fmt"

// Coord is a cell position on a board. X grows right, Y grows down (row 0 is the top).
type Coord struct {
	X, Y int
}

// C is shorthand for Coord{X: x, Y: y}.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// Add returns the component-wise sum.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Step moves one cell in direction d.
func (c Coord) Step(d Dir) Coord {
	return c.Add(d.Delta())
}

// Less orders coordinates row-major (top row first, then left to right).
func (c Coord) Less(o Coord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Dir is one of the four orthogonal directions, clockwise from Up.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// Dirs lists all directions in clockwise order. Flood fills iterate it,
// so its order fixes the traversal order.
var Dirs = [4]Dir{DirUp, DirRight, DirDown, DirLeft}

// Delta returns the unit offset for the direction.
func (d Dir) Delta() Coord {
	switch d {
	case DirUp:
		return Coord{0, -1}
	case DirRight:
		return Coord{1, 0}
	case DirDown:
		return Coord{0, 1}
	case DirLeft:
		return Coord{-1, 0}
	}
	return Coord{}
}

// CW returns the direction rotated a quarter turn clockwise.
func (d Dir) CW() Dir {
	return (d + 1) % 4
}

// CCW returns the direction rotated a quarter turn counter-clockwise.
func (d Dir) CCW() Dir {
	return (d + 3) % 4
}

// Opposite returns the reverse direction.
func (d Dir) Opposite() Dir {
	return (d + 2) % 4
}

func (d Dir) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	}
	return "?"
}

// Clamp restricts an integer value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
