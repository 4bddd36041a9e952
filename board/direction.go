package board

import (
	"fmt"
	"strings"
)

// Direction is the direction all tiles slide toward.
type Direction int8

// The search tries directions in this order.
const (
	Left Direction = iota
	Up
	Right
	Down

	// NoDirection means no legal move exists.
	NoDirection Direction = -1
)

// Directions lists the four real directions in search order.
var Directions = [4]Direction{Left, Up, Right, Down}

// Key codes of the arrow keys a move executor in a browser would fire.
const (
	KeyCodeLeft  = 37
	KeyCodeUp    = 38
	KeyCodeRight = 39
	KeyCodeDown  = 40
)

// permutations holds, per direction, the board indices grouped into four
// lines of four, each line starting at the edge the tiles slide toward.
var permutations [4][NumCells]int

func init() {
	for row := 0; row < Dim; row++ {
		for col := 0; col < Dim; col++ {
			i := row*Dim + col
			// left: rows, read left to right
			permutations[Left][i] = row*Dim + col
			// right: rows, read right to left
			permutations[Right][i] = row*Dim + (Dim - 1 - col)
			// up: columns, read top to bottom
			permutations[Up][i] = col*Dim + row
			// down: columns, read bottom to top
			permutations[Down][i] = (Dim-1-col)*Dim + row
		}
	}
}

// Permutation returns the index order used to read the board as four lines
// for a slide in direction d.
func (d Direction) Permutation() [NumCells]int {
	return permutations[d]
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case NoDirection:
		return "none"
	}
	return fmt.Sprintf("Direction(%d)", int8(d))
}

// KeyCode returns the DOM key code for the direction, or 0 for NoDirection.
func (d Direction) KeyCode() int {
	switch d {
	case Left:
		return KeyCodeLeft
	case Up:
		return KeyCodeUp
	case Right:
		return KeyCodeRight
	case Down:
		return KeyCodeDown
	}
	return 0
}

// Valid is true for the four real directions.
func (d Direction) Valid() bool {
	return d >= Left && d <= Down
}

// ParseDirection parses a direction name or its first letter.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, nil
	case "up", "u":
		return Up, nil
	case "right", "r":
		return Right, nil
	case "down", "d":
		return Down, nil
	}
	return NoDirection, fmt.Errorf("unknown direction %q", s)
}
