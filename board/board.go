package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/samber/lo"

	"github.com/domino14/slide2048/linetable"
	"github.com/domino14/slide2048/tilemapping"
)

const (
	// Dim is the width and height of the board.
	Dim = 4
	// NumCells is the number of cells on the board.
	NumCells = Dim * Dim
	// WinExponent is the exponent of the 2048 tile.
	WinExponent = 11
)

var (
	ErrBadLength   = errors.New("a board needs exactly 16 cells")
	ErrBadExponent = errors.New("cell exponent out of range")
)

// Board is a 4x4 grid of tile exponents in row-major order. It is a value
// type; moves return a new Board and never modify the receiver.
type Board [NumCells]uint8

// FromExponents builds a board from 16 exponents, row-major.
func FromExponents(exps []uint8) (Board, error) {
	var b Board
	if len(exps) != NumCells {
		return b, fmt.Errorf("%w: got %d", ErrBadLength, len(exps))
	}
	for i, e := range exps {
		if e > tilemapping.MaxExponent {
			return b, fmt.Errorf("%w: cell %d has %d", ErrBadExponent, i, e)
		}
		b[i] = e
	}
	return b, nil
}

// FromFaces builds a board from 16 face values as shown by the game.
func FromFaces(faces []int) (Board, error) {
	if len(faces) != NumCells {
		return Board{}, fmt.Errorf("%w: got %d", ErrBadLength, len(faces))
	}
	exps, err := tilemapping.ToExponents(faces)
	if err != nil {
		return Board{}, err
	}
	return FromExponents(exps)
}

// FromString parses a board written as 16 face values, e.g.
// "0 0 0 0 / 0 0 0 0 / 0 0 0 0 / 2 2 0 0".
func FromString(s string) (Board, error) {
	faces, err := tilemapping.ParseFaces(s)
	if err != nil {
		return Board{}, err
	}
	return FromFaces(faces)
}

// Apply slides the board in direction d. It returns the new board and
// whether anything moved; an unchanged board means d is not a legal move.
func (b Board) Apply(t *linetable.Table, d Direction) (Board, bool) {
	order := &permutations[d]
	changed := false
	for i := 0; i < NumCells; i += Dim {
		src := linetable.Pack(b[order[i]], b[order[i+1]], b[order[i+2]], b[order[i+3]])
		dst, ok := t.Lookup(src)
		if !ok {
			continue
		}
		changed = true
		line := linetable.Unpack(dst)
		b[order[i]] = line[0]
		b[order[i+1]] = line[1]
		b[order[i+2]] = line[2]
		b[order[i+3]] = line[3]
	}
	return b, changed
}

// Move is Apply against the process-wide line table.
func (b Board) Move(d Direction) (Board, bool) {
	return b.Apply(linetable.Get(), d)
}

// LegalMoves returns the directions that change the board, in search order.
func (b Board) LegalMoves(t *linetable.Table) []Direction {
	return lo.Filter(Directions[:], func(d Direction, _ int) bool {
		_, changed := b.Apply(t, d)
		return changed
	})
}

// IsWin is true if any cell holds the 2048 tile.
func (b Board) IsWin() bool {
	return lo.Contains(b[:], WinExponent)
}

// EmptyCount is the number of empty cells.
func (b Board) EmptyCount() int {
	return lo.Count(b[:], 0)
}

// Count is the number of cells holding exponent e.
func (b Board) Count(e uint8) int {
	return lo.Count(b[:], e)
}

// MaxExponent is the largest exponent on the board.
func (b Board) MaxExponent() uint8 {
	return lo.Max(b[:])
}

// At returns the exponent at row, col.
func (b Board) At(row, col int) uint8 {
	return b[row*Dim+col]
}

// Tiles returns the non-empty exponents in row-major order.
func (b Board) Tiles() []uint8 {
	return lo.Filter(b[:], func(e uint8, _ int) bool { return e != 0 })
}

// Faces returns the face values of all cells, row-major.
func (b Board) Faces() []int {
	return tilemapping.ToFaces(b[:])
}

// Hash is a stable 64-bit fingerprint of the board.
func (b Board) Hash() uint64 {
	return xxhash.Sum64(b[:])
}

// Mirror flips the board left to right.
func (b Board) Mirror() Board {
	var m Board
	for row := 0; row < Dim; row++ {
		for col := 0; col < Dim; col++ {
			m[row*Dim+col] = b[row*Dim+Dim-1-col]
		}
	}
	return m
}

// Transpose swaps rows and columns.
func (b Board) Transpose() Board {
	var t Board
	for row := 0; row < Dim; row++ {
		for col := 0; col < Dim; col++ {
			t[row*Dim+col] = b[col*Dim+row]
		}
	}
	return t
}

// ShortString is the board's 16 face values on one line, rows separated by
// slashes; FromString parses it back.
func (b Board) ShortString() string {
	var sb strings.Builder
	for i, e := range b {
		if i > 0 {
			if i%Dim == 0 {
				sb.WriteString(" / ")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(tilemapping.UserVisible(e))
	}
	return sb.String()
}

// ToDisplayText renders the board as a grid of face values.
func (b Board) ToDisplayText() string {
	var sb strings.Builder
	sep := "+" + strings.Repeat("------+", Dim) + "\n"
	sb.WriteString(sep)
	for row := 0; row < Dim; row++ {
		sb.WriteString("|")
		for col := 0; col < Dim; col++ {
			sb.WriteString(fmt.Sprintf("%6s|", tilemapping.UserVisible(b.At(row, col))))
		}
		sb.WriteString("\n")
		sb.WriteString(sep)
	}
	return sb.String()
}

func (b Board) String() string {
	return b.ShortString()
}
