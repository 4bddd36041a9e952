package tilemapping

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// A tile is internally represented by its exponent: the face value 2^e is
// stored as e. The 0 value is an empty cell. Since the largest face the game
// can show is 32768, every exponent fits in a nibble.
const (
	// MaxExponent is the largest exponent a cell can hold.
	MaxExponent = 15
	// EmptyToken is the user-visible representation of an empty cell.
	EmptyToken = "."
)

var ErrInvalidFace = errors.New("face value is not 0 or a power of two up to 32768")

// FaceToExponent maps a face value shown by the game (0, 2, 4, ... 32768)
// to its exponent.
func FaceToExponent(face int) (uint8, error) {
	if face == 0 {
		return 0, nil
	}
	if face < 2 || face&(face-1) != 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidFace, face)
	}
	e := uint8(0)
	for f := face; f > 1; f >>= 1 {
		e++
	}
	if e > MaxExponent {
		return 0, fmt.Errorf("%w: %d", ErrInvalidFace, face)
	}
	return e, nil
}

// ExponentToFace is the inverse of FaceToExponent.
func ExponentToFace(e uint8) int {
	if e == 0 {
		return 0
	}
	return 1 << e
}

// ToExponents converts a slice of face values.
func ToExponents(faces []int) ([]uint8, error) {
	exps := make([]uint8, len(faces))
	for i, f := range faces {
		e, err := FaceToExponent(f)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		exps[i] = e
	}
	return exps, nil
}

// ToFaces converts a slice of exponents back to face values.
func ToFaces(exps []uint8) []int {
	faces := make([]int, len(exps))
	for i, e := range exps {
		faces[i] = ExponentToFace(e)
	}
	return faces
}

// ParseFaces parses a list of face values separated by spaces, commas or
// slashes, e.g. "0 0 2 2 / 4 0 0 0 / ...". An EmptyToken counts as 0.
func ParseFaces(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == '\t' || r == '\n'
	})
	faces := make([]int, 0, len(fields))
	for _, f := range fields {
		if f == EmptyToken {
			faces = append(faces, 0)
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad face value %q: %w", f, err)
		}
		faces = append(faces, v)
	}
	return faces, nil
}

// UserVisible returns the face value of an exponent as a string, or the
// EmptyToken for an empty cell.
func UserVisible(e uint8) string {
	if e == 0 {
		return EmptyToken
	}
	return strconv.Itoa(ExponentToFace(e))
}
