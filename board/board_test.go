package board

import (
	"errors"
	"os"
	"sort"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/domino14/slide2048/linetable"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func randomBoard(maxExp int, emptyPct int) Board {
	var b Board
	for i := range b {
		if frand.Intn(100) < emptyPct {
			continue
		}
		b[i] = uint8(1 + frand.Intn(maxExp))
	}
	return b
}

func TestPermutations(t *testing.T) {
	is := is.New(t)
	is.Equal(Left.Permutation(), [16]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	is.Equal(Right.Permutation(), [16]int{3, 2, 1, 0, 7, 6, 5, 4, 11, 10, 9, 8, 15, 14, 13, 12})
	is.Equal(Up.Permutation(), [16]int{0, 4, 8, 12, 1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15})
	is.Equal(Down.Permutation(), [16]int{12, 8, 4, 0, 13, 9, 5, 1, 14, 10, 6, 2, 15, 11, 7, 3})
}

func TestBottomRowMerge(t *testing.T) {
	is := is.New(t)
	nb, changed := BottomPair.Move(Left)
	is.True(changed)
	is.Equal(nb, Board{
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		2, 0, 0, 0,
	})
	// the original is untouched
	is.Equal(BottomPair[12], uint8(1))
	is.Equal(BottomPair[13], uint8(1))
}

func TestEachDirection(t *testing.T) {
	is := is.New(t)
	b := Board{
		1, 0, 1, 0,
		0, 0, 0, 0,
		0, 2, 0, 0,
		0, 2, 0, 3,
	}
	type testcase struct {
		d   Direction
		exp Board
	}
	for _, tc := range []testcase{
		{Left, Board{2, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 2, 3, 0, 0}},
		{Right, Board{0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 2, 3}},
		{Up, Board{1, 3, 1, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{Down, Board{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 3, 1, 3}},
	} {
		nb, changed := b.Move(tc.d)
		is.True(changed)
		is.Equal(nb, tc.exp)
	}
}

func TestStuckBoard(t *testing.T) {
	is := is.New(t)
	tbl := linetable.Get()
	for _, d := range Directions {
		nb, changed := Stuck.Apply(tbl, d)
		is.True(!changed)
		is.Equal(nb, Stuck)
	}
	is.Equal(len(Stuck.LegalMoves(tbl)), 0)
	is.Equal(Stuck.EmptyCount(), 0)
}

func TestOnlyDown(t *testing.T) {
	is := is.New(t)
	is.Equal(OnlyDown.LegalMoves(linetable.Get()), []Direction{Down})
}

func TestLeftThenRightPreservesTiles(t *testing.T) {
	is := is.New(t)
	// No two equal tiles in any row, so neither slide can merge.
	b := Board{
		0, 1, 0, 2,
		3, 0, 0, 0,
		0, 4, 5, 0,
		6, 0, 7, 8,
	}
	l, changed := b.Move(Left)
	is.True(changed)
	r, changed := l.Move(Right)
	is.True(changed)
	is.Equal(r, Board{
		0, 0, 1, 2,
		0, 0, 0, 3,
		0, 0, 4, 5,
		0, 6, 7, 8,
	})
	sorted := func(xs []uint8) []uint8 {
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		return xs
	}
	is.Equal(sorted(r.Tiles()), sorted(b.Tiles()))
}

func TestSlideTwiceRandom(t *testing.T) {
	is := is.New(t)
	tbl := linetable.Get()
	for i := 0; i < 2000; i++ {
		b := randomBoard(6, 40)
		for _, d := range Directions {
			once, changed := b.Apply(tbl, d)
			if !changed {
				is.Equal(once, b)
				continue
			}
			// merges only ever shrink the tile count
			is.True(len(once.Tiles()) <= len(b.Tiles()))
			twice, again := once.Apply(tbl, d)
			if len(twice.Tiles()) == len(once.Tiles()) {
				// no merge on the second slide means nothing moved
				is.True(!again)
				is.Equal(twice, once)
			}
		}
	}
}

func TestIsWin(t *testing.T) {
	is := is.New(t)
	is.True(Won.IsWin())
	is.True(!Midgame.IsWin())
	var b Board
	b[15] = WinExponent
	is.True(b.IsWin())
}

func TestQueries(t *testing.T) {
	is := is.New(t)
	is.Equal(Midgame.MaxExponent(), uint8(7))
	is.Equal(Midgame.EmptyCount(), 5)
	is.Equal(Midgame.Count(4), 2)
	is.Equal(Midgame.At(1, 2), uint8(2))
	is.Equal(Board{}.MaxExponent(), uint8(0))
}

func TestSymmetries(t *testing.T) {
	is := is.New(t)
	is.Equal(Midgame.Mirror().Mirror(), Midgame)
	is.Equal(Midgame.Transpose().Transpose(), Midgame)
	is.Equal(Midgame.Mirror()[0], uint8(3))
	is.Equal(Midgame.Transpose()[1], uint8(4))
	// sliding a mirrored board right is the mirror of sliding left
	l, _ := Midgame.Move(Left)
	r, _ := Midgame.Mirror().Move(Right)
	is.Equal(r.Mirror(), l)
	u, _ := Midgame.Move(Up)
	tl, _ := Midgame.Transpose().Move(Left)
	is.Equal(tl.Transpose(), u)
}

func TestFromFaces(t *testing.T) {
	is := is.New(t)
	b, err := FromString("0 0 0 0 / 0 0 0 0 / 0 0 0 0 / 2 2 0 0")
	is.NoErr(err)
	is.Equal(b, BottomPair)
	is.Equal(b.ShortString(), ". . . . / . . . . / . . . . / 2 2 . .")

	again, err := FromString(b.ShortString())
	is.NoErr(err)
	is.Equal(again, b)

	_, err = FromFaces([]int{2, 2})
	is.True(errors.Is(err, ErrBadLength))

	_, err = FromExponents([]uint8{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 16})
	is.True(errors.Is(err, ErrBadExponent))

	is.Equal(BottomPair.Faces()[12], 2)
}

func TestHash(t *testing.T) {
	is := is.New(t)
	is.Equal(Midgame.Hash(), Midgame.Hash())
	is.True(Midgame.Hash() != Midgame.Mirror().Hash())
}

func TestDirection(t *testing.T) {
	is := is.New(t)
	is.Equal(Left.KeyCode(), 37)
	is.Equal(Up.KeyCode(), 38)
	is.Equal(Right.KeyCode(), 39)
	is.Equal(Down.KeyCode(), 40)
	is.Equal(NoDirection.KeyCode(), 0)
	is.Equal(Down.String(), "down")
	d, err := ParseDirection(" R ")
	is.NoErr(err)
	is.Equal(d, Right)
	_, err = ParseDirection("sideways")
	is.True(err != nil)
	is.True(!NoDirection.Valid())
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	txt := Won.ToDisplayText()
	is.True(len(txt) > 0)
	is.Equal(txt[:8], "+------+")
}
