package board

// This file contains some sample boards, used mostly for testing. They are
// written as exponents, row-major.

var (
	// BottomPair has two 2-tiles next to each other on the bottom row.
	BottomPair = Board{
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		1, 1, 0, 0,
	}

	// Stuck is full and has no two equal neighbours; no move is legal.
	Stuck = Board{
		1, 2, 1, 2,
		2, 1, 2, 1,
		1, 2, 1, 2,
		2, 1, 2, 1,
	}

	// OnlyDown can only move down: the top row is full of distinct tiles
	// that no other direction can shift.
	OnlyDown = Board{
		1, 2, 3, 4,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	}

	// Won holds a 2048 tile.
	Won = Board{
		11, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 0,
	}

	// Midgame is a typical position with a corner strategy underway.
	Midgame = Board{
		7, 6, 5, 3,
		4, 4, 2, 1,
		2, 1, 0, 0,
		1, 0, 0, 0,
	}
)
