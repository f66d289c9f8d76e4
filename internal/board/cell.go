// Package board provides the minesweeper board engine: mine layout,
// adjacency counting and the flood-fill reveal.
package board

// Point is a cell coordinate on the board.
type Point struct {
	X, Y int
}

// neighborOffsets lists the 8 surrounding cell deltas.
var neighborOffsets = [8]Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Outcome is the result of revealing a cell.
type Outcome int

const (
	// Safe means the cell was not a mine and is now revealed.
	Safe Outcome = iota
	// Mine means the cell was a mine and the game is lost.
	Mine
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Safe:
		return "safe"
	case Mine:
		return "mine"
	default:
		return "unknown"
	}
}

// State is the lifecycle state of a board.
type State int

const (
	// InProgress is the initial state; reveals are accepted.
	InProgress State = iota
	// Won means every non-mine cell has been revealed.
	Won
	// Lost means a mine was revealed.
	Lost
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further reveals are accepted.
func (s State) Terminal() bool {
	return s == Won || s == Lost
}
