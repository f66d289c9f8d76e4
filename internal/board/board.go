package board

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	// ErrOutOfBounds is returned for coordinates outside the board.
	ErrOutOfBounds = errors.New("coordinates out of bounds")
	// ErrInvalidConfig is returned when a board cannot be built from the given parameters.
	ErrInvalidConfig = errors.New("invalid board configuration")
	// ErrGameOver is returned by Reveal once the board is won or lost.
	ErrGameOver = errors.New("game is over")
)

// MaxCells bounds the board area so width*height cannot overflow.
const MaxCells = 1 << 20

// Board holds the mine layout and revealed state for one game.
type Board struct {
	Width  int
	Height int

	mines     []bool // indexed by y*Width + x
	revealed  []bool
	mineCount int
	hidden    int // unrevealed non-mine cells
	state     State
	detonated Point
}

// New creates a board with mineCount mines placed uniformly at random.
// A nil rng is seeded from the clock.
func New(width, height, mineCount int, rng *rand.Rand) (*Board, error) {
	if err := Validate(width, height, mineCount); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := newEmpty(width, height)
	for _, idx := range rng.Perm(width * height)[:mineCount] {
		b.mines[idx] = true
	}
	b.finish(mineCount)
	return b, nil
}

// NewWithMines creates a board with mines at exactly the given points.
func NewWithMines(width, height int, mines []Point) (*Board, error) {
	if err := Validate(width, height, len(mines)); err != nil {
		return nil, err
	}

	b := newEmpty(width, height)
	for _, p := range mines {
		if !b.InBounds(p.X, p.Y) {
			return nil, fmt.Errorf("%w: mine (%d,%d) outside %dx%d board", ErrInvalidConfig, p.X, p.Y, width, height)
		}
		idx := b.index(p.X, p.Y)
		if b.mines[idx] {
			return nil, fmt.Errorf("%w: duplicate mine at (%d,%d)", ErrInvalidConfig, p.X, p.Y)
		}
		b.mines[idx] = true
	}
	b.finish(len(mines))
	return b, nil
}

// Validate checks board parameters without building a board.
func Validate(width, height, mineCount int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidConfig, width, height)
	}
	if width > MaxCells/height {
		return fmt.Errorf("%w: %dx%d board exceeds %d cells", ErrInvalidConfig, width, height, MaxCells)
	}
	if mineCount < 0 {
		return fmt.Errorf("%w: negative mine count %d", ErrInvalidConfig, mineCount)
	}
	if mineCount > width*height {
		return fmt.Errorf("%w: %d mines do not fit on a %dx%d board", ErrInvalidConfig, mineCount, width, height)
	}
	return nil
}

func newEmpty(width, height int) *Board {
	return &Board{
		Width:    width,
		Height:   height,
		mines:    make([]bool, width*height),
		revealed: make([]bool, width*height),
	}
}

func (b *Board) finish(mineCount int) {
	b.mineCount = mineCount
	b.hidden = b.Width*b.Height - mineCount
	// A board made entirely of mines has nothing left to reveal.
	if b.hidden == 0 {
		b.state = Won
	}
}

// InBounds returns true if the coordinate lies on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

func (b *Board) index(x, y int) int {
	return y*b.Width + x
}

// IsMine returns true if the cell holds a mine. Out-of-range cells are never mines.
func (b *Board) IsMine(x, y int) bool {
	return b.InBounds(x, y) && b.mines[b.index(x, y)]
}

// IsRevealed returns true if the cell has been revealed.
func (b *Board) IsRevealed(x, y int) bool {
	return b.InBounds(x, y) && b.revealed[b.index(x, y)]
}

// AdjacentMines counts mines among the in-bounds neighbors of (x, y).
func (b *Board) AdjacentMines(x, y int) (int, error) {
	if !b.InBounds(x, y) {
		return 0, fmt.Errorf("adjacent mines at (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return b.adjacent(x, y), nil
}

func (b *Board) adjacent(x, y int) int {
	count := 0
	for _, d := range neighborOffsets {
		if b.IsMine(x+d.X, y+d.Y) {
			count++
		}
	}
	return count
}

// MineCount returns the number of mines on the board.
func (b *Board) MineCount() int {
	return b.mineCount
}

// UnrevealedSafe returns how many non-mine cells are still hidden.
func (b *Board) UnrevealedSafe() int {
	return b.hidden
}

// State returns the current game state.
func (b *Board) State() State {
	return b.state
}

// Detonated returns the mine that lost the game, if any.
func (b *Board) Detonated() (Point, bool) {
	return b.detonated, b.state == Lost
}

// Reveal opens the cell at (x, y).
// Hitting a mine loses the game and leaves the revealed state untouched.
// Otherwise the cell is revealed and, if it has no adjacent mines, its
// neighbors are revealed transitively. Revealing the last safe cell wins.
func (b *Board) Reveal(x, y int) (Outcome, error) {
	if !b.InBounds(x, y) {
		return Safe, fmt.Errorf("reveal (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	if b.state.Terminal() {
		return Safe, fmt.Errorf("reveal (%d,%d): %w", x, y, ErrGameOver)
	}

	if b.mines[b.index(x, y)] {
		b.state = Lost
		b.detonated = Point{X: x, Y: y}
		return Mine, nil
	}

	b.flood(x, y)

	if b.hidden == 0 {
		b.state = Won
	}
	return Safe, nil
}

// flood reveals (x, y) and expands through zero-count cells with an
// explicit stack. Cells are marked when pushed so each is visited once.
func (b *Board) flood(x, y int) {
	b.mark(x, y)
	stack := []Point{{X: x, Y: y}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if b.adjacent(p.X, p.Y) != 0 {
			continue
		}
		for _, d := range neighborOffsets {
			nx, ny := p.X+d.X, p.Y+d.Y
			if !b.InBounds(nx, ny) {
				continue
			}
			idx := b.index(nx, ny)
			if b.revealed[idx] || b.mines[idx] {
				continue
			}
			b.mark(nx, ny)
			stack = append(stack, Point{X: nx, Y: ny})
		}
	}
}

func (b *Board) mark(x, y int) {
	idx := b.index(x, y)
	if b.revealed[idx] {
		return
	}
	b.revealed[idx] = true
	b.hidden--
}
