// Package game provides the main game loop and round management.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/minesweeper/internal/board"
	"github.com/samdwyer/minesweeper/internal/telemetry"
	"github.com/samdwyer/minesweeper/internal/theme"
	"github.com/samdwyer/minesweeper/internal/ui"
)

// Status messages shown under the board.
const (
	msgStart      = "Reveal a cell."
	msgLost       = "Game Over! You hit a mine. Press r to play again."
	msgWon        = "You win! Press r to play again."
	msgOutOfRange = "Coordinates out of range. Please try again."
)

// Game holds the entire game state.
type Game struct {
	cfg      Config
	screen   *ui.Screen
	renderer *ui.Renderer
	rng      *rand.Rand
	seed     int64

	board   *board.Board
	cursor  board.Point
	status  string
	reveals int
	started time.Time
	running bool
	buttons tcell.ButtonMask // mouse buttons held at the last mouse event
}

// New creates a new game instance on the terminal.
func New(cfg Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	th, err := theme.LoadTheme()
	if err != nil {
		return nil, err
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	return newGame(cfg, screen, th), nil
}

func newGame(cfg Config, screen *ui.Screen, th *theme.Theme) *Game {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Game{
		cfg:      cfg,
		screen:   screen,
		renderer: ui.NewRenderer(screen, th),
		rng:      rand.New(rand.NewSource(seed)),
		seed:     seed,
		running:  true,
	}
}

// Run executes the main game loop until the player quits.
func (g *Game) Run(ctx context.Context) error {
	defer g.Close()

	if err := g.newRound(ctx); err != nil {
		return err
	}

	for g.running {
		g.renderer.Render(g.board, g.cursor, g.status)
		g.handleInput(ctx)
	}
	return nil
}

// newRound discards the current board and deals a fresh one.
func (g *Game) newRound(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.init")
	defer span.End()

	b, err := board.New(g.cfg.Width, g.cfg.Height, g.cfg.Mines, g.rng)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "board creation failed")
		return fmt.Errorf("new round: %w", err)
	}

	span.SetAttributes(
		attribute.Int("board.width", b.Width),
		attribute.Int("board.height", b.Height),
		attribute.Int("board.mines", b.MineCount()),
		attribute.Int64("game.seed", g.seed),
	)

	g.board = b
	g.cursor = board.Point{X: b.Width / 2, Y: b.Height / 2}
	g.status = msgStart
	g.reveals = 0
	g.started = time.Now()

	// A board with no safe cells is won before the first reveal.
	if b.State().Terminal() {
		g.status = msgWon
		g.endRound(ctx)
	}
	return nil
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventMouse:
		g.handleMouseEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	case nil:
		// Screen finalized.
		g.running = false
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyUp:
		g.moveCursor(0, -1)
	case tcell.KeyDown:
		g.moveCursor(0, 1)
	case tcell.KeyLeft:
		g.moveCursor(-1, 0)
	case tcell.KeyRight:
		g.moveCursor(1, 0)
	case tcell.KeyEnter:
		g.reveal(ctx, g.cursor)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'k':
			g.moveCursor(0, -1)
		case 'j':
			g.moveCursor(0, 1)
		case 'h':
			g.moveCursor(-1, 0)
		case 'l':
			g.moveCursor(1, 0)
		case ' ':
			g.reveal(ctx, g.cursor)
		case 'r', 'R':
			if err := g.newRound(ctx); err != nil {
				g.status = err.Error()
			}
		}
	}
}

// handleMouseEvent reveals the cell under a left click.
// Only the press is acted on; dragging with the button held does nothing.
func (g *Game) handleMouseEvent(ctx context.Context, ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0 && g.buttons&tcell.Button1 == 0
	g.buttons = ev.Buttons()
	if !pressed {
		return
	}
	sx, sy := ev.Position()
	p, ok := ui.CellAt(g.board, sx, sy)
	if !ok {
		return
	}
	g.cursor = p
	g.reveal(ctx, p)
}

// moveCursor moves the cursor by the given delta, clamped to the board.
func (g *Game) moveCursor(dx, dy int) {
	x := min(max(g.cursor.X+dx, 0), g.board.Width-1)
	y := min(max(g.cursor.Y+dy, 0), g.board.Height-1)
	g.cursor = board.Point{X: x, Y: y}
}

// reveal opens a cell and updates the round status.
// Finished rounds ignore reveals until restarted.
func (g *Game) reveal(ctx context.Context, p board.Point) {
	if g.board.State().Terminal() {
		return
	}

	tracer := telemetry.Tracer("board")
	ctx, span := tracer.Start(ctx, "board.reveal")
	defer span.End()

	before := g.board.UnrevealedSafe()
	outcome, err := g.board.Reveal(p.X, p.Y)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, board.ErrOutOfBounds) {
			g.status = msgOutOfRange
		} else {
			g.status = err.Error()
		}
		return
	}
	g.reveals++

	span.SetAttributes(
		attribute.Int("x", p.X),
		attribute.Int("y", p.Y),
		attribute.String("outcome", outcome.String()),
		attribute.Int("cells_revealed", before-g.board.UnrevealedSafe()),
		attribute.Int("unrevealed_safe", g.board.UnrevealedSafe()),
	)

	switch g.board.State() {
	case board.Lost:
		g.status = msgLost
		g.endRound(ctx)
	case board.Won:
		g.status = msgWon
		g.endRound(ctx)
	default:
		g.status = fmt.Sprintf("%d safe cells left.", g.board.UnrevealedSafe())
	}
}

// endRound records the outcome of a finished round.
func (g *Game) endRound(ctx context.Context) {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "game.end")
	span.SetAttributes(
		attribute.String("outcome", g.board.State().String()),
		attribute.Int("reveals", g.reveals),
		attribute.Int64("duration_ms", time.Since(g.started).Milliseconds()),
	)
	span.End()
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
