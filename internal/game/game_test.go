package game

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/samdwyer/minesweeper/internal/board"
	"github.com/samdwyer/minesweeper/internal/theme"
	"github.com/samdwyer/minesweeper/internal/ui"
)

// newTestGame builds a game on a simulation screen with a fixed mine layout.
func newTestGame(t *testing.T, width, height int, mines ...board.Point) *Game {
	t.Helper()

	screen, err := ui.NewSimulationScreen(80, 24)
	if err != nil {
		t.Fatalf("NewSimulationScreen() error: %v", err)
	}
	t.Cleanup(screen.Close)

	cfg := Config{Width: width, Height: height, Mines: len(mines), Seed: 1}
	g := newGame(cfg, screen, theme.MustLoadTheme())
	if err := g.newRound(context.Background()); err != nil {
		t.Fatalf("newRound() error: %v", err)
	}

	b, err := board.NewWithMines(width, height, mines)
	if err != nil {
		t.Fatalf("NewWithMines() error: %v", err)
	}
	g.board = b
	g.cursor = board.Point{}
	return g
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestNewRound(t *testing.T) {
	g := newTestGame(t, 3, 3)

	cfg := Config{Width: 9, Height: 7, Mines: 10, Seed: 99}
	g.cfg = cfg
	if err := g.newRound(context.Background()); err != nil {
		t.Fatalf("newRound() error: %v", err)
	}

	if g.board.Width != 9 || g.board.Height != 7 || g.board.MineCount() != 10 {
		t.Errorf("board = %dx%d with %d mines, want 9x7 with 10", g.board.Width, g.board.Height, g.board.MineCount())
	}
	if g.cursor != (board.Point{X: 4, Y: 3}) {
		t.Errorf("cursor = %v, want board center (4,3)", g.cursor)
	}
	if g.status != msgStart {
		t.Errorf("status = %q, want %q", g.status, msgStart)
	}
}

func TestCursorMovementClamped(t *testing.T) {
	g := newTestGame(t, 3, 2)
	ctx := context.Background()

	g.handleKeyEvent(ctx, key(tcell.KeyLeft))
	g.handleKeyEvent(ctx, key(tcell.KeyUp))
	if g.cursor != (board.Point{}) {
		t.Errorf("cursor = %v after moving past top-left, want (0,0)", g.cursor)
	}

	for i := 0; i < 5; i++ {
		g.handleKeyEvent(ctx, key(tcell.KeyRight))
		g.handleKeyEvent(ctx, runeKey('j'))
	}
	if g.cursor != (board.Point{X: 2, Y: 1}) {
		t.Errorf("cursor = %v after moving past bottom-right, want (2,1)", g.cursor)
	}

	g.handleKeyEvent(ctx, runeKey('h'))
	g.handleKeyEvent(ctx, runeKey('k'))
	g.handleKeyEvent(ctx, key(tcell.KeyDown))
	g.handleKeyEvent(ctx, runeKey('l'))
	if g.cursor != (board.Point{X: 2, Y: 1}) {
		t.Errorf("cursor = %v, want (2,1)", g.cursor)
	}
}

func TestRevealSafeCell(t *testing.T) {
	g := newTestGame(t, 3, 3, board.Point{X: 1, Y: 1})

	g.handleKeyEvent(context.Background(), runeKey(' '))

	if !g.board.IsRevealed(0, 0) {
		t.Error("cell under cursor should be revealed")
	}
	if g.board.State() != board.InProgress {
		t.Errorf("State() = %v, want InProgress", g.board.State())
	}
	if g.status != "7 safe cells left." {
		t.Errorf("status = %q, want %q", g.status, "7 safe cells left.")
	}
	if g.reveals != 1 {
		t.Errorf("reveals = %d, want 1", g.reveals)
	}
}

func TestRevealMineLoses(t *testing.T) {
	g := newTestGame(t, 3, 3, board.Point{X: 1, Y: 1})
	ctx := context.Background()

	g.handleKeyEvent(ctx, key(tcell.KeyRight))
	g.handleKeyEvent(ctx, key(tcell.KeyDown))
	g.handleKeyEvent(ctx, key(tcell.KeyEnter))

	if g.board.State() != board.Lost {
		t.Fatalf("State() = %v, want Lost", g.board.State())
	}
	if g.status != msgLost {
		t.Errorf("status = %q, want %q", g.status, msgLost)
	}

	// Reveals are ignored once the round is over.
	g.cursor = board.Point{}
	g.handleKeyEvent(ctx, key(tcell.KeyEnter))
	if g.board.IsRevealed(0, 0) {
		t.Error("reveal after loss should be ignored")
	}
	if g.reveals != 1 {
		t.Errorf("reveals = %d, want 1", g.reveals)
	}
}

func TestRevealCascadeWins(t *testing.T) {
	g := newTestGame(t, 4, 4)

	g.handleKeyEvent(context.Background(), key(tcell.KeyEnter))

	if g.board.State() != board.Won {
		t.Fatalf("State() = %v, want Won", g.board.State())
	}
	if g.status != msgWon {
		t.Errorf("status = %q, want %q", g.status, msgWon)
	}
}

func TestRestart(t *testing.T) {
	g := newTestGame(t, 3, 3, board.Point{X: 0, Y: 0})
	ctx := context.Background()

	g.handleKeyEvent(ctx, key(tcell.KeyEnter))
	if g.board.State() != board.Lost {
		t.Fatalf("State() = %v, want Lost", g.board.State())
	}

	old := g.board
	g.handleKeyEvent(ctx, runeKey('r'))
	if g.board == old {
		t.Error("restart should deal a new board")
	}
	if g.board.State() != board.InProgress {
		t.Errorf("State() after restart = %v, want InProgress", g.board.State())
	}
	if g.reveals != 0 || g.status != msgStart {
		t.Errorf("restart left reveals = %d, status = %q", g.reveals, g.status)
	}
}

func TestMouseClickReveals(t *testing.T) {
	g := newTestGame(t, 3, 3, board.Point{X: 1, Y: 1})
	ctx := context.Background()

	sx, sy := ui.ScreenPos(2, 2)
	g.handleMouseEvent(ctx, tcell.NewEventMouse(sx, sy, tcell.ButtonNone, tcell.ModNone))
	if g.board.IsRevealed(2, 2) {
		t.Error("mouse move without a button should not reveal")
	}

	g.handleMouseEvent(ctx, tcell.NewEventMouse(sx, sy, tcell.Button1, tcell.ModNone))
	if !g.board.IsRevealed(2, 2) {
		t.Error("left click should reveal the cell under the pointer")
	}
	if g.cursor != (board.Point{X: 2, Y: 2}) {
		t.Errorf("cursor = %v, want (2,2)", g.cursor)
	}

	g.handleMouseEvent(ctx, tcell.NewEventMouse(sx, sy, tcell.ButtonNone, tcell.ModNone))
	g.handleMouseEvent(ctx, tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone))
	if g.cursor != (board.Point{X: 2, Y: 2}) {
		t.Errorf("click outside the board moved cursor to %v", g.cursor)
	}
}

func TestMouseDragDoesNotReveal(t *testing.T) {
	g := newTestGame(t, 3, 3, board.Point{X: 1, Y: 1})
	ctx := context.Background()

	ax, ay := ui.ScreenPos(0, 0)
	bx, by := ui.ScreenPos(1, 1)
	g.handleMouseEvent(ctx, tcell.NewEventMouse(ax, ay, tcell.Button1, tcell.ModNone))
	g.handleMouseEvent(ctx, tcell.NewEventMouse(bx, by, tcell.Button1, tcell.ModNone))

	if !g.board.IsRevealed(0, 0) {
		t.Error("press at (0,0) should reveal it")
	}
	if g.board.State() != board.InProgress {
		t.Errorf("dragging onto a mine changed state to %v", g.board.State())
	}
	if g.reveals != 1 {
		t.Errorf("reveals = %d, want 1", g.reveals)
	}

	// Release then press again acts on the new cell.
	cx, cy := ui.ScreenPos(2, 0)
	g.handleMouseEvent(ctx, tcell.NewEventMouse(cx, cy, tcell.ButtonNone, tcell.ModNone))
	g.handleMouseEvent(ctx, tcell.NewEventMouse(cx, cy, tcell.Button1, tcell.ModNone))
	if !g.board.IsRevealed(2, 0) || g.reveals != 2 {
		t.Errorf("second press: revealed = %v, reveals = %d", g.board.IsRevealed(2, 0), g.reveals)
	}
}

func TestNewRoundAllMinesIsWon(t *testing.T) {
	g := newTestGame(t, 2, 2)
	g.cfg = Config{Width: 2, Height: 2, Mines: 4, Seed: 3}

	if err := g.newRound(context.Background()); err != nil {
		t.Fatalf("newRound() error: %v", err)
	}
	if g.board.State() != board.Won {
		t.Fatalf("State() = %v, want Won", g.board.State())
	}
	if g.status != msgWon {
		t.Errorf("status = %q, want %q", g.status, msgWon)
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	// Run closes the screen itself.
	screen, err := ui.NewSimulationScreen(80, 24)
	if err != nil {
		t.Fatalf("NewSimulationScreen() error: %v", err)
	}
	g := newGame(Config{Width: 3, Height: 3, Mines: 1, Seed: 5}, screen, theme.MustLoadTheme())

	if err := screen.PostEvent(runeKey('q')); err != nil {
		t.Fatalf("PostEvent() error: %v", err)
	}
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if g.running {
		t.Error("Run returned with the game still running")
	}
	if g.board == nil || g.board.MineCount() != 1 {
		t.Error("Run should deal a board before polling input")
	}
}

func TestQuitKeys(t *testing.T) {
	events := []*tcell.EventKey{
		key(tcell.KeyEscape),
		key(tcell.KeyCtrlC),
		runeKey('q'),
		runeKey('Q'),
	}

	for _, ev := range events {
		g := newTestGame(t, 2, 2)
		g.handleKeyEvent(context.Background(), ev)
		if g.running {
			t.Errorf("key %v should stop the game", ev.Name())
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{Width: 2, Height: 2, Mines: 5}); err == nil {
		t.Error("New() should reject a config with more mines than cells")
	}
}

func TestRevealRecordsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	g := newTestGame(t, 3, 3, board.Point{X: 1, Y: 1})
	g.handleKeyEvent(context.Background(), key(tcell.KeyEnter))
	g.moveCursor(1, 1)
	g.handleKeyEvent(context.Background(), key(tcell.KeyEnter))

	var reveals, ends int
	for _, s := range exporter.GetSpans() {
		switch s.Name {
		case "board.reveal":
			reveals++
		case "game.end":
			ends++
			for _, kv := range s.Attributes {
				if kv.Key == "outcome" && kv.Value.AsString() != "lost" {
					t.Errorf("game.end outcome = %q, want lost", kv.Value.AsString())
				}
			}
		}
	}
	if reveals != 2 {
		t.Errorf("recorded %d board.reveal spans, want 2", reveals)
	}
	if ends != 1 {
		t.Errorf("recorded %d game.end spans, want 1", ends)
	}
}
