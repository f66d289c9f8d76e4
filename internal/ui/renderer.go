package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/minesweeper/internal/board"
	"github.com/samdwyer/minesweeper/internal/theme"
)

const (
	// Board origin on screen: column labels on row 0, row labels in columns 0-2.
	originX = 3
	originY = 1
	// Horizontal spacing between cells.
	cellStride = 2
)

// HelpText lists the key bindings shown under the board.
const HelpText = "arrows/hjkl move  space reveal  r restart  q quit"

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
	theme  *theme.Theme
}

// NewRenderer creates a new renderer for the given screen and theme.
func NewRenderer(screen *Screen, th *theme.Theme) *Renderer {
	return &Renderer{screen: screen, theme: th}
}

// Render draws the board, cursor and status line to the screen.
// Mines are only drawn once the board has reached a terminal state.
// Column labels show the ones digit of x, so they repeat every 10 columns.
// Row labels are two digits; game.Config keeps boards within 100 rows.
func (r *Renderer) Render(b *board.Board, cursor board.Point, status string) {
	r.screen.Clear()

	headerStyle := tcell.StyleDefault.Foreground(r.theme.HeaderColor)
	for x := 0; x < b.Width; x++ {
		r.screen.SetContent(originX+x*cellStride, 0, rune('0'+x%10), headerStyle)
	}

	showMines := b.State().Terminal()
	for y := 0; y < b.Height; y++ {
		r.drawText(0, originY+y, fmt.Sprintf("%2d", y), headerStyle)
		for x := 0; x < b.Width; x++ {
			ch, style := r.cellStyle(b, x, y, showMines)
			if !showMines && cursor.X == x && cursor.Y == y {
				style = style.Reverse(true)
			}
			sx, sy := ScreenPos(x, y)
			r.screen.SetContent(sx, sy, ch, style)
		}
	}

	statusStyle := tcell.StyleDefault.Foreground(r.theme.StatusColor)
	r.drawText(0, originY+b.Height+1, status, statusStyle)
	r.drawText(0, originY+b.Height+2, HelpText, headerStyle.Dim(true))

	r.screen.Show()
}

// cellStyle returns the glyph and style for one board cell.
func (r *Renderer) cellStyle(b *board.Board, x, y int, showMines bool) (rune, tcell.Style) {
	base := tcell.StyleDefault

	if b.IsRevealed(x, y) {
		n, _ := b.AdjacentMines(x, y)
		if n == 0 {
			return r.theme.Empty, base
		}
		return rune('0' + n), base.Foreground(r.theme.NumberColor(n)).Bold(true)
	}

	if showMines && b.IsMine(x, y) {
		if p, lost := b.Detonated(); lost && p.X == x && p.Y == y {
			return r.theme.Detonated, base.Foreground(r.theme.DetonatedColor).Bold(true)
		}
		return r.theme.Mine, base.Foreground(r.theme.MineColor)
	}

	return r.theme.Hidden, base.Foreground(r.theme.HiddenColor)
}

// drawText writes a string starting at the given position.
func (r *Renderer) drawText(x, y int, msg string, style tcell.Style) {
	for i, ch := range []rune(msg) {
		r.screen.SetContent(x+i, y, ch, style)
	}
}

// ScreenPos maps a board cell to its screen position.
func ScreenPos(x, y int) (int, int) {
	return originX + x*cellStride, originY + y
}

// CellAt maps a screen position back to a board cell.
// It returns false for positions between or outside cells.
func CellAt(b *board.Board, sx, sy int) (board.Point, bool) {
	dx := sx - originX
	if dx < 0 || dx%cellStride != 0 {
		return board.Point{}, false
	}
	p := board.Point{X: dx / cellStride, Y: sy - originY}
	if !b.InBounds(p.X, p.Y) {
		return board.Point{}, false
	}
	return p, true
}
