package theme

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// File is the name of the embedded theme definition.
const File = "theme.json"

// Glyphs are the single characters drawn for each kind of cell.
type Glyphs struct {
	Hidden    string `json:"hidden"`    // Unrevealed cell
	Empty     string `json:"empty"`     // Revealed cell with no adjacent mines
	Mine      string `json:"mine"`      // Mine shown after the game ends
	Detonated string `json:"detonated"` // The mine that ended the game
}

// Colors holds hex color codes used by the renderer.
type Colors struct {
	Hidden    string   `json:"hidden"`
	Mine      string   `json:"mine"`
	Detonated string   `json:"detonated"`
	Header    string   `json:"header"`
	Status    string   `json:"status"`
	Numbers   []string `json:"numbers"` // Index 0 is the color for "1"
}

// Def is the raw theme as stored in theme.json.
type Def struct {
	Glyphs Glyphs `json:"glyphs"`
	Colors Colors `json:"colors"`
}

// Theme is a parsed theme ready for rendering.
type Theme struct {
	Hidden, Empty, Mine, Detonated rune

	HiddenColor    tcell.Color
	MineColor      tcell.Color
	DetonatedColor tcell.Color
	HeaderColor    tcell.Color
	StatusColor    tcell.Color
	numberColors   [8]tcell.Color
}

// LoadTheme loads and parses the embedded theme.
func LoadTheme() (*Theme, error) {
	def, err := Load[Def](File)
	if err != nil {
		return nil, err
	}
	return Parse(def)
}

// MustLoadTheme loads the embedded theme, panicking on error.
func MustLoadTheme() *Theme {
	t, err := LoadTheme()
	if err != nil {
		panic(err)
	}
	return t
}

// Parse converts a raw definition into a Theme.
func Parse(def Def) (*Theme, error) {
	if len(def.Colors.Numbers) != 8 {
		return nil, fmt.Errorf("theme needs 8 number colors, got %d", len(def.Colors.Numbers))
	}

	t := &Theme{
		Hidden:    glyphRune(def.Glyphs.Hidden),
		Empty:     glyphRune(def.Glyphs.Empty),
		Mine:      glyphRune(def.Glyphs.Mine),
		Detonated: glyphRune(def.Glyphs.Detonated),
	}

	named := []struct {
		hex string
		dst *tcell.Color
	}{
		{def.Colors.Hidden, &t.HiddenColor},
		{def.Colors.Mine, &t.MineColor},
		{def.Colors.Detonated, &t.DetonatedColor},
		{def.Colors.Header, &t.HeaderColor},
		{def.Colors.Status, &t.StatusColor},
	}
	for _, n := range named {
		c, err := ParseHexColor(n.hex)
		if err != nil {
			return nil, err
		}
		*n.dst = c
	}

	for i, hex := range def.Colors.Numbers {
		c, err := ParseHexColor(hex)
		if err != nil {
			return nil, fmt.Errorf("number color %d: %w", i+1, err)
		}
		t.numberColors[i] = c
	}
	return t, nil
}

// NumberColor returns the color for an adjacency count of 1-8.
func (t *Theme) NumberColor(n int) tcell.Color {
	if n < 1 || n > 8 {
		return tcell.ColorDefault
	}
	return t.numberColors[n-1]
}

// glyphRune returns the first character of s, or '?' if empty.
func glyphRune(s string) rune {
	if s == "" {
		return '?'
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
