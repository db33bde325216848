package comterm

import (
	"github.com/gdamore/tcell/v2"
	"github.com/google/btree"
	"github.com/mattn/go-runewidth"
	"github.com/peco/comterm/config"
)

const tabWidth = 8

type cell struct {
	ch    rune // 0 for the second column of a wide rune
	style tcell.Style
}

// consoleLine is one line of output, keyed by its absolute line
// number (the first line ever written is 0).
type consoleLine struct {
	n     int
	cells []cell
}

func lessLine(a, b *consoleLine) bool {
	return a.n < b.n
}

// Console is a dumb teletype drawn onto a tcell.Screen. Every row but
// the last shows text; the last row is the status line. Lines that
// scroll off the top are kept, up to the scrollback limit, so that the
// window can be redrawn after a resize.
//
// Console is not safe for concurrent use; Screen serializes access.
type Console struct {
	screen     tcell.Screen
	lines      *btree.BTreeG[*consoleLine]
	scrollback int

	top    int // absolute line number shown on row 0
	cx, cy int // cursor; cy == textRows() means a scroll is pending
	width  int
	height int

	textStyle   tcell.Style
	statusStyle tcell.Style
	activeStyle tcell.Style
	mods        ModifierMask
	statusText  string
}

// NewConsole creates a Console drawing onto scr.
func NewConsole(scr tcell.Screen, cfg *config.Config) *Console {
	c := &Console{
		screen:      scr,
		lines:       btree.NewG[*consoleLine](8, lessLine),
		scrollback:  cfg.Scrollback,
		textStyle:   attributeToTcellStyle(cfg.Style.Text),
		statusStyle: attributeToTcellStyle(cfg.Style.Status),
		activeStyle: attributeToTcellStyle(cfg.Style.StatusActive),
	}
	c.width, c.height = scr.Size()
	return c
}

// Reset clears the screen and puts the cursor at the top left.
func (c *Console) Reset() {
	c.lines.Clear(false)
	c.top, c.cx, c.cy = 0, 0, 0
	c.width, c.height = c.screen.Size()
	c.screen.Clear()
	c.drawStatus()
	c.showCursor()
	c.screen.Show()
}

// Cursor returns the cursor position on screen.
func (c *Console) Cursor() (int, int) {
	return c.cx, c.cy
}

func (c *Console) textRows() int {
	if c.height < 2 {
		return 1
	}
	return c.height - 1
}

func (c *Console) hasStatusLine() bool {
	return c.height >= 2
}

// ProtectStatusLine scrolls the text region up by one line when the
// cursor sits on the status row.
func (c *Console) ProtectStatusLine() {
	if c.cy >= c.textRows() {
		c.scroll()
	}
}

// RenderByte shows b the way a teletype would. CR, LF, BS, TAB and BEL
// are honored; other control bytes are dropped. Any other byte is
// shown as the rune with the same code point.
func (c *Console) RenderByte(b byte) {
	switch {
	case b == '\r':
		c.cx = 0
	case b == '\n':
		c.lineFeed()
	case b == '\b':
		if c.cx > 0 {
			c.cx--
		}
	case b == '\t':
		c.cx = min((c.cx/tabWidth+1)*tabWidth, max(c.width-1, 0))
	case b == '\a':
		c.screen.Beep()
	case b < 0x20 || b == 0x7f:
		// dropped
	default:
		c.putRune(rune(b))
	}
	c.showCursor()
	c.screen.Show()
}

// RenderModifierIndicator redraws the status line for mask.
func (c *Console) RenderModifierIndicator(mask ModifierMask) {
	c.mods = mask
	c.drawStatus()
	c.showCursor()
	c.screen.Show()
}

// SetStatusText sets the text shown at the right end of the status line.
func (c *Console) SetStatusText(s string) {
	c.statusText = s
	c.drawStatus()
}

// Resize adapts to the current screen size. The cursor line stays on
// screen; when the window grows, lines from the scrollback fill the
// new rows above it.
func (c *Console) Resize() {
	c.width, c.height = c.screen.Size()
	rows := c.textRows()

	if c.cy >= rows {
		c.top += c.cy - (rows - 1)
		c.cy = rows - 1
	} else if first, ok := c.lines.Min(); ok && first.n < c.top {
		shift := min(rows-1-c.cy, c.top-first.n)
		c.top -= shift
		c.cy += shift
	}
	if c.cx >= c.width {
		c.cx = max(c.width-1, 0)
	}

	c.screen.Clear()
	c.redrawText()
	c.drawStatus()
	c.showCursor()
	c.screen.Sync()
}

func (c *Console) putRune(r rune) {
	w := runewidth.RuneWidth(r)
	if w < 1 {
		return
	}
	if c.cx+w > c.width {
		c.cx = 0
		c.lineFeed()
	}
	c.ProtectStatusLine()

	l := c.line(c.top + c.cy)
	l.set(c.cx, r, w, c.textStyle)
	c.screen.SetContent(c.cx, c.cy, r, nil, c.textStyle)
	c.cx += w
}

func (c *Console) lineFeed() {
	if c.cy >= c.textRows() {
		c.scroll()
	}
	c.cy++
}

func (c *Console) scroll() {
	c.top++
	c.cy = c.textRows() - 1
	c.trim()
	c.redrawText()
}

// trim drops lines that fell out of the scrollback.
func (c *Console) trim() {
	limit := c.top - c.scrollback
	for {
		first, ok := c.lines.Min()
		if !ok || first.n >= limit {
			return
		}
		c.lines.DeleteMin()
	}
}

func (c *Console) line(n int) *consoleLine {
	if l, ok := c.lines.Get(&consoleLine{n: n}); ok {
		return l
	}
	l := &consoleLine{n: n}
	c.lines.ReplaceOrInsert(l)
	return l
}

func (l *consoleLine) set(x int, r rune, w int, style tcell.Style) {
	for len(l.cells) < x+w {
		l.cells = append(l.cells, cell{ch: ' ', style: style})
	}
	l.cells[x] = cell{ch: r, style: style}
	for i := 1; i < w; i++ {
		l.cells[x+i] = cell{style: style}
	}
}

func (c *Console) redrawText() {
	rows := c.textRows()
	for y := 0; y < rows; y++ {
		for x := 0; x < c.width; x++ {
			c.screen.SetContent(x, y, ' ', nil, c.textStyle)
		}
	}

	c.lines.AscendRange(&consoleLine{n: c.top}, &consoleLine{n: c.top + rows}, func(l *consoleLine) bool {
		y := l.n - c.top
		for x, cl := range l.cells {
			if x >= c.width {
				break
			}
			if cl.ch != 0 {
				c.screen.SetContent(x, y, cl.ch, nil, cl.style)
			}
		}
		return true
	})
}

func (c *Console) drawStatus() {
	if !c.hasStatusLine() {
		return
	}
	y := c.height - 1
	for x := 0; x < c.width; x++ {
		c.screen.SetContent(x, y, ' ', nil, c.statusStyle)
	}

	for i, slot := range modifierSlots {
		ch, style := ' ', c.statusStyle
		if c.mods&slot.mask != 0 {
			ch, style = rune(slot.letter), c.activeStyle
		}
		c.screen.SetContent(2*i, y, ch, nil, style)
	}

	room := c.width - IndicatorWidth - 1
	if c.statusText == "" || room <= 0 {
		return
	}
	text := runewidth.Truncate(c.statusText, room, "")
	x := c.width - runewidth.StringWidth(text)
	for _, r := range text {
		c.screen.SetContent(x, y, r, nil, c.statusStyle)
		x += runewidth.RuneWidth(r)
	}
}

func (c *Console) showCursor() {
	if c.width <= 0 || c.height <= 0 {
		return
	}
	c.screen.ShowCursor(min(c.cx, c.width-1), min(c.cy, c.height-1))
}
