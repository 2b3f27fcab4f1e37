package renderer

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/zorforge/internal/engine/buffer"
	"github.com/dshills/zorforge/internal/input/mode"
)

// Source is the buffer state the renderer reads.
type Source interface {
	LineCount() int
	LineRunes(row int) []rune
	Cursor() buffer.Position
	Selection() (buffer.Selection, bool)
	Matches() []buffer.Match
	CurrentMatch() (buffer.Match, int, bool)
	TabSize() int
}

// Status is the editor state shown below the text area.
type Status struct {
	Mode        mode.Mode
	Name        string
	Dirty       bool
	Message     string
	IsError     bool
	CommandLine string
	Pending     string
}

// Options configures a Renderer.
type Options struct {
	LineNumbers bool
	Styles      Styles
}

// DefaultOptions returns line numbers on with the default styles.
func DefaultOptions() Options {
	return Options{
		LineNumbers: true,
		Styles:      DefaultStyles(),
	}
}

// Renderer draws onto a tcell screen and remembers the scroll offsets
// needed to keep the cursor in view.
type Renderer struct {
	screen tcell.Screen
	opts   Options

	top    int
	left   int
	gutter int

	// Last drawn source, for mapping mouse positions.
	src Source
}

// New creates a renderer for screen.
func New(screen tcell.Screen, opts Options) *Renderer {
	if opts.Styles.Modes == nil {
		opts.Styles = DefaultStyles()
	}
	return &Renderer{screen: screen, opts: opts}
}

// SetLineNumbers toggles the line number gutter.
func (r *Renderer) SetLineNumbers(on bool) {
	r.opts.LineNumbers = on
}

// TextHeight returns the number of rows available for buffer text.
func (r *Renderer) TextHeight() int {
	_, h := r.screen.Size()
	return max(h-2, 1)
}

// textWidth returns the cells available for text after the gutter.
func (r *Renderer) textWidth() int {
	w, _ := r.screen.Size()
	return max(w-r.gutter, 1)
}

// Top returns the first visible buffer row.
func (r *Renderer) Top() int {
	return r.top
}

// Render redraws the whole screen and shows it.
func (r *Renderer) Render(src Source, st Status) {
	r.src = src
	r.screen.Clear()

	r.gutter = r.gutterWidth(src.LineCount())
	cur := src.Cursor()
	cursorLine := src.LineRunes(cur.Row)
	cx := DisplayColumn(cursorLine, cur.Col, src.TabSize())
	r.scrollTo(cur.Row, cx)

	r.drawText(src)
	r.drawStatus(src, st)
	r.drawMessage(st)
	r.placeCursor(st, cur.Row, cx)

	r.screen.Show()
}

func (r *Renderer) gutterWidth(lines int) int {
	if !r.opts.LineNumbers {
		return 0
	}
	return max(len(strconv.Itoa(lines)), 3) + 1
}

// scrollTo adjusts the offsets so the cell (row, x) is visible.
func (r *Renderer) scrollTo(row, x int) {
	h := r.TextHeight()
	switch {
	case row < r.top:
		r.top = row
	case row >= r.top+h:
		r.top = row - h + 1
	}

	w := r.textWidth()
	switch {
	case x < r.left:
		r.left = x
	case x >= r.left+w:
		r.left = x - w + 1
	}
}

func (r *Renderer) drawText(src Source) {
	h := r.TextHeight()
	cur := src.Cursor()
	sel, hasSel := src.Selection()
	matches := r.visibleMatches(src, h)
	current, _, hasCurrent := src.CurrentMatch()

	for y := 0; y < h; y++ {
		row := r.top + y
		if row >= src.LineCount() {
			r.puts(0, y, "~", r.opts.Styles.Filler)
			continue
		}
		if r.gutter > 0 {
			style := r.opts.Styles.Gutter
			if row == cur.Row {
				style = r.opts.Styles.GutterCurrent
			}
			r.puts(0, y, fmt.Sprintf("%*d ", r.gutter-1, row+1), style)
		}

		line := src.LineRunes(row)
		styleAt := func(col int) tcell.Style {
			switch {
			case hasSel && sel.Contains(row, col):
				return r.opts.Styles.Selection
			case hasCurrent && current.Row == row && col >= current.Start && col < current.End:
				return r.opts.Styles.CurrentMatch
			}
			for _, m := range matches[row] {
				if col >= m.Start && col < m.End {
					return r.opts.Styles.Match
				}
			}
			return r.opts.Styles.Text
		}
		r.drawLine(y, line, src.TabSize(), styleAt)

		// A selection running past the end of the line covers its break.
		if hasSel && sel.Contains(row, len(line)) {
			x := DisplayColumn(line, len(line), src.TabSize()) - r.left
			if x >= 0 && x < r.textWidth() {
				r.screen.SetContent(r.gutter+x, y, ' ', nil, r.opts.Styles.Selection)
			}
		}
	}
}

func (r *Renderer) visibleMatches(src Source, h int) map[int][]buffer.Match {
	out := make(map[int][]buffer.Match)
	for _, m := range src.Matches() {
		if m.Row >= r.top && m.Row < r.top+h {
			out[m.Row] = append(out[m.Row], m)
		}
	}
	return out
}

func (r *Renderer) drawLine(y int, line []rune, tabSize int, styleAt func(col int) tcell.Style) {
	width := r.textWidth()
	x := 0
	for col, ch := range line {
		w := RuneWidth(ch, x, tabSize)
		sx := x - r.left
		if sx >= width {
			return
		}
		if sx >= 0 && sx+w <= width {
			style := styleAt(col)
			if ch == '\t' {
				for i := 0; i < w; i++ {
					r.screen.SetContent(r.gutter+sx+i, y, ' ', nil, style)
				}
			} else {
				r.screen.SetContent(r.gutter+sx, y, ch, nil, style)
			}
		}
		x += w
	}
}

func (r *Renderer) drawStatus(src Source, st Status) {
	w, h := r.screen.Size()
	if h < 2 {
		return
	}
	y := h - 2
	styles := r.opts.Styles
	r.fill(y, w, styles.StatusBar)

	x := r.puts(0, y, " "+st.Mode.DisplayName()+" ", styles.modeStyle(st.Mode.Kind()))

	name := st.Name
	if name == "" {
		name = "[No Name]"
	}
	if st.Dirty {
		name += " [+]"
	}

	cur := src.Cursor()
	right := fmt.Sprintf("%d:%d %d/%d ", cur.Row+1, cur.Col+1, cur.Row+1, src.LineCount())
	if st.Pending != "" {
		right = st.Pending + "  " + right
	}
	rx := w - StringWidth(right)
	r.puts(x+1, y, Truncate(name, rx-x-2), styles.StatusBar)
	if rx > x {
		r.puts(rx, y, right, styles.StatusBar)
	}
}

func (r *Renderer) drawMessage(st Status) {
	w, h := r.screen.Size()
	y := h - 1
	if st.CommandLine != "" {
		r.puts(0, y, Truncate(st.CommandLine, w), r.opts.Styles.Message)
		return
	}
	style := r.opts.Styles.Message
	if st.IsError {
		style = r.opts.Styles.Error
	}
	r.puts(0, y, Truncate(st.Message, w), style)
}

func (r *Renderer) placeCursor(st Status, row, cx int) {
	w, h := r.screen.Size()
	if st.Mode.IsCommand() {
		r.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
		r.screen.ShowCursor(min(StringWidth(st.CommandLine), w-1), h-1)
		return
	}
	style := st.Mode.CursorStyle()
	if style == mode.CursorHidden {
		r.screen.HideCursor()
		return
	}
	r.screen.SetCursorStyle(cursorShape(style))
	r.screen.ShowCursor(r.gutter+cx-r.left, row-r.top)
}

// ScreenToBuffer maps a screen cell to a buffer position using the last
// rendered source. It reports false outside the text area.
func (r *Renderer) ScreenToBuffer(x, y int) (row, col int, ok bool) {
	if r.src == nil || y < 0 || y >= r.TextHeight() || x < r.gutter {
		return 0, 0, false
	}
	row = r.top + y
	if row >= r.src.LineCount() {
		row = r.src.LineCount() - 1
	}
	line := r.src.LineRunes(row)
	return row, ColumnAt(line, x-r.gutter+r.left, r.src.TabSize()), true
}

// puts draws s from cell x and returns the cell after it.
func (r *Renderer) puts(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x += max(StringWidth(string(ch)), 1)
	}
	return x
}

func (r *Renderer) fill(y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}
