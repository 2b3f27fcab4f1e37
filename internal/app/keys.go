package app

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/zorforge/internal/engine/buffer"
	"github.com/dshills/zorforge/internal/input/mode"
)

// Click detection thresholds.
const (
	DoubleClickTime     = 400 * time.Millisecond
	DoubleClickDistance = 1
)

// KeyTranslator turns terminal events into editor inputs. It holds the
// state of multi-key sequences ("gg", "dd", "ciw") and of mouse clicks.
type KeyTranslator struct {
	pending []rune

	click    clickTracker
	dragging bool
	lastX    int
	lastY    int

	now func() time.Time
}

// NewKeyTranslator creates a translator with no pending sequence.
func NewKeyTranslator() *KeyTranslator {
	return &KeyTranslator{
		click: clickTracker{maxTime: DoubleClickTime, maxDistance: DoubleClickDistance},
		now:   time.Now,
	}
}

// Pending returns the keys of an unfinished sequence.
func (k *KeyTranslator) Pending() string {
	return string(k.pending)
}

// Reset drops any unfinished sequence.
func (k *KeyTranslator) Reset() {
	k.pending = k.pending[:0]
}

func trigger(t mode.Trigger) (Input, bool) {
	return Input{Trigger: t}, true
}

// TranslateKey maps a key event to an input for mode m. It returns false
// when the key starts or extends a sequence, or means nothing in m.
func (k *KeyTranslator) TranslateKey(m mode.Mode, ev *tcell.EventKey) (Input, bool) {
	if ev.Key() == tcell.KeyEscape {
		k.Reset()
		return trigger(mode.TriggerEscape)
	}
	switch {
	case m.IsInsert():
		return k.insertKey(ev)
	case m.IsCommand():
		return k.commandKey(ev)
	case m.IsVisual():
		return k.visualKey(ev)
	default:
		return k.normalKey(ev)
	}
}

// specialKey handles keys shared by normal and visual mode.
func specialKey(ev *tcell.EventKey) (Input, bool) {
	if in, ok := selectKey(ev); ok {
		return in, true
	}
	switch ev.Key() {
	case tcell.KeyLeft:
		return trigger(mode.TriggerLeft)
	case tcell.KeyRight:
		return trigger(mode.TriggerRight)
	case tcell.KeyUp:
		return trigger(mode.TriggerUp)
	case tcell.KeyDown:
		return trigger(mode.TriggerDown)
	case tcell.KeyHome:
		return trigger(mode.TriggerLineStart)
	case tcell.KeyEnd:
		return trigger(mode.TriggerLineEnd)
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		return trigger(mode.TriggerPageUp)
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		return trigger(mode.TriggerPageDown)
	case tcell.KeyCtrlC:
		return trigger(mode.TriggerSystemCopy)
	case tcell.KeyCtrlX:
		return trigger(mode.TriggerSystemCut)
	case tcell.KeyCtrlP:
		return trigger(mode.TriggerSystemPaste)
	}
	return Input{}, false
}

// selectKey maps shifted arrows to selection triggers.
func selectKey(ev *tcell.EventKey) (Input, bool) {
	mods := ev.Modifiers()
	if mods&tcell.ModShift == 0 {
		return Input{}, false
	}
	word := mods&tcell.ModCtrl != 0
	switch ev.Key() {
	case tcell.KeyLeft:
		if word {
			return trigger(mode.TriggerSelectWordBackward)
		}
		return trigger(mode.TriggerSelectLeft)
	case tcell.KeyRight:
		if word {
			return trigger(mode.TriggerSelectWordForward)
		}
		return trigger(mode.TriggerSelectRight)
	case tcell.KeyUp:
		return trigger(mode.TriggerSelectUp)
	case tcell.KeyDown:
		return trigger(mode.TriggerSelectDown)
	}
	return Input{}, false
}

// motionRune maps single-key motions shared by normal and visual mode.
func motionRune(r rune) (mode.Trigger, bool) {
	switch r {
	case 'h':
		return mode.TriggerLeft, true
	case 'l':
		return mode.TriggerRight, true
	case 'k':
		return mode.TriggerUp, true
	case 'j':
		return mode.TriggerDown, true
	case 'w':
		return mode.TriggerWordForward, true
	case 'b':
		return mode.TriggerWordBackward, true
	case '0':
		return mode.TriggerLineStart, true
	case '$':
		return mode.TriggerLineEnd, true
	case 'G':
		return mode.TriggerFileEnd, true
	case 'n':
		return mode.TriggerNextMatch, true
	case 'N':
		return mode.TriggerPrevMatch, true
	}
	return mode.TriggerNone, false
}

func (k *KeyTranslator) normalKey(ev *tcell.EventKey) (Input, bool) {
	if ev.Key() != tcell.KeyRune {
		k.Reset()
		if in, ok := specialKey(ev); ok {
			return in, true
		}
		switch ev.Key() {
		case tcell.KeyCtrlR:
			return trigger(mode.TriggerRedo)
		case tcell.KeyCtrlV:
			return trigger(mode.TriggerVisualBlock)
		case tcell.KeyDelete:
			return trigger(mode.TriggerCutChar)
		case tcell.KeyEnter:
			return trigger(mode.TriggerEnter)
		}
		return Input{}, false
	}

	r := ev.Rune()
	if len(k.pending) > 0 {
		return k.normalSequence(r)
	}
	if t, ok := motionRune(r); ok {
		return trigger(t)
	}
	switch r {
	case 'g', 'd', 'c', 'y', '>', '<':
		k.pending = append(k.pending, r)
		return Input{}, false
	case 'i':
		return trigger(mode.TriggerInsert)
	case 'a':
		return trigger(mode.TriggerInsertAppend)
	case 'A':
		return trigger(mode.TriggerInsertAppendEnd)
	case 'I':
		return trigger(mode.TriggerInsertLineStart)
	case 'o':
		return trigger(mode.TriggerInsertLineBelow)
	case 'O':
		return trigger(mode.TriggerInsertLineAbove)
	case 'R':
		return trigger(mode.TriggerInsertReplace)
	case 'v':
		return trigger(mode.TriggerVisualChar)
	case 'V':
		return trigger(mode.TriggerVisualLine)
	case ':':
		return trigger(mode.TriggerCommandMode)
	case '/':
		return trigger(mode.TriggerSearchForward)
	case '?':
		return trigger(mode.TriggerSearchBackward)
	case 'u':
		return trigger(mode.TriggerUndo)
	case 'x':
		return trigger(mode.TriggerCutChar)
	case 'p':
		return trigger(mode.TriggerPaste)
	}
	return Input{}, false
}

// normalSequence completes a sequence started in normal mode.
func (k *KeyTranslator) normalSequence(r rune) (Input, bool) {
	seq := append(k.pending, r)
	if len(seq) == 3 {
		k.Reset()
		return objectInput(seq[0], seq[1], r)
	}

	switch string(seq) {
	case "gg":
		k.Reset()
		return trigger(mode.TriggerFileStart)
	case "dd":
		k.Reset()
		return trigger(mode.TriggerDeleteLine)
	case "yy":
		k.Reset()
		return trigger(mode.TriggerYankLine)
	case ">>":
		k.Reset()
		return trigger(mode.TriggerIndent)
	case "<<":
		k.Reset()
		return trigger(mode.TriggerDedent)
	case "di", "da", "ci", "ca":
		k.pending = seq
		return Input{}, false
	}
	k.Reset()
	return Input{}, false
}

// objectInput builds a text object op from an operator ('d', 'c' or 'v'),
// a scope ('i' or 'a') and an object key.
func objectInput(operator, scope, key rune) (Input, bool) {
	obj, ok := buffer.TextObjectFor(key)
	if !ok {
		return Input{}, false
	}
	in := Input{Object: obj, Around: scope == 'a'}
	switch operator {
	case 'd':
		in.Op = OpDeleteObject
	case 'c':
		in.Op = OpChangeObject
	default:
		in.Op = OpSelectObject
	}
	return in, true
}

func (k *KeyTranslator) visualKey(ev *tcell.EventKey) (Input, bool) {
	if ev.Key() != tcell.KeyRune {
		k.Reset()
		if in, ok := specialKey(ev); ok {
			return in, true
		}
		if ev.Key() == tcell.KeyCtrlV {
			return trigger(mode.TriggerVisualBlock)
		}
		return Input{}, false
	}

	r := ev.Rune()
	if len(k.pending) > 0 {
		first := k.pending[0]
		k.Reset()
		switch first {
		case 'g':
			if r == 'g' {
				return trigger(mode.TriggerFileStart)
			}
			return Input{}, false
		default:
			return objectInput('v', first, r)
		}
	}
	if t, ok := motionRune(r); ok {
		return trigger(t)
	}
	switch r {
	case 'g', 'i', 'a':
		k.pending = append(k.pending, r)
		return Input{}, false
	case 'y':
		return trigger(mode.TriggerVisualYank)
	case 'd', 'x':
		return trigger(mode.TriggerVisualDelete)
	case 'c':
		return trigger(mode.TriggerVisualChange)
	case '>':
		return trigger(mode.TriggerVisualIndent)
	case '<':
		return trigger(mode.TriggerVisualDedent)
	case 'v':
		return trigger(mode.TriggerVisualChar)
	case 'V':
		return trigger(mode.TriggerVisualLine)
	case 'p':
		return trigger(mode.TriggerPaste)
	case ':':
		return trigger(mode.TriggerCommandMode)
	}
	return Input{}, false
}

func (k *KeyTranslator) insertKey(ev *tcell.EventKey) (Input, bool) {
	if in, ok := selectKey(ev); ok {
		return in, true
	}
	switch ev.Key() {
	case tcell.KeyRune:
		return Input{Trigger: mode.TriggerInsertChar, Rune: ev.Rune()}, true
	case tcell.KeyEnter:
		return trigger(mode.TriggerInsertNewLine)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return trigger(mode.TriggerDeleteBackward)
	case tcell.KeyDelete:
		return trigger(mode.TriggerDeleteForward)
	case tcell.KeyCtrlW:
		return trigger(mode.TriggerDeleteWord)
	case tcell.KeyCtrlU:
		return trigger(mode.TriggerDeleteToLineStart)
	case tcell.KeyTab:
		return trigger(mode.TriggerInsertTab)
	case tcell.KeyBacktab:
		return trigger(mode.TriggerInsertBackTab)
	case tcell.KeyCtrlN, tcell.KeyCtrlSpace:
		return trigger(mode.TriggerCompletion)
	case tcell.KeyLeft:
		return trigger(mode.TriggerLeft)
	case tcell.KeyRight:
		return trigger(mode.TriggerRight)
	case tcell.KeyUp:
		return trigger(mode.TriggerUp)
	case tcell.KeyDown:
		return trigger(mode.TriggerDown)
	case tcell.KeyHome:
		return trigger(mode.TriggerLineStart)
	case tcell.KeyEnd:
		return trigger(mode.TriggerLineEnd)
	case tcell.KeyPgUp:
		return trigger(mode.TriggerPageUp)
	case tcell.KeyPgDn:
		return trigger(mode.TriggerPageDown)
	case tcell.KeyCtrlV:
		return trigger(mode.TriggerSystemPaste)
	case tcell.KeyCtrlC:
		return trigger(mode.TriggerSystemCopy)
	case tcell.KeyCtrlX:
		return trigger(mode.TriggerSystemCut)
	}
	return Input{}, false
}

func (k *KeyTranslator) commandKey(ev *tcell.EventKey) (Input, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return Input{Trigger: mode.TriggerInsertChar, Rune: ev.Rune()}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return trigger(mode.TriggerDeleteBackward)
	case tcell.KeyEnter:
		return trigger(mode.TriggerEnter)
	case tcell.KeyCtrlV:
		return trigger(mode.TriggerSystemPaste)
	}
	return Input{}, false
}

// TranslateMouse maps a mouse event to an input. toBuffer converts screen
// cells to buffer positions and reports false outside the text area.
func (k *KeyTranslator) TranslateMouse(ev *tcell.EventMouse, toBuffer func(x, y int) (row, col int, ok bool)) (Input, bool) {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		return trigger(mode.TriggerScrollUp)
	case buttons&tcell.WheelDown != 0:
		return trigger(mode.TriggerScrollDown)
	case buttons&tcell.Button1 == 0:
		k.dragging = false
		return Input{}, false
	}

	x, y := ev.Position()
	row, col, ok := toBuffer(x, y)
	if !ok {
		return Input{}, false
	}
	in := Input{Row: row, Col: col}

	if k.dragging {
		if x == k.lastX && y == k.lastY {
			return Input{}, false
		}
		k.lastX, k.lastY = x, y
		in.Trigger = mode.TriggerMouseDrag
		return in, true
	}

	k.dragging = true
	k.lastX, k.lastY = x, y
	switch k.click.record(x, y, k.now()) {
	case 2:
		in.Trigger = mode.TriggerMouseDoubleClick
	case 3:
		in.Trigger = mode.TriggerMouseTripleClick
	default:
		in.Trigger = mode.TriggerMouseClick
	}
	return in, true
}

// clickTracker counts clicks landing close together in space and time.
type clickTracker struct {
	maxTime     time.Duration
	maxDistance int

	lastX, lastY int
	lastTime     time.Time
	count        int
}

// record registers a click and returns 1, 2 or 3. A fourth click starts
// over at 1.
func (t *clickTracker) record(x, y int, at time.Time) int {
	if t.continues(x, y, at) {
		t.count++
		if t.count > 3 {
			t.count = 1
		}
	} else {
		t.count = 1
	}
	t.lastX, t.lastY, t.lastTime = x, y, at
	return t.count
}

func (t *clickTracker) continues(x, y int, at time.Time) bool {
	if t.count == 0 {
		return false
	}
	elapsed := at.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.maxTime {
		return false
	}
	return abs(x-t.lastX)+abs(y-t.lastY) <= t.maxDistance
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
