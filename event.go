package comterm

import "strings"

// EventType tells the two kinds of input event apart.
type EventType int

const (
	// EventChar carries one byte typed by the user.
	EventChar EventType = iota
	// EventModifier reports a change in the held modifier keys.
	EventModifier
)

func (t EventType) String() string {
	switch t {
	case EventChar:
		return "EventChar"
	case EventModifier:
		return "EventModifier"
	}
	return "EventUnknown"
}

// ModifierMask is a set of modifier keys.
type ModifierMask uint8

const (
	ModInsert ModifierMask = 1 << iota
	ModShift
	ModCtrl
	ModAlt
	ModMeta

	ModNone ModifierMask = 0
)

// modifierSlots is the order of the letters on the status line.
var modifierSlots = []struct {
	mask   ModifierMask
	letter byte
}{
	{ModInsert, 'I'},
	{ModShift, 'S'},
	{ModCtrl, 'C'},
	{ModAlt, 'A'},
	{ModMeta, 'M'},
}

// IndicatorWidth is the number of columns taken by Indicator, two
// per modifier.
const IndicatorWidth = 10

// Indicator renders the mask the way the status line shows it: one
// two-column slot per modifier, holding its letter when the modifier
// is held and blanks otherwise.
func (m ModifierMask) Indicator() string {
	buf := make([]byte, 0, IndicatorWidth)
	for _, slot := range modifierSlots {
		c := byte(' ')
		if m&slot.mask != 0 {
			c = slot.letter
		}
		buf = append(buf, c, ' ')
	}
	return string(buf)
}

func (m ModifierMask) String() string {
	if m == ModNone {
		return "none"
	}
	var parts []string
	for _, slot := range modifierSlots {
		if m&slot.mask != 0 {
			parts = append(parts, string(slot.letter))
		}
	}
	return strings.Join(parts, "|")
}

// Event is one unit produced by an InputSource. Character events use
// Ch; modifier events use Mods (the full current set) and Changed (the
// bits that differ from the previous report).
type Event struct {
	Type    EventType
	Ch      byte
	Mods    ModifierMask
	Changed ModifierMask
}

// CharEvent creates a character event.
func CharEvent(c byte) Event {
	return Event{Type: EventChar, Ch: c}
}

// ModifierEvent creates a modifier event.
func ModifierEvent(mods, changed ModifierMask) Event {
	return Event{Type: EventModifier, Mods: mods, Changed: changed}
}
