package comterm

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// keyTranslator turns terminal key events into the bytes a keyboard
// in binary mode would send, plus a modifier event whenever the set of
// held modifiers changes.
type keyTranslator struct {
	mods ModifierMask
}

func modifiersFromTcell(mod tcell.ModMask) ModifierMask {
	var m ModifierMask
	if mod&tcell.ModShift != 0 {
		m |= ModShift
	}
	if mod&tcell.ModCtrl != 0 {
		m |= ModCtrl
	}
	if mod&tcell.ModAlt != 0 {
		m |= ModAlt
	}
	if mod&tcell.ModMeta != 0 {
		m |= ModMeta
	}
	return m
}

// keyByte returns the byte a key press sends, if it has one.
//
// The terminal reports a control byte b as KeyCtrlSpace+b with ModCtrl,
// except Tab, Enter and Backspace. Both BS and DEL arrive as
// KeyBackspace, so Backspace sends BS and the Delete key sends DEL.
func keyByte(k tcell.Key, r rune, mod tcell.ModMask) ([]byte, bool) {
	switch {
	case k == tcell.KeyRune:
		if mod&(tcell.ModCtrl|tcell.ModAlt) == tcell.ModCtrl && (r >= '@' && r <= '_' || r >= 'a' && r <= 'z') {
			// tcell leaves Ctrl+Shift+letter as a rune. Ctrl+Alt is
			// AltGr on some keyboards and stays a character.
			return []byte{byte(r) & 0x1f}, true
		}
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r)
		return buf[:n], true
	case k >= tcell.KeyCtrlSpace && k <= tcell.KeyCtrlUnderscore:
		return []byte{byte(k - tcell.KeyCtrlSpace)}, true
	case k >= tcell.KeyNUL && k <= tcell.KeyUS:
		return []byte{byte(k)}, true
	case k == tcell.KeyDelete, k == tcell.KeyDEL:
		return []byte{0x7f}, true
	}
	return nil, false
}

// translate returns the events for one key press, modifier event
// first. Keys that have no byte value (arrows, function keys, ...)
// produce at most a modifier event.
func (t *keyTranslator) translate(k tcell.Key, r rune, mod tcell.ModMask) []Event {
	var events []Event

	next := modifiersFromTcell(mod) | (t.mods & ModInsert)
	if k == tcell.KeyInsert {
		next ^= ModInsert
	}
	if changed := next ^ t.mods; changed != 0 {
		t.mods = next
		events = append(events, ModifierEvent(next, changed))
	}

	if b, ok := keyByte(k, r, mod); ok {
		for _, c := range b {
			events = append(events, CharEvent(c))
		}
	}
	return events
}
