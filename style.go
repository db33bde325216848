package comterm

import (
	"github.com/gdamore/tcell/v2"
	"github.com/peco/comterm/config"
)

// attributeToTcellColor converts the color part of an Attribute.
func attributeToTcellColor(a config.Attribute) tcell.Color {
	if a&config.AttrTrueColor != 0 {
		rgb := int32(a & 0xFFFFFF)
		return tcell.NewRGBColor((rgb>>16)&0xFF, (rgb>>8)&0xFF, rgb&0xFF)
	}

	idx := int(a & 0x1FF)
	if idx == 0 {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(idx - 1)
}

// attributeToTcellStyle converts a configured Style to a tcell.Style.
// Text attributes are taken from both halves, the way the config file
// allows "bold" and "on_bold" alike.
func attributeToTcellStyle(s config.Style) tcell.Style {
	flags := s.Fg | s.Bg
	return tcell.StyleDefault.
		Foreground(attributeToTcellColor(s.Fg)).
		Background(attributeToTcellColor(s.Bg)).
		Bold(flags&config.AttrBold != 0).
		Underline(flags&config.AttrUnderline != 0).
		Reverse(flags&config.AttrReverse != 0)
}
