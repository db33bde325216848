package config

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StyleSet holds styles for the two regions of the screen.
type StyleSet struct {
	// Text is used for everything received from the device and
	// echoed from the keyboard.
	Text Style `json:"Text" yaml:"Text"`
	// Status is used for the reserved bottom row.
	Status Style `json:"Status" yaml:"Status"`
	// StatusActive is used for the letter of a modifier that is held.
	StatusActive Style `json:"StatusActive" yaml:"StatusActive"`
}

// Attribute represents terminal display attributes such as colors
// and text styling (bold, underline, reverse). It is a uint32 bitfield:
//
//	Bits 0-8:   Palette color index (0=default, 1-256 for 256-color palette)
//	Bits 0-23:  RGB color value (when AttrTrueColor flag is set)
//	Bit 24:     AttrTrueColor flag
//	Bit 25:     AttrBold
//	Bit 26:     AttrUnderline
//	Bit 27:     AttrReverse
type Attribute uint32

// Named palette color constants (values 0-8).
const (
	ColorDefault Attribute = 0x0000
	ColorBlack   Attribute = 0x0001
	ColorRed     Attribute = 0x0002
	ColorGreen   Attribute = 0x0003
	ColorYellow  Attribute = 0x0004
	ColorBlue    Attribute = 0x0005
	ColorMagenta Attribute = 0x0006
	ColorCyan    Attribute = 0x0007
	ColorWhite   Attribute = 0x0008
)

const (
	AttrTrueColor Attribute = 0x01000000
	AttrBold      Attribute = 0x02000000
	AttrUnderline Attribute = 0x04000000
	AttrReverse   Attribute = 0x08000000
)

// Style describes display attributes for foreground and background.
type Style struct {
	Fg Attribute
	Bg Attribute
}

var (
	colorNames = map[string]Attribute{
		"default": ColorDefault,
		"black":   ColorBlack,
		"red":     ColorRed,
		"green":   ColorGreen,
		"yellow":  ColorYellow,
		"blue":    ColorBlue,
		"magenta": ColorMagenta,
		"cyan":    ColorCyan,
		"white":   ColorWhite,
	}
	attrNames = map[string]Attribute{
		"bold":      AttrBold,
		"underline": AttrUnderline,
		"reverse":   AttrReverse,
	}
)

// Init sets the default styles: plain text, and a reversed status row.
func (ss *StyleSet) Init() {
	ss.Text = Style{Fg: ColorDefault, Bg: ColorDefault}
	ss.Status = Style{Fg: ColorDefault | AttrReverse, Bg: ColorDefault}
	ss.StatusActive = Style{Fg: ColorYellow | AttrReverse | AttrBold, Bg: ColorDefault}
}

// UnmarshalJSON decodes a JSON array of strings into a Style.
func (s *Style) UnmarshalJSON(buf []byte) error {
	var raw []string
	if err := json.Unmarshal(buf, &raw); err != nil {
		return errors.Wrap(err, "failed to unmarshal Style")
	}
	return StringsToStyle(s, raw)
}

// UnmarshalYAML decodes a YAML array of strings into a Style.
func (s *Style) UnmarshalYAML(unmarshal func(any) error) error {
	var raw []string
	if err := unmarshal(&raw); err != nil {
		return errors.Wrap(err, "failed to unmarshal Style from YAML")
	}
	return StringsToStyle(s, raw)
}

// StringsToStyle parses words such as "red", "on_blue", "bold",
// "#ff00ff", "on_#000080" or "208" into a Style. Colors are applied
// first and attributes after, so word order does not matter.
func StringsToStyle(style *Style, raw []string) error {
	style.Fg = ColorDefault
	style.Bg = ColorDefault

	var fgAttrs, bgAttrs Attribute
	for _, s := range raw {
		target := &style.Fg
		attrs := &fgAttrs
		word := s
		if strings.HasPrefix(s, "on_") {
			target = &style.Bg
			attrs = &bgAttrs
			word = s[3:]
		}

		if a, ok := attrNames[word]; ok {
			*attrs |= a
			continue
		}

		c, err := parseColor(word)
		if err != nil {
			return errors.Wrapf(err, "invalid style %q", s)
		}
		*target = c
	}

	style.Fg |= fgAttrs
	style.Bg |= bgAttrs
	return nil
}

func parseColor(word string) (Attribute, error) {
	if c, ok := colorNames[word]; ok {
		return c, nil
	}

	if strings.HasPrefix(word, "#") && len(word) == 7 {
		rgb, err := strconv.ParseUint(word[1:], 16, 32)
		if err != nil {
			return 0, err
		}
		return Attribute(rgb) | AttrTrueColor, nil
	}

	idx, err := strconv.ParseUint(word, 10, 8)
	if err != nil {
		return 0, errors.New("unknown color")
	}
	return Attribute(idx + 1), nil
}
