/*
 * MentOS - Keyboard scancode translation maps
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package keymap

import "strings"

// Entry holds the four code points for one key. Each code point
// carries the scancode in the high byte and the character in the low
// byte; consumers mask with 0xff for the character. Unset code points
// are None.
type Entry struct {
	Normal int32
	Shift  int32
	Ctrl   int32
	Alt    int32
}

// None marks a code point with no translation.
const None int32 = -1

// Layout selects one of the built in keyboard layouts.
type Layout int

const (
	US Layout = iota // United States layout
	IT               // Italian layout
)

// Set 1 scancodes for keys the keyboard driver decodes by position.
// Two byte 0xE0 sequences are folded into a 16 bit composite.
const (
	ScanEscape     uint16 = 0x01
	ScanBackspace  uint16 = 0x0E
	ScanTab        uint16 = 0x0F
	ScanEnter      uint16 = 0x1C
	ScanLeftCtrl   uint16 = 0x1D
	ScanLeftShift  uint16 = 0x2A
	ScanRightShift uint16 = 0x36
	ScanKPMul      uint16 = 0x37
	ScanLeftAlt    uint16 = 0x38
	ScanSpace      uint16 = 0x39
	ScanCapsLock   uint16 = 0x3A
	ScanF1         uint16 = 0x3B
	ScanF10        uint16 = 0x44
	ScanNumLock    uint16 = 0x45
	ScanScrollLock uint16 = 0x46
	ScanKP7        uint16 = 0x47
	ScanKP8        uint16 = 0x48
	ScanKP9        uint16 = 0x49
	ScanKPSub      uint16 = 0x4A
	ScanKP4        uint16 = 0x4B
	ScanKP5        uint16 = 0x4C
	ScanKP6        uint16 = 0x4D
	ScanKPAdd      uint16 = 0x4E
	ScanKP1        uint16 = 0x4F
	ScanKP2        uint16 = 0x50
	ScanKP3        uint16 = 0x51
	ScanKP0        uint16 = 0x52
	ScanKPDot      uint16 = 0x53
	ScanF11        uint16 = 0x57
	ScanF12        uint16 = 0x58

	ScanKPEnter   uint16 = 0xE01C
	ScanRightCtrl uint16 = 0xE01D
	ScanKPDiv     uint16 = 0xE035
	ScanRightAlt  uint16 = 0xE038
	ScanHome      uint16 = 0xE047
	ScanUp        uint16 = 0xE048
	ScanPageUp    uint16 = 0xE049
	ScanLeft      uint16 = 0xE04B
	ScanRight     uint16 = 0xE04D
	ScanEnd       uint16 = 0xE04F
	ScanDown      uint16 = 0xE050
	ScanPageDown  uint16 = 0xE051
	ScanInsert    uint16 = 0xE052
	ScanDelete    uint16 = 0xE053
)

// keyDef is one row of a layout table before encoding.
type keyDef struct {
	scan   uint16
	normal int16 // -1 when unset
	shift  int16
	ctrl   int16
	alt    int16
}

var layouts [2]map[uint16]Entry

// encode folds the scancode into the high byte of a code point.
func encode(scan uint16, ch int16) int32 {
	if ch < 0 {
		return None
	}
	return int32(scan)<<8 | int32(uint8(ch))
}

func buildLayout(defs []keyDef) map[uint16]Entry {
	m := make(map[uint16]Entry, len(defs))
	for _, d := range defs {
		m[d.scan] = Entry{
			Normal: encode(d.scan, d.normal),
			Shift:  encode(d.scan, d.shift),
			Ctrl:   encode(d.scan, d.ctrl),
			Alt:    encode(d.scan, d.alt),
		}
	}
	return m
}

func init() {
	layouts[US] = buildLayout(usKeys)
	layouts[IT] = buildLayout(itKeys)
}

// Get returns the translation entry for a scancode in the given
// layout. Scancodes with no translation return an entry with every
// code point set to None.
func Get(layout Layout, scan uint16) Entry {
	e, ok := layouts[layout][scan]
	if !ok {
		return Entry{Normal: None, Shift: None, Ctrl: None, Alt: None}
	}
	return e
}

// Alphabetic reports whether a code point's character is a letter.
// Caps lock inversion applies only to these.
func Alphabetic(code int32) bool {
	if code == None {
		return false
	}
	c := byte(code)
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ParseLayout converts a configuration name to a layout.
func ParseLayout(name string) (Layout, bool) {
	switch strings.ToUpper(name) {
	case "US":
		return US, true
	case "IT":
		return IT, true
	}
	return US, false
}

// Name returns the configuration name of a layout.
func (l Layout) Name() string {
	if l == IT {
		return "IT"
	}
	return "US"
}
