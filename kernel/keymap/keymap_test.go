/*
 * MentOS - Keymap tests
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

import (
	"testing"
)

// Code points carry the scancode in the high byte, character low.
func TestEncoding(t *testing.T) {
	e := Get(US, 0x10)
	if e.Normal != 0x10<<8|'q' {
		t.Errorf("Q entry not correct got: %04x expected: %04x", e.Normal, 0x10<<8|'q')
	}
	if byte(e.Shift) != 'Q' {
		t.Errorf("Shift Q not correct got: %c expected: %c", byte(e.Shift), 'Q')
	}
	if byte(e.Ctrl) != 0x11 {
		t.Errorf("Ctrl Q not correct got: %02x expected: %02x", byte(e.Ctrl), 0x11)
	}
	if e.Alt != None {
		t.Errorf("Alt Q should be unset got: %04x", e.Alt)
	}
}

// Unknown scancodes translate to all None.
func TestUnknownScancode(t *testing.T) {
	e := Get(US, 0x7F)
	if e.Normal != None || e.Shift != None || e.Ctrl != None || e.Alt != None {
		t.Errorf("Unset entry not sentinel got: %v", e)
	}
}

// The layouts differ where they should.
func TestLayouts(t *testing.T) {
	us := Get(US, 0x33)
	it := Get(IT, 0x33)
	if byte(us.Shift) != '<' {
		t.Errorf("US shift comma not correct got: %c expected: %c", byte(us.Shift), '<')
	}
	if byte(it.Shift) != ';' {
		t.Errorf("IT shift comma not correct got: %c expected: %c", byte(it.Shift), ';')
	}
	it = Get(IT, 0x27)
	if byte(it.Normal) != chOGrave {
		t.Errorf("IT o-grave not correct got: %02x expected: %02x", byte(it.Normal), chOGrave)
	}
	if byte(it.Alt) != '@' {
		t.Errorf("IT altgr @ not correct got: %c expected: %c", byte(it.Alt), '@')
	}
}

// Letters are alphabetic, punctuation and sentinels are not.
func TestAlphabetic(t *testing.T) {
	if !Alphabetic(Get(US, 0x1E).Normal) {
		t.Error("A should be alphabetic")
	}
	if Alphabetic(Get(US, 0x02).Normal) {
		t.Error("1 should not be alphabetic")
	}
	if Alphabetic(None) {
		t.Error("None should not be alphabetic")
	}
}

// Extended scancodes resolve too.
func TestExtended(t *testing.T) {
	e := Get(US, ScanKPDiv)
	if byte(e.Normal) != '/' {
		t.Errorf("Keypad divide not correct got: %c expected: %c", byte(e.Normal), '/')
	}
}

func TestParseLayout(t *testing.T) {
	if l, ok := ParseLayout("it"); !ok || l != IT {
		t.Errorf("ParseLayout it failed got: %v %v", l, ok)
	}
	if l, ok := ParseLayout("US"); !ok || l != US {
		t.Errorf("ParseLayout US failed got: %v %v", l, ok)
	}
	if _, ok := ParseLayout("de"); ok {
		t.Error("ParseLayout de should fail")
	}
	if IT.Name() != "IT" || US.Name() != "US" {
		t.Error("Layout names not correct")
	}
}
