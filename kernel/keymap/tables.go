/*
 * MentOS - Keyboard layout tables
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

// Accented characters use their Latin-1 byte values.
const (
	chAGrave = 0xE0 // à
	chCCedil = 0xE7 // ç
	chEGrave = 0xE8 // è
	chEAcute = 0xE9 // é
	chIGrave = 0xEC // ì
	chOGrave = 0xF2 // ò
	chUGrave = 0xF9 // ù
	chSect   = 0xA7 // §
	chDeg    = 0xB0 // °
	chPound  = 0xA3 // £
)

// United States layout. Columns: scancode, normal, shift, ctrl, alt.
var usKeys = []keyDef{
	{0x02, '1', '!', -1, -1},
	{0x03, '2', '@', 0x00, -1},
	{0x04, '3', '#', -1, -1},
	{0x05, '4', '$', -1, -1},
	{0x06, '5', '%', -1, -1},
	{0x07, '6', '^', 0x1E, -1},
	{0x08, '7', '&', -1, -1},
	{0x09, '8', '*', -1, -1},
	{0x0A, '9', '(', -1, -1},
	{0x0B, '0', ')', -1, -1},
	{0x0C, '-', '_', 0x1F, -1},
	{0x0D, '=', '+', -1, -1},
	{0x0F, '\t', '\t', -1, -1},
	{0x10, 'q', 'Q', 0x11, -1},
	{0x11, 'w', 'W', 0x17, -1},
	{0x12, 'e', 'E', 0x05, -1},
	{0x13, 'r', 'R', 0x12, -1},
	{0x14, 't', 'T', 0x14, -1},
	{0x15, 'y', 'Y', 0x19, -1},
	{0x16, 'u', 'U', 0x15, -1},
	{0x17, 'i', 'I', 0x09, -1},
	{0x18, 'o', 'O', 0x0F, -1},
	{0x19, 'p', 'P', 0x10, -1},
	{0x1A, '[', '{', 0x1B, -1},
	{0x1B, ']', '}', 0x1D, -1},
	{0x1E, 'a', 'A', 0x01, -1},
	{0x1F, 's', 'S', 0x13, -1},
	{0x20, 'd', 'D', 0x04, -1},
	{0x21, 'f', 'F', 0x06, -1},
	{0x22, 'g', 'G', 0x07, -1},
	{0x23, 'h', 'H', 0x08, -1},
	{0x24, 'j', 'J', 0x0A, -1},
	{0x25, 'k', 'K', 0x0B, -1},
	{0x26, 'l', 'L', 0x0C, -1},
	{0x27, ';', ':', -1, -1},
	{0x28, '\'', '"', -1, -1},
	{0x29, '`', '~', -1, -1},
	{0x2B, '\\', '|', 0x1C, -1},
	{0x2C, 'z', 'Z', 0x1A, -1},
	{0x2D, 'x', 'X', 0x18, -1},
	{0x2E, 'c', 'C', 0x03, -1},
	{0x2F, 'v', 'V', 0x16, -1},
	{0x30, 'b', 'B', 0x02, -1},
	{0x31, 'n', 'N', 0x0E, -1},
	{0x32, 'm', 'M', 0x0D, -1},
	{0x33, ',', '<', -1, -1},
	{0x34, '.', '>', -1, -1},
	{0x35, '/', '?', -1, -1},
	{0x39, ' ', ' ', 0x00, -1},
	// Keypad, used through the normal column when num lock is on.
	{0x37, '*', '*', -1, -1},
	{0x47, '7', '7', -1, -1},
	{0x48, '8', '8', -1, -1},
	{0x49, '9', '9', -1, -1},
	{0x4A, '-', '-', -1, -1},
	{0x4B, '4', '4', -1, -1},
	{0x4C, '5', '5', -1, -1},
	{0x4D, '6', '6', -1, -1},
	{0x4E, '+', '+', -1, -1},
	{0x4F, '1', '1', -1, -1},
	{0x50, '2', '2', -1, -1},
	{0x51, '3', '3', -1, -1},
	{0x52, '0', '0', -1, -1},
	{0x53, '.', '.', -1, -1},
	{0xE035, '/', '/', -1, -1},
}

// Italian layout. AltGr selections sit in the alt column.
var itKeys = []keyDef{
	{0x02, '1', '!', -1, -1},
	{0x03, '2', '"', 0x00, -1},
	{0x04, '3', chPound, -1, -1},
	{0x05, '4', '$', -1, -1},
	{0x06, '5', '%', -1, -1},
	{0x07, '6', '&', 0x1E, -1},
	{0x08, '7', '/', -1, '{'},
	{0x09, '8', '(', -1, '['},
	{0x0A, '9', ')', -1, ']'},
	{0x0B, '0', '=', -1, '}'},
	{0x0C, '\'', '?', -1, '`'},
	{0x0D, chIGrave, '^', -1, '~'},
	{0x0F, '\t', '\t', -1, -1},
	{0x10, 'q', 'Q', 0x11, -1},
	{0x11, 'w', 'W', 0x17, -1},
	{0x12, 'e', 'E', 0x05, -1},
	{0x13, 'r', 'R', 0x12, -1},
	{0x14, 't', 'T', 0x14, -1},
	{0x15, 'y', 'Y', 0x19, -1},
	{0x16, 'u', 'U', 0x15, -1},
	{0x17, 'i', 'I', 0x09, -1},
	{0x18, 'o', 'O', 0x0F, -1},
	{0x19, 'p', 'P', 0x10, -1},
	{0x1A, chEGrave, chEAcute, 0x1B, '['},
	{0x1B, '+', '*', 0x1D, ']'},
	{0x1E, 'a', 'A', 0x01, -1},
	{0x1F, 's', 'S', 0x13, -1},
	{0x20, 'd', 'D', 0x04, -1},
	{0x21, 'f', 'F', 0x06, -1},
	{0x22, 'g', 'G', 0x07, -1},
	{0x23, 'h', 'H', 0x08, -1},
	{0x24, 'j', 'J', 0x0A, -1},
	{0x25, 'k', 'K', 0x0B, -1},
	{0x26, 'l', 'L', 0x0C, -1},
	{0x27, chOGrave, chCCedil, -1, '@'},
	{0x28, chAGrave, chDeg, -1, '#'},
	{0x29, '\\', '|', 0x1C, -1},
	{0x2B, chUGrave, chSect, -1, -1},
	{0x2C, 'z', 'Z', 0x1A, -1},
	{0x2D, 'x', 'X', 0x18, -1},
	{0x2E, 'c', 'C', 0x03, -1},
	{0x2F, 'v', 'V', 0x16, -1},
	{0x30, 'b', 'B', 0x02, -1},
	{0x31, 'n', 'N', 0x0E, -1},
	{0x32, 'm', 'M', 0x0D, -1},
	{0x33, ',', ';', -1, -1},
	{0x34, '.', ':', -1, -1},
	{0x35, '-', '_', 0x1F, -1},
	{0x39, ' ', ' ', 0x00, -1},
	{0x56, '<', '>', -1, -1},
	// Keypad, used through the normal column when num lock is on.
	{0x37, '*', '*', -1, -1},
	{0x47, '7', '7', -1, -1},
	{0x48, '8', '8', -1, -1},
	{0x49, '9', '9', -1, -1},
	{0x4A, '-', '-', -1, -1},
	{0x4B, '4', '4', -1, -1},
	{0x4C, '5', '5', -1, -1},
	{0x4D, '6', '6', -1, -1},
	{0x4E, '+', '+', -1, -1},
	{0x4F, '1', '1', -1, -1},
	{0x50, '2', '2', -1, -1},
	{0x51, '3', '3', -1, -1},
	{0x52, '0', '0', -1, -1},
	{0x53, '.', '.', -1, -1},
	{0xE035, '/', '/', -1, -1},
}
