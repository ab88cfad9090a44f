/*
 * MentOS - Keyboard interrupt service routine
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

/* The keyboard driver runs in two halves. The interrupt half reads
   scancodes from the PS/2 data port, tracks the modifier word, and
   pushes translated characters onto the scancode ring. The process
   half (the line discipline) drains the ring on read().

   Characters and escape bytes go in FIFO order. The alt key marker is
   the one queue jumper, it carries its scancode in the high 16 bits
   so readers can tell it apart from a character. */

package keyboard

import (
	"github.com/rcornwell/mentos/kernel/keymap"
	"github.com/rcornwell/mentos/kernel/ring"
	"github.com/rcornwell/mentos/util/debug"
)

// Port is the PS/2 controller data port the ISR talks to.
type Port interface {
	ReadData() uint8
	WriteData(uint8)
}

// PIC receives end of interrupt signals.
type PIC interface {
	EOI(line int)
}

// Modifier flag word bits.
const (
	ModLeftShift uint16 = 1 << iota
	ModRightShift
	ModCapsLock
	ModNumLock
	ModScrollLock
	ModLeftCtrl
	ModRightCtrl
	ModLeftAlt
	ModRightAlt
)

// LED state byte bits, as sent to the controller.
const (
	LedScrollLock uint8 = 1 << iota
	LedNumLock
	LedCapsLock
)

// Controller command bytes.
const (
	cmdSetLeds = 0xED
	cmdEnable  = 0xF4
	cmdDisable = 0xF5
)

const (
	irqLine       = 1
	prefix  uint8 = 0xE0 // Two byte scancode introducer
	breakBit      = 0x80 // Release flag in the low scancode byte
)

const ringSize = 256

// Debug options.
const (
	debugScan = 1 << iota // Log raw scancodes.
	debugKeys             // Log translated characters.
)

var debugOption = map[string]int{
	"SCAN": debugScan,
	"KEYS": debugKeys,
}

// Make the debug options settable from the configuration file.
func init() {
	debug.RegisterModule("KEYBOARD", Debug)
}

// Driver state, mutated only from the ISR once initialized.
var kbd struct {
	port     Port
	pic      PIC
	buffer   *ring.Ring[int32]
	mods     uint16
	layout   keymap.Layout
	debugMsk int
}

// Initialize sets up the driver state, enables the device and lights
// the LEDs to the cleared state.
func Initialize(port Port, pic PIC, layout keymap.Layout) {
	kbd.port = port
	kbd.pic = pic
	kbd.layout = layout
	kbd.mods = 0
	kbd.buffer = ring.New[int32](ringSize)
	port.WriteData(cmdEnable)
	updateLeds()
}

// Buffer returns the scancode ring shared with the line discipline.
func Buffer() *ring.Ring[int32] {
	return kbd.buffer
}

// Modifiers returns the current modifier flag word.
func Modifiers() uint16 {
	return kbd.mods
}

// Leds returns the LED state derived from the modifier word.
func Leds() uint8 {
	var led uint8
	if kbd.mods&ModScrollLock != 0 {
		led |= LedScrollLock
	}
	if kbd.mods&ModNumLock != 0 {
		led |= LedNumLock
	}
	if kbd.mods&ModCapsLock != 0 {
		led |= LedCapsLock
	}
	return led
}

// Layout returns the active layout.
func Layout() keymap.Layout {
	return kbd.layout
}

// SetLayout switches the active layout.
func SetLayout(layout keymap.Layout) {
	kbd.layout = layout
}

// Enable turns the keyboard device on.
func Enable() {
	kbd.port.WriteData(cmdEnable)
}

// Disable turns the keyboard device off.
func Disable() {
	kbd.port.WriteData(cmdDisable)
}

// Debug enables a debug option.
func Debug(opt string) bool {
	flag, ok := debugOption[opt]
	if ok {
		kbd.debugMsk |= flag
	}
	return ok
}

// InjectSequence pushes synthesized bytes onto the ring from process
// context. The ring lock serializes it against the ISR.
func InjectSequence(s string) {
	for i := 0; i < len(s); i++ {
		kbd.buffer.PushFront(int32(s[i]))
	}
}

// HandleInterrupt is the keyboard ISR, called from the interrupt
// dispatch on IRQ 1. It never blocks and signals EOI on every exit.
func HandleInterrupt() {
	scan := uint16(kbd.port.ReadData())
	if scan == uint16(prefix) {
		scan = uint16(prefix)<<8 | uint16(kbd.port.ReadData())
	}
	debug.Debugf("keyboard", kbd.debugMsk, debugScan, "scancode %04x", scan)
	handleScancode(scan)
	kbd.pic.EOI(irqLine)
}

// updateLeds rewrites the controller LED state.
func updateLeds() {
	kbd.port.WriteData(cmdSetLeds)
	kbd.port.WriteData(Leds())
}

// pushChar queues one translated character.
func pushChar(c byte) {
	debug.Debugf("keyboard", kbd.debugMsk, debugKeys, "char %02x", c)
	kbd.buffer.PushFront(int32(c))
}

// pushString queues an escape sequence, bytes in order.
func pushString(s string) {
	for i := 0; i < len(s); i++ {
		kbd.buffer.PushFront(int32(s[i]))
	}
}

// Escape sequences for navigation and function keys.
var navSeq = map[uint16]string{
	keymap.ScanUp:       "\x1b[A",
	keymap.ScanDown:     "\x1b[B",
	keymap.ScanRight:    "\x1b[C",
	keymap.ScanLeft:     "\x1b[D",
	keymap.ScanHome:     "\x1b[1~",
	keymap.ScanEnd:      "\x1b[4~",
	keymap.ScanPageUp:   "\x1b[5~",
	keymap.ScanPageDown: "\x1b[6~",
	keymap.ScanInsert:   "\x1b[2~",
}

// Ctrl variants of the arrow keys.
var ctrlArrowSeq = map[uint16]string{
	keymap.ScanUp:    "\x1b[1;5A",
	keymap.ScanDown:  "\x1b[1;5B",
	keymap.ScanRight: "\x1b[1;5C",
	keymap.ScanLeft:  "\x1b[1;5D",
}

// Function key codes, F1 through F12.
var fnCode = []string{"11", "12", "13", "14", "15", "17", "18", "19", "20", "21", "23", "24"}

// Keypad equivalents when num lock is off.
var keypadNav = map[uint16]uint16{
	keymap.ScanKP8:   keymap.ScanUp,
	keymap.ScanKP2:   keymap.ScanDown,
	keymap.ScanKP4:   keymap.ScanLeft,
	keymap.ScanKP6:   keymap.ScanRight,
	keymap.ScanKP7:   keymap.ScanHome,
	keymap.ScanKP1:   keymap.ScanEnd,
	keymap.ScanKP9:   keymap.ScanPageUp,
	keymap.ScanKP3:   keymap.ScanPageDown,
	keymap.ScanKP0:   keymap.ScanInsert,
	keymap.ScanKPDot: keymap.ScanDelete,
}

// handleScancode decodes one key event.
func handleScancode(scan uint16) {
	release := scan&breakBit != 0
	key := scan &^ breakBit

	// Modifier keys first.
	switch key {
	case keymap.ScanLeftShift:
		setMod(ModLeftShift, !release)
		return
	case keymap.ScanRightShift:
		setMod(ModRightShift, !release)
		return
	case keymap.ScanLeftCtrl:
		setMod(ModLeftCtrl, !release)
		return
	case keymap.ScanRightCtrl:
		setMod(ModRightCtrl, !release)
		return
	case keymap.ScanLeftAlt, keymap.ScanRightAlt:
		if key == keymap.ScanLeftAlt {
			setMod(ModLeftAlt, !release)
		} else {
			setMod(ModRightAlt, !release)
		}
		if !release {
			// Queue jumping marker, scancode in the high bits.
			kbd.buffer.PushBack(int32(uint32(key) << 16))
		}
		return
	}

	// Everything below acts on make codes only.
	if release {
		return
	}

	switch key {
	case keymap.ScanCapsLock:
		kbd.mods ^= ModCapsLock
		updateLeds()
		return
	case keymap.ScanNumLock:
		kbd.mods ^= ModNumLock
		updateLeds()
		return
	case keymap.ScanScrollLock:
		kbd.mods ^= ModScrollLock
		updateLeds()
		return
	case keymap.ScanEscape:
		return
	case keymap.ScanBackspace:
		pushChar('\b')
		return
	case keymap.ScanEnter, keymap.ScanKPEnter:
		pushChar('\n')
		return
	case keymap.ScanDelete:
		pushChar(0x7F)
		return
	}

	// Keypad keys act as navigation keys while num lock is off.
	if nav, ok := keypadNav[key]; ok && kbd.mods&ModNumLock == 0 {
		if nav == keymap.ScanDelete {
			pushChar(0x7F)
			return
		}
		key = nav
	}

	// Navigation and function keys produce CSI sequences.
	if seq, ok := navSeq[key]; ok {
		if kbd.mods&(ModLeftCtrl|ModRightCtrl) != 0 {
			if cseq, ok := ctrlArrowSeq[key]; ok {
				seq = cseq
			}
		}
		pushString(seq)
		return
	}
	if key >= keymap.ScanF1 && key <= keymap.ScanF10 {
		pushString("\x1b[" + fnCode[key-keymap.ScanF1] + "~")
		return
	}
	if key == keymap.ScanF11 || key == keymap.ScanF12 {
		pushString("\x1b[" + fnCode[10+key-keymap.ScanF11] + "~")
		return
	}

	// Printable keys go through the keymap.
	code := resolve(keymap.Get(kbd.layout, key))
	if code == keymap.None {
		return
	}
	pushChar(byte(code))
}

// resolve picks the code point for the current modifier state. Caps
// lock inverts shift for letters only. Unknown combinations are
// swallowed.
func resolve(e keymap.Entry) int32 {
	shift := kbd.mods&(ModLeftShift|ModRightShift) != 0
	caps := kbd.mods&ModCapsLock != 0
	ctrl := kbd.mods&(ModLeftCtrl|ModRightCtrl) != 0
	ralt := kbd.mods&ModRightAlt != 0

	switch {
	case shift != caps && keymap.Alphabetic(e.Normal):
		return e.Shift
	case kbd.layout == keymap.IT && ralt && shift:
		return e.Alt
	case ralt:
		return e.Alt
	case ctrl:
		return e.Ctrl
	case shift && !keymap.Alphabetic(e.Normal):
		return e.Shift
	}
	return e.Normal
}

func setMod(flag uint16, on bool) {
	if on {
		kbd.mods |= flag
	} else {
		kbd.mods &^= flag
	}
}
