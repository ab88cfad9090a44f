/*
 * MentOS - Simulated PS/2 keyboard controller
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

/* The controller model keeps a byte queue on the device side of the
   data port. Front ends press and release keys on it; each key event
   queues its scancode bytes and raises one interrupt, which the
   keyboard ISR answers by reading the bytes back out of the port. */

package i8042

import (
	"sync"

	"github.com/rcornwell/mentos/kernel/keymap"
)

// Controller commands understood by the device.
const (
	cmdSetLeds = 0xED
	cmdEnable  = 0xF4
	cmdDisable = 0xF5
)

// Controller simulates the keyboard side of an i8042.
type Controller struct {
	lock    sync.Mutex
	queue   []uint8 // Bytes waiting behind the data port.
	leds    uint8
	enabled bool
	needLed bool // Next written byte is the LED state.

	// Interrupt is raised once per queued key event.
	Interrupt func()
}

// New returns an enabled controller with all LEDs off.
func New() *Controller {
	return &Controller{enabled: true}
}

// ReadData reads one byte from the data port. An empty queue reads
// as zero.
func (c *Controller) ReadData() uint8 {
	c.lock.Lock()
	defer c.lock.Unlock()
	if len(c.queue) == 0 {
		return 0
	}
	b := c.queue[0]
	c.queue = c.queue[1:]
	return b
}

// WriteData accepts a command byte from the driver.
func (c *Controller) WriteData(b uint8) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.needLed {
		c.leds = b & 0x07
		c.needLed = false
		return
	}
	switch b {
	case cmdSetLeds:
		c.needLed = true
	case cmdEnable:
		c.enabled = true
	case cmdDisable:
		c.enabled = false
	}
}

// Leds returns the LED state last written by the driver.
func (c *Controller) Leds() uint8 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.leds
}

// Enabled reports whether the device is scanning.
func (c *Controller) Enabled() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.enabled
}

// queueEvent queues the bytes of one key event and raises the
// interrupt line.
func (c *Controller) queueEvent(bytes ...uint8) {
	c.lock.Lock()
	if !c.enabled {
		c.lock.Unlock()
		return
	}
	c.queue = append(c.queue, bytes...)
	irq := c.Interrupt
	c.lock.Unlock()
	if irq != nil {
		irq()
	}
}

// Press queues the make code for a key. Extended keys send their
// 0xE0 prefix first.
func (c *Controller) Press(scan uint16) {
	if scan > 0xFF {
		c.queueEvent(uint8(scan>>8), uint8(scan))
		return
	}
	c.queueEvent(uint8(scan))
}

// Release queues the break code for a key.
func (c *Controller) Release(scan uint16) {
	if scan > 0xFF {
		c.queueEvent(uint8(scan>>8), uint8(scan)|0x80)
		return
	}
	c.queueEvent(uint8(scan) | 0x80)
}

// Tap presses and releases a key.
func (c *Controller) Tap(scan uint16) {
	c.Press(scan)
	c.Release(scan)
}

// TypeByte produces the key events for one character under the given
// layout, wrapping them in shift when the character sits in the shift
// column. Characters with no key are dropped.
func (c *Controller) TypeByte(layout keymap.Layout, ch byte) {
	scan, shift, ok := lookup(layout, ch)
	if !ok {
		return
	}
	if shift {
		c.Press(keymap.ScanLeftShift)
	}
	c.Tap(scan)
	if shift {
		c.Release(keymap.ScanLeftShift)
	}
}

// TypeString types every byte of s. Newline and carriage return both
// press enter, backspace and tab press their keys.
func (c *Controller) TypeString(layout keymap.Layout, s string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r', '\n':
			c.Tap(keymap.ScanEnter)
		case '\b', 0x7F:
			c.Tap(keymap.ScanBackspace)
		case '\t':
			c.Tap(keymap.ScanTab)
		case 0x1B:
			c.Tap(keymap.ScanEscape)
		default:
			if s[i] < 0x20 {
				// Control character, press ctrl plus the letter.
				letter := s[i] | 0x60
				scan, _, ok := lookup(layout, letter)
				if !ok {
					continue
				}
				c.Press(keymap.ScanLeftCtrl)
				c.Tap(scan)
				c.Release(keymap.ScanLeftCtrl)
				continue
			}
			c.TypeByte(layout, s[i])
		}
	}
}

// lookup scans a layout for the key producing ch, preferring the
// normal column over the shift column.
func lookup(layout keymap.Layout, ch byte) (scan uint16, shift bool, ok bool) {
	for scan := uint16(0x01); scan <= 0x58; scan++ {
		e := keymap.Get(layout, scan)
		if e.Normal != keymap.None && byte(e.Normal) == ch {
			return scan, false, true
		}
	}
	for scan := uint16(0x01); scan <= 0x58; scan++ {
		e := keymap.Get(layout, scan)
		if e.Shift != keymap.None && byte(e.Shift) == ch {
			return scan, true, true
		}
	}
	return 0, false, false
}
