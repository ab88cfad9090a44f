/*
 * MentOS - Terminal line discipline
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

/* The discipline turns raw scancodes into the cooked byte stream a
   task reads from its video file. Each read call moves at most one
   scancode; a return of zero tells the caller to retry. Canonical
   mode holds the line in the cooked buffer until a newline arrives. */

package tty

import (
	"io"
	"sync"

	"github.com/rcornwell/mentos/kernel/defs"
	"github.com/rcornwell/mentos/kernel/ring"
)

// Flags is the honored subset of the termios local flags.
type Flags uint32

const (
	ICANON Flags = 1 << iota // Line buffered input with editing
	ECHO                     // Echo input to the display
	ECHOE                    // Erase on backspace instead of ^?
	ISIG                     // Generate signals on ctrl-c / ctrl-z
)

// Ioctl requests.
const (
	TCGETS uint32 = 0x5401
	TCSETS uint32 = 0x5402
)

const cookedSize = 256

// Display fans video output out to every attached writer.
type Display struct {
	lock    sync.Mutex
	writers []io.Writer
}

// NewDisplay returns a display with no watchers attached.
func NewDisplay() *Display {
	return &Display{}
}

// Attach adds a writer receiving all display output.
func (d *Display) Attach(w io.Writer) {
	d.lock.Lock()
	d.writers = append(d.writers, w)
	d.lock.Unlock()
}

// Detach removes a writer.
func (d *Display) Detach(w io.Writer) {
	d.lock.Lock()
	for i, x := range d.writers {
		if x == w {
			d.writers = append(d.writers[:i], d.writers[i+1:]...)
			break
		}
	}
	d.lock.Unlock()
}

// Write sends bytes to every watcher.
func (d *Display) Write(p []byte) (int, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	for _, w := range d.writers {
		_, _ = w.Write(p)
	}
	return len(p), nil
}

// Putc writes a single character.
func (d *Display) Putc(c byte) {
	_, _ = d.Write([]byte{c})
}

// Discipline holds the per task terminal state.
type Discipline struct {
	source  *ring.Ring[int32] // Scancode ring shared with the ISR
	cooked  *ring.Ring[byte]
	flags   Flags
	display *Display
	signal  func(sig int) // Deliver a signal to the owning task
}

// New builds a discipline reading scancodes from source.
func New(source *ring.Ring[int32], flags Flags, display *Display, signal func(int)) *Discipline {
	return &Discipline{
		source:  source,
		cooked:  ring.New[byte](cookedSize),
		flags:   flags,
		display: display,
		signal:  signal,
	}
}

// Flags returns the current terminal flags.
func (ld *Discipline) Flags() Flags {
	return ld.flags
}

// SetFlags replaces the terminal flags.
func (ld *Discipline) SetFlags(f Flags) {
	ld.flags = f
}

// Pending returns the number of cooked bytes not yet read.
func (ld *Discipline) Pending() int {
	return ld.cooked.Len()
}

func (ld *Discipline) echo(c byte) {
	if ld.flags&ECHO != 0 && ld.display != nil {
		ld.display.Putc(c)
	}
}

func (ld *Discipline) echoString(s string) {
	if ld.flags&ECHO != 0 && ld.display != nil {
		_, _ = ld.display.Write([]byte(s))
	}
}

// cook appends the bytes of s to the cooked buffer in order.
func (ld *Discipline) cook(s string) {
	for i := 0; i < len(s); i++ {
		ld.cooked.PushFront(s[i])
	}
}

// Read moves at most one scancode and returns the bytes delivered to
// buf, or a side effect count. Zero means nothing available yet; the
// caller retries.
func (ld *Discipline) Read(buf []byte) int {
	if len(buf) == 0 {
		return 0
	}

	// Deliver from the cooked buffer first. Canonical mode waits
	// for the line terminator.
	if !ld.cooked.Empty() {
		deliver := ld.flags&ICANON == 0
		if !deliver {
			if last, ok := ld.cooked.PeekFront(); ok && last == '\n' {
				deliver = true
			}
		}
		if deliver {
			c, _ := ld.cooked.PopBack()
			buf[0] = c
			return 1
		}
	}

	v, ok := ld.source.PopBack()
	if !ok {
		return 0
	}
	// Modifier markers carry their scancode above the character
	// byte and produce no input.
	if uint32(v)&0xFFFFFF00 != 0 {
		return 0
	}
	c := byte(v)

	switch {
	case c == '\b':
		if ld.flags&ICANON != 0 {
			if _, erased := ld.cooked.PopFront(); erased && ld.flags&ECHOE != 0 && ld.display != nil {
				ld.display.Putc('\b')
			}
			return 0
		}
		buf[0] = c
		return 1

	case c == 0x7F:
		ld.echoString("\x1b[3~")
		ld.cook("\x1b[3~")
		return 0

	case c >= 0x01 && c <= 0x1A && c != '\n' && c != '\t':
		letter := 'A' + c - 1
		if ld.flags&ISIG != 0 && ld.signal != nil {
			switch c {
			case 0x03:
				ld.signal(defs.SIGTERM)
			case 0x1A:
				ld.signal(defs.SIGSTOP)
			}
		}
		ld.echo('^')
		ld.echo(letter)
		ld.cook("\x1b^" + string(letter))
		return 3

	default:
		ld.cooked.PushFront(c)
		ld.echo(c)
		if ld.flags&ICANON == 0 {
			ld.cooked.PopFront()
			buf[0] = c
			return 1
		}
		return 0
	}
}

// Write sends bytes straight to the display.
func (ld *Discipline) Write(buf []byte) int {
	if ld.display == nil {
		return 0
	}
	n, _ := ld.display.Write(buf)
	return n
}

// Ioctl services the terminal control requests.
func (ld *Discipline) Ioctl(cmd uint32, arg *Flags) int {
	switch cmd {
	case TCGETS:
		if arg == nil {
			return -defs.EINVAL
		}
		*arg = ld.flags
		return 0
	case TCSETS:
		if arg == nil {
			return -defs.EINVAL
		}
		ld.flags = *arg
		return 0
	}
	return -defs.EINVAL
}
