/*
 * MentOS - Trap and interrupt dispatch
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

package trap

import (
	"sync"
)

// Handler services one trap or interrupt vector.
type Handler func()

const vectors = 48

var table struct {
	lock     sync.Mutex
	handlers [vectors]Handler
}

// Register installs a handler for a vector, replacing any previous
// one.
func Register(vector int, h Handler) {
	if vector < 0 || vector >= vectors {
		panic("trap: bad vector")
	}
	table.lock.Lock()
	table.handlers[vector] = h
	table.lock.Unlock()
}

// Reset clears every handler.
func Reset() {
	table.lock.Lock()
	for i := range table.handlers {
		table.handlers[i] = nil
	}
	table.lock.Unlock()
}

// Raise runs the handler for a vector. Unhandled vectors are ignored
// the way a masked interrupt line would be.
func Raise(vector int) {
	if vector < 0 || vector >= vectors {
		return
	}
	table.lock.Lock()
	h := table.handlers[vector]
	table.lock.Unlock()
	if h != nil {
		h()
	}
}

// Pic models the interrupt controller far enough to account for end
// of interrupt signals per line.
type Pic struct {
	lock sync.Mutex
	eoi  [16]int
}

// NewPic returns a controller with no EOIs recorded.
func NewPic() *Pic {
	return &Pic{}
}

// EOI records an end of interrupt for a line.
func (p *Pic) EOI(line int) {
	if line < 0 || line >= len(p.eoi) {
		return
	}
	p.lock.Lock()
	p.eoi[line]++
	p.lock.Unlock()
}

// Count returns the EOIs recorded for a line.
func (p *Pic) Count(line int) int {
	p.lock.Lock()
	defer p.lock.Unlock()
	if line < 0 || line >= len(p.eoi) {
		return 0
	}
	return p.eoi[line]
}
