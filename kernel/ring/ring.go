/*
 * MentOS - Lock protected ring buffer
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

package ring

import (
	"sync"
)

// Ring is a fixed capacity double ended ring buffer. Every operation
// runs under the ring's lock, so the interrupt side and process side
// can share one instance. A push onto a full ring overwrites the
// element at the opposite end.
//
// The front is where producers push; consumers draining with PopBack
// see elements in the order they were pushed.
type Ring[T any] struct {
	lock  sync.Mutex
	buf   []T
	head  int // Index one past the front element.
	tail  int // Index of the back element.
	count int
}

// New returns a ring holding at most capacity elements.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("ring: bad capacity")
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Capacity returns the fixed element capacity.
func (r *Ring[T]) Capacity() int {
	return len(r.buf)
}

// Len returns the number of elements currently held.
func (r *Ring[T]) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.count
}

// Empty reports whether the ring holds no elements.
func (r *Ring[T]) Empty() bool {
	return r.Len() == 0
}

// Full reports whether another push must overwrite.
func (r *Ring[T]) Full() bool {
	return r.Len() == len(r.buf)
}

// Reset drops all elements.
func (r *Ring[T]) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.head = 0
	r.tail = 0
	r.count = 0
}

func (r *Ring[T]) next(i int) int {
	return (i + 1) % len(r.buf)
}

func (r *Ring[T]) prev(i int) int {
	return (i - 1 + len(r.buf)) % len(r.buf)
}

// PushFront inserts v at the front. When full the back element is
// dropped to make room.
func (r *Ring[T]) PushFront(v T) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.buf[r.head] = v
	r.head = r.next(r.head)
	if r.count == len(r.buf) {
		r.tail = r.next(r.tail)
	} else {
		r.count++
	}
}

// PushBack inserts v at the back. When full the front element is
// dropped to make room.
func (r *Ring[T]) PushBack(v T) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.tail = r.prev(r.tail)
	r.buf[r.tail] = v
	if r.count == len(r.buf) {
		r.head = r.prev(r.head)
	} else {
		r.count++
	}
}

// PopFront removes and returns the front element.
func (r *Ring[T]) PopFront() (T, bool) {
	var zero T
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.count == 0 {
		return zero, false
	}
	r.head = r.prev(r.head)
	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.count--
	return v, true
}

// PopBack removes and returns the back element.
func (r *Ring[T]) PopBack() (T, bool) {
	var zero T
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.count == 0 {
		return zero, false
	}
	v := r.buf[r.tail]
	r.buf[r.tail] = zero
	r.tail = r.next(r.tail)
	r.count--
	return v, true
}

// PeekFront returns the front element without removing it.
func (r *Ring[T]) PeekFront() (T, bool) {
	var zero T
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.count == 0 {
		return zero, false
	}
	return r.buf[r.prev(r.head)], true
}

// PeekBack returns the back element without removing it.
func (r *Ring[T]) PeekBack() (T, bool) {
	var zero T
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.count == 0 {
		return zero, false
	}
	return r.buf[r.tail], true
}

// Get returns the element i positions in from the back, 0 being the
// back (oldest) element.
func (r *Ring[T]) Get(i int) (T, bool) {
	var zero T
	r.lock.Lock()
	defer r.lock.Unlock()
	if i < 0 || i >= r.count {
		return zero, false
	}
	return r.buf[(r.tail+i)%len(r.buf)], true
}
