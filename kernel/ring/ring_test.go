/*
 * MentOS - Ring buffer tests
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
	"runtime"
	"sync"
	"testing"
)

// Push from the front, drain from the back, order preserved.
func TestRingOrder(t *testing.T) {
	r := New[int32](8)
	for i := int32(0); i < 5; i++ {
		r.PushFront(i)
	}
	if r.Len() != 5 {
		t.Errorf("Ring count not correct got: %d expected: %d", r.Len(), 5)
	}
	for i := int32(0); i < 5; i++ {
		v, ok := r.PopBack()
		if !ok {
			t.Fatalf("Ring empty after %d pops", i)
		}
		if v != i {
			t.Errorf("Ring order not correct got: %d expected: %d", v, i)
		}
	}
	if _, ok := r.PopBack(); ok {
		t.Error("Ring should be empty")
	}
}

// Pushing onto a full ring drops the oldest element.
func TestRingOverwrite(t *testing.T) {
	r := New[int32](4)
	for i := int32(0); i < 6; i++ {
		r.PushFront(i)
	}
	if r.Len() != 4 {
		t.Errorf("Ring count not correct got: %d expected: %d", r.Len(), 4)
	}
	// 0 and 1 were dropped.
	for i := int32(2); i < 6; i++ {
		v, ok := r.PopBack()
		if !ok || v != i {
			t.Errorf("Ring overwrite not correct got: %d expected: %d", v, i)
		}
	}
}

// PushBack on a full ring drops the front element.
func TestRingOverwriteBack(t *testing.T) {
	r := New[int32](4)
	for i := int32(0); i < 4; i++ {
		r.PushBack(i)
	}
	r.PushBack(9)
	v, ok := r.PeekFront()
	if !ok || v != 1 {
		t.Errorf("Ring front not correct got: %d expected: %d", v, 1)
	}
	v, ok = r.PeekBack()
	if !ok || v != 9 {
		t.Errorf("Ring back not correct got: %d expected: %d", v, 9)
	}
}

// PushBack jumps the queue ahead of PushFront traffic.
func TestRingQueueJump(t *testing.T) {
	r := New[int32](8)
	r.PushFront(1)
	r.PushFront(2)
	r.PushBack(99)
	v, ok := r.PopBack()
	if !ok || v != 99 {
		t.Errorf("PushBack element not first out got: %d expected: %d", v, 99)
	}
	v, _ = r.PopBack()
	if v != 1 {
		t.Errorf("Ring order not correct got: %d expected: %d", v, 1)
	}
}

// Empty ring boundary operations return a sentinel and leave the
// state alone.
func TestRingEmpty(t *testing.T) {
	r := New[byte](4)
	if _, ok := r.PopFront(); ok {
		t.Error("PopFront on empty ring should fail")
	}
	if _, ok := r.PopBack(); ok {
		t.Error("PopBack on empty ring should fail")
	}
	if _, ok := r.PeekFront(); ok {
		t.Error("PeekFront on empty ring should fail")
	}
	if _, ok := r.Get(0); ok {
		t.Error("Get on empty ring should fail")
	}
	if r.Len() != 0 {
		t.Errorf("Ring count not correct got: %d expected: %d", r.Len(), 0)
	}
}

// Get indexes from the oldest element.
func TestRingGet(t *testing.T) {
	r := New[int32](8)
	for i := int32(10); i < 15; i++ {
		r.PushFront(i)
	}
	for i := 0; i < 5; i++ {
		v, ok := r.Get(i)
		if !ok || v != int32(10+i) {
			t.Errorf("Get not correct got: %d expected: %d", v, 10+i)
		}
	}
	if _, ok := r.Get(5); ok {
		t.Error("Get past count should fail")
	}
	if _, ok := r.Get(-1); ok {
		t.Error("Get of negative index should fail")
	}
}

// PopFront removes the newest element.
func TestRingPopFront(t *testing.T) {
	r := New[byte](8)
	r.PushFront('h')
	r.PushFront('i')
	v, ok := r.PopFront()
	if !ok || v != 'i' {
		t.Errorf("PopFront not correct got: %c expected: %c", v, 'i')
	}
	v, _ = r.PopFront()
	if v != 'h' {
		t.Errorf("PopFront not correct got: %c expected: %c", v, 'h')
	}
}

// Concurrent producer and consumer never lose or reorder elements
// when the ring does not overflow.
func TestRingConcurrent(t *testing.T) {
	r := New[int32](256)
	const total = 10000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := int32(0); i < total; i++ {
			for r.Full() {
				runtime.Gosched()
			}
			r.PushFront(i)
		}
	}()
	next := int32(0)
	for next < total {
		v, ok := r.PopBack()
		if !ok {
			runtime.Gosched()
			continue
		}
		if v != next {
			t.Fatalf("Ring sequence not correct got: %d expected: %d", v, next)
		}
		next++
	}
	wg.Wait()
}
