/*
 * MentOS - Physical page allocator
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

/* Order of two buddy allocator over a simulated physical arena. A
   block of order n covers 2^n contiguous pages aligned to its size.
   Freeing coalesces a block with its buddy as long as the buddy is
   whole and free. */

package mm

import (
	"sync"

	"github.com/rcornwell/mentos/kernel/defs"
)

// MaxOrder bounds block sizes to 2^10 pages, 4 MiB.
const MaxOrder uint = 10

// Block is a handle to one physical allocation.
type Block struct {
	index uint32 // First page number
	order uint
}

// Order returns the block's buddy order.
func (b *Block) Order() uint {
	return b.order
}

// Pages returns the page count the block covers.
func (b *Block) Pages() uint32 {
	return 1 << b.order
}

var phys struct {
	lock   sync.Mutex
	npages uint32
	data   []byte   // Arena contents, npages * PageSize bytes
	free   [MaxOrder + 1][]uint32
	taken  map[uint32]uint // Allocated block start -> order
}

// InitializeArena sets up the arena with npages pages, all free.
func InitializeArena(npages uint32) {
	phys.lock.Lock()
	defer phys.lock.Unlock()
	phys.npages = npages
	phys.data = make([]byte, npages*defs.PageSize)
	phys.taken = make(map[uint32]uint)
	for i := range phys.free {
		phys.free[i] = nil
	}
	// Seed the free lists with the largest aligned blocks.
	page := uint32(0)
	for page < npages {
		order := MaxOrder
		for order > 0 && (page&((1<<order)-1) != 0 || page+(1<<order) > npages) {
			order--
		}
		phys.free[order] = append(phys.free[order], page)
		page += 1 << order
	}
}

// FreePageCount returns the number of pages on the free lists.
func FreePageCount() uint32 {
	phys.lock.Lock()
	defer phys.lock.Unlock()
	var n uint32
	for order, list := range phys.free {
		n += uint32(len(list)) << uint(order)
	}
	return n
}

// AllocPages takes a zeroed block of 2^order pages off the free
// lists. Returns nil when no block large enough remains.
func AllocPages(order uint) *Block {
	if order > MaxOrder {
		return nil
	}
	phys.lock.Lock()
	defer phys.lock.Unlock()

	// Find the smallest order with a free block.
	at := order
	for at <= MaxOrder && len(phys.free[at]) == 0 {
		at++
	}
	if at > MaxOrder {
		return nil
	}
	start := phys.free[at][len(phys.free[at])-1]
	phys.free[at] = phys.free[at][:len(phys.free[at])-1]

	// Split down to the requested order, returning the upper halves.
	for at > order {
		at--
		phys.free[at] = append(phys.free[at], start+(1<<at))
	}

	phys.taken[start] = order
	base := start << defs.PageShift
	clear(phys.data[base : base+(1<<order)<<defs.PageShift])
	return &Block{index: start, order: order}
}

// FreePages returns a block to the free lists, coalescing buddies.
func FreePages(b *Block) {
	if b == nil {
		return
	}
	phys.lock.Lock()
	defer phys.lock.Unlock()
	if _, ok := phys.taken[b.index]; !ok {
		panic("mm: free of unallocated block")
	}
	delete(phys.taken, b.index)

	start := b.index
	order := b.order
	for order < MaxOrder {
		buddy := start ^ (1 << order)
		found := -1
		for i, f := range phys.free[order] {
			if f == buddy {
				found = i
				break
			}
		}
		if found < 0 {
			break
		}
		phys.free[order] = append(phys.free[order][:found], phys.free[order][found+1:]...)
		if buddy < start {
			start = buddy
		}
		order++
	}
	phys.free[order] = append(phys.free[order], start)
}

// PhysAddr returns the physical byte address of a block.
func PhysAddr(b *Block) uint32 {
	return b.index << defs.PageShift
}

// PageBytes exposes the contents of one physical page.
func PageBytes(page uint32) []byte {
	base := page << defs.PageShift
	return phys.data[base : base+defs.PageSize]
}
