/*
 * MentOS - Page tables and address spaces
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

package mm

import (
	"sync"

	"github.com/rcornwell/mentos/kernel/defs"
)

// PTE is a page table entry: frame address in the high bits, flag
// bits below.
type PTE uint32

const (
	PtePresent PTE = 1 << 0
	PteWrite   PTE = 1 << 1
	PteUser    PTE = 1 << 2
)

// PteAddr masks the frame address of an entry.
const PteAddr PTE = 0xFFFFF000

// UserBase is the first virtual address handed out to user mappings.
const UserBase uint32 = 0x40000000

// UserTop bounds the user portion of the address space.
const UserTop uint32 = 0xC0000000

// AddressSpace is one task's page table.
type AddressSpace struct {
	lock  sync.Mutex
	table map[uint32]PTE // Virtual page number -> entry
}

// NewAddressSpace returns an empty address space.
func NewAddressSpace() *AddressSpace {
	return &AddressSpace{table: make(map[uint32]PTE)}
}

// FindFreeRange scans for the lowest run of unmapped pages covering
// length bytes, first fit from UserBase. Entries with the present
// bit cleared count as free.
func (as *AddressSpace) FindFreeRange(length uint32) (uint32, bool) {
	pages := defs.PagesFor(length)
	if pages == 0 {
		return 0, false
	}
	as.lock.Lock()
	defer as.lock.Unlock()

	run := uint32(0)
	start := UserBase >> defs.PageShift
	for vpn := start; vpn < UserTop>>defs.PageShift; vpn++ {
		if e, ok := as.table[vpn]; ok && e&PtePresent != 0 {
			run = 0
			continue
		}
		if run == 0 {
			start = vpn
		}
		run++
		if run == pages {
			return start << defs.PageShift, true
		}
	}
	return 0, false
}

// MapRange writes entries mapping [vaddr, vaddr+length) onto the
// physical range starting at paddr.
func (as *AddressSpace) MapRange(vaddr, paddr, length uint32, flags PTE) {
	if vaddr&(defs.PageSize-1) != 0 || paddr&(defs.PageSize-1) != 0 {
		panic("mm: unaligned mapping")
	}
	pages := defs.PagesFor(length)
	as.lock.Lock()
	for i := uint32(0); i < pages; i++ {
		vpn := (vaddr >> defs.PageShift) + i
		frame := paddr + i<<defs.PageShift
		as.table[vpn] = PTE(frame)&PteAddr | flags | PtePresent
	}
	as.lock.Unlock()
}

// UnmapRange clears the present bit on every page of the range,
// leaving the virtual range unused.
func (as *AddressSpace) UnmapRange(vaddr, length uint32) {
	pages := defs.PagesFor(length)
	as.lock.Lock()
	for i := uint32(0); i < pages; i++ {
		vpn := (vaddr >> defs.PageShift) + i
		if e, ok := as.table[vpn]; ok {
			as.table[vpn] = e &^ PtePresent
		}
	}
	as.lock.Unlock()
}

// Translate walks the table for a virtual address. Only present
// entries translate.
func (as *AddressSpace) Translate(vaddr uint32) (uint32, PTE, bool) {
	as.lock.Lock()
	defer as.lock.Unlock()
	e, ok := as.table[vaddr>>defs.PageShift]
	if !ok || e&PtePresent == 0 {
		return 0, 0, false
	}
	return uint32(e&PteAddr) | vaddr&(defs.PageSize-1), e, true
}

// Entry returns the raw entry for an address, present or not.
func (as *AddressSpace) Entry(vaddr uint32) (PTE, bool) {
	as.lock.Lock()
	defer as.lock.Unlock()
	e, ok := as.table[vaddr>>defs.PageShift]
	return e, ok
}

// Free drops every mapping.
func (as *AddressSpace) Free() {
	as.lock.Lock()
	as.table = make(map[uint32]PTE)
	as.lock.Unlock()
}

// ReadBytes copies out of the arena through the page table. Used by
// the simulation in place of user mode loads.
func (as *AddressSpace) ReadBytes(vaddr uint32, buf []byte) int {
	n := 0
	for n < len(buf) {
		pa, _, ok := as.Translate(vaddr + uint32(n))
		if !ok {
			break
		}
		page := PageBytes(pa >> defs.PageShift)
		off := pa & (defs.PageSize - 1)
		c := copy(buf[n:], page[off:])
		n += c
	}
	return n
}

// WriteBytes copies into the arena through the page table, honoring
// the write permission bit.
func (as *AddressSpace) WriteBytes(vaddr uint32, buf []byte) int {
	n := 0
	for n < len(buf) {
		pa, pte, ok := as.Translate(vaddr + uint32(n))
		if !ok || pte&PteWrite == 0 {
			break
		}
		page := PageBytes(pa >> defs.PageShift)
		off := pa & (defs.PageSize - 1)
		c := copy(page[off:], buf[n:])
		n += c
	}
	return n
}
