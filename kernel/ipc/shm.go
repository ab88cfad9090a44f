/*
 * MentOS - System V shared memory
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

/* Segments live in one ordered table guarded by a single lock, the
   way every shm syscall entry point serializes. Keys, ids and backing
   blocks are unique across live segments. A removed segment with
   attachments left is hidden from key lookup and reclaimed when the
   last detach drops the count to zero. */

package ipc

import (
	"sync"
	"time"

	"github.com/rcornwell/mentos/kernel/defs"
	"github.com/rcornwell/mentos/kernel/mm"
)

// Get and attach flag bits, matching the classic System V values.
const (
	IPCPrivate int32 = 0

	IPCCreat = 0o1000
	IPCExcl  = 0o2000

	ShmRdonly = 0o10000

	IPCRmid = 0
	IPCSet  = 1
	IPCStat = 2

	modeMask = 0o777
)

// Perm is the ownership and mode record of one segment.
type Perm struct {
	Key  int32
	UID  uint32 // Owner
	GID  uint32
	CUID uint32 // Creator
	CGID uint32
	Mode uint16 // Low nine permission bits
}

// Segment is one shared memory object.
type Segment struct {
	id      int32
	perm    Perm
	segsz   uint32 // Requested size, stored verbatim
	pages   *mm.Block
	atime   int64
	dtime   int64
	ctime   int64
	cpid    defs.Pid
	lpid    defs.Pid
	nattch  int32
	deleted bool // IPC_RMID seen, destroy on last detach
}

// SegInfo is a read only snapshot of a segment for inspection.
type SegInfo struct {
	ID     int32
	Perm   Perm
	Segsz  uint32
	Atime  int64
	Dtime  int64
	Ctime  int64
	Cpid   defs.Pid
	Lpid   defs.Pid
	Nattch int32
}

// Cred identifies the calling task to the permission checks.
type Cred struct {
	Pid defs.Pid
	UID uint32
	GID uint32
}

var shm struct {
	lock     sync.Mutex
	segments []*Segment
	nextID   int32
	nextKey  int32 // Generator for IPC_PRIVATE keys, counts down
}

// Initialize resets the table.
func Initialize() {
	shm.lock.Lock()
	shm.segments = nil
	shm.nextID = 1
	shm.nextKey = -2
	shm.lock.Unlock()
}

// findKey scans live segments for a key.
func findKey(key int32) *Segment {
	for _, seg := range shm.segments {
		if !seg.deleted && seg.perm.Key == key {
			return seg
		}
	}
	return nil
}

// findID scans live segments for an id.
func findID(id int32) *Segment {
	for _, seg := range shm.segments {
		if !seg.deleted && seg.id == id {
			return seg
		}
	}
	return nil
}

// checkPerm grants want (a 0400/0200 style owner triad) against the
// segment's mode, picking the owner, group or other bits the way the
// standard IPC permission check does.
func checkPerm(cred Cred, seg *Segment, want uint16) bool {
	mode := seg.perm.Mode
	switch {
	case cred.UID == seg.perm.UID || cred.UID == seg.perm.CUID:
		// Owner bits.
	case cred.GID == seg.perm.GID || cred.GID == seg.perm.CGID:
		mode <<= 3
	default:
		mode <<= 6
	}
	return mode&want == want
}

// create allocates the backing pages and enters a new segment.
func create(cred Cred, key int32, size uint32, flags int) int32 {
	block := mm.AllocPages(defs.OrderFor(size))
	if block == nil {
		return -defs.ENOENT
	}
	seg := &Segment{
		id: shm.nextID,
		perm: Perm{
			Key:  key,
			UID:  cred.UID,
			GID:  cred.GID,
			CUID: cred.UID,
			CGID: cred.GID,
			Mode: uint16(flags) & modeMask,
		},
		segsz: size,
		pages: block,
		ctime: time.Now().Unix(),
		cpid:  cred.Pid,
	}
	shm.nextID++
	shm.segments = append(shm.segments, seg)
	return seg.id
}

// ShmGet finds or creates a segment and returns its id.
func ShmGet(cred Cred, key int32, size uint32, flags int) int32 {
	shm.lock.Lock()
	defer shm.lock.Unlock()

	if key == IPCPrivate {
		// Generate an unused negative key. The counter only moves
		// down, so termination is immediate.
		key = shm.nextKey
		shm.nextKey--
		return create(cred, key, size, flags)
	}

	seg := findKey(key)
	if seg == nil {
		if flags&IPCCreat == 0 {
			return -defs.ENOENT
		}
		return create(cred, key, size, flags)
	}
	if flags&IPCCreat != 0 && flags&IPCExcl != 0 {
		return -defs.EEXIST
	}
	if !checkPerm(cred, seg, uint16(flags)&modeMask&0o600) {
		return -defs.EACCES
	}
	return seg.id
}

// ShmAt maps a segment into the caller's address space and returns
// the chosen virtual address.
func ShmAt(cred Cred, as *mm.AddressSpace, id int32, flags int) (uint32, int) {
	if id < 0 {
		return 0, -defs.EINVAL
	}
	shm.lock.Lock()
	defer shm.lock.Unlock()

	seg := findID(id)
	if seg == nil {
		return 0, -defs.ENOENT
	}

	want := uint16(0o600)
	pte := mm.PteUser | mm.PteWrite
	if flags&ShmRdonly != 0 {
		want = 0o400
		pte = mm.PteUser
	}
	if !checkPerm(cred, seg, want) {
		return 0, -defs.EACCES
	}

	vaddr, ok := as.FindFreeRange(seg.segsz)
	if !ok {
		return 0, -defs.ENOMEM
	}
	as.MapRange(vaddr, mm.PhysAddr(seg.pages), seg.segsz, pte)

	seg.nattch++
	seg.atime = time.Now().Unix()
	seg.lpid = cred.Pid
	return vaddr, 0
}

// destroy unlinks a segment and frees its backing pages.
func destroy(seg *Segment) {
	for i, s := range shm.segments {
		if s == seg {
			shm.segments = append(shm.segments[:i], shm.segments[i+1:]...)
			break
		}
	}
	mm.FreePages(seg.pages)
	seg.pages = nil
}

// ShmDt removes the mapping starting at addr from the caller's
// address space.
func ShmDt(cred Cred, as *mm.AddressSpace, addr uint32) int {
	shm.lock.Lock()
	defer shm.lock.Unlock()

	pa, _, ok := as.Translate(addr)
	if !ok {
		return -defs.ENOENT
	}
	frame := pa &^ (defs.PageSize - 1)

	var seg *Segment
	for _, s := range shm.segments {
		if s.pages != nil && mm.PhysAddr(s.pages) == frame {
			seg = s
			break
		}
	}
	if seg == nil {
		return -defs.ENOENT
	}

	as.UnmapRange(addr, seg.segsz)
	seg.nattch--
	seg.dtime = time.Now().Unix()
	seg.lpid = cred.Pid
	if seg.deleted && seg.nattch <= 0 {
		destroy(seg)
	}
	return 0
}

// ShmCtl services segment control requests.
func ShmCtl(cred Cred, id int32, cmd int, buf *SegInfo) int {
	if id < 0 {
		return -defs.EINVAL
	}
	shm.lock.Lock()
	defer shm.lock.Unlock()

	seg := findID(id)
	if seg == nil {
		return -defs.ENOENT
	}

	switch cmd {
	case IPCRmid:
		if cred.UID != seg.perm.UID && cred.UID != seg.perm.CUID {
			return -defs.EPERM
		}
		if seg.nattch <= 0 {
			destroy(seg)
			return 0
		}
		// Attachments remain; hide the segment and reclaim it on
		// the last detach.
		seg.deleted = true
		seg.ctime = time.Now().Unix()
		return 0

	case IPCStat:
		if buf == nil {
			return -defs.EINVAL
		}
		if !checkPerm(cred, seg, 0o400) {
			return -defs.EACCES
		}
		*buf = snapshot(seg)
		return 0
	}
	return -defs.EINVAL
}

func snapshot(seg *Segment) SegInfo {
	return SegInfo{
		ID:     seg.id,
		Perm:   seg.perm,
		Segsz:  seg.segsz,
		Atime:  seg.atime,
		Dtime:  seg.dtime,
		Ctime:  seg.ctime,
		Cpid:   seg.cpid,
		Lpid:   seg.lpid,
		Nattch: seg.nattch,
	}
}

// Segments returns a snapshot of every live segment in table order.
func Segments() []SegInfo {
	shm.lock.Lock()
	defer shm.lock.Unlock()
	out := make([]SegInfo, 0, len(shm.segments))
	for _, seg := range shm.segments {
		if !seg.deleted {
			out = append(out, snapshot(seg))
		}
	}
	return out
}
