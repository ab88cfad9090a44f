/*
 * MentOS - Shared memory tests
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

package ipc

import (
	"strings"
	"testing"

	"github.com/rcornwell/mentos/kernel/defs"
	"github.com/rcornwell/mentos/kernel/mm"
)

var (
	owner = Cred{Pid: 1, UID: 100, GID: 100}
	group = Cred{Pid: 2, UID: 101, GID: 100}
	other = Cred{Pid: 3, UID: 200, GID: 200}
)

func setup() {
	mm.InitializeArena(128)
	Initialize()
}

// Create, attach, detach, remove.
func TestRoundTrip(t *testing.T) {
	setup()
	as := mm.NewAddressSpace()

	id := ShmGet(owner, 42, 4096, IPCCreat|0o600)
	if id != 1 {
		t.Fatalf("ShmGet not correct got: %d expected: %d", id, 1)
	}

	vaddr, errno := ShmAt(owner, as, id, 0)
	if errno != 0 || vaddr == 0 {
		t.Fatalf("ShmAt not correct got: %08x %d", vaddr, errno)
	}
	_, pte, ok := as.Translate(vaddr)
	if !ok {
		t.Fatal("Mapping not present")
	}
	if pte&(mm.PteUser|mm.PteWrite|mm.PtePresent) != mm.PteUser|mm.PteWrite|mm.PtePresent {
		t.Errorf("Mapping flags not correct got: %03b", pte&7)
	}
	if Segments()[0].Nattch != 1 {
		t.Errorf("Attach count not correct got: %d expected: %d", Segments()[0].Nattch, 1)
	}

	if r := ShmDt(owner, as, vaddr); r != 0 {
		t.Errorf("ShmDt not correct got: %d expected: %d", r, 0)
	}
	if _, _, ok := as.Translate(vaddr); ok {
		t.Error("Mapping should be gone after detach")
	}

	if r := ShmCtl(owner, id, IPCRmid, nil); r != 0 {
		t.Errorf("ShmCtl not correct got: %d expected: %d", r, 0)
	}
	if _, errno := ShmAt(owner, as, id, 0); errno != -defs.ENOENT {
		t.Errorf("Attach after remove not correct got: %d expected: %d", errno, -defs.ENOENT)
	}
	if free := mm.FreePageCount(); free != 128 {
		t.Errorf("Pages not released got: %d expected: %d", free, 128)
	}
}

// Lookup and creation flag handling.
func TestGetFlags(t *testing.T) {
	setup()

	if r := ShmGet(owner, 7, 4096, 0o600); r != -defs.ENOENT {
		t.Errorf("Missing key not correct got: %d expected: %d", r, -defs.ENOENT)
	}
	id := ShmGet(owner, 7, 4096, IPCCreat|0o600)
	if id < 0 {
		t.Fatalf("Create failed: %d", id)
	}
	if r := ShmGet(owner, 7, 4096, IPCCreat|IPCExcl|0o600); r != -defs.EEXIST {
		t.Errorf("Exclusive create not correct got: %d expected: %d", r, -defs.EEXIST)
	}
	if r := ShmGet(owner, 7, 4096, 0o600); r != id {
		t.Errorf("Lookup not correct got: %d expected: %d", r, id)
	}
	// Ids and keys stay unique.
	id2 := ShmGet(owner, 8, 4096, IPCCreat|0o600)
	if id2 == id {
		t.Errorf("Ids not unique got: %d and %d", id, id2)
	}
}

// The permission check walks owner, group, other.
func TestPermissions(t *testing.T) {
	setup()
	id := ShmGet(owner, 7, 4096, IPCCreat|0o640)

	if r := ShmGet(other, 7, 4096, 0o600); r != -defs.EACCES {
		t.Errorf("Other access not correct got: %d expected: %d", r, -defs.EACCES)
	}
	if r := ShmGet(group, 7, 4096, 0o400); r != id {
		t.Errorf("Group read not correct got: %d expected: %d", r, id)
	}

	as := mm.NewAddressSpace()
	// Group has read but not write.
	if _, errno := ShmAt(group, as, id, 0); errno != -defs.EACCES {
		t.Errorf("Group write attach not correct got: %d expected: %d", errno, -defs.EACCES)
	}
	vaddr, errno := ShmAt(group, as, id, ShmRdonly)
	if errno != 0 {
		t.Fatalf("Group read attach failed: %d", errno)
	}
	_, pte, _ := as.Translate(vaddr)
	if pte&mm.PteWrite != 0 {
		t.Error("Read only mapping has the write bit")
	}
	if _, errno := ShmAt(other, as, id, ShmRdonly); errno != -defs.EACCES {
		t.Errorf("Other attach not correct got: %d expected: %d", errno, -defs.EACCES)
	}
}

// IPC_PRIVATE generates fresh negative keys.
func TestPrivate(t *testing.T) {
	setup()
	id1 := ShmGet(owner, IPCPrivate, 4096, IPCCreat|0o600)
	id2 := ShmGet(owner, IPCPrivate, 4096, IPCCreat|0o600)
	if id1 < 0 || id2 < 0 || id1 == id2 {
		t.Fatalf("Private segments not correct got: %d %d", id1, id2)
	}
	segs := Segments()
	if len(segs) != 2 {
		t.Fatalf("Segment count not correct got: %d expected: %d", len(segs), 2)
	}
	if segs[0].Perm.Key >= 0 || segs[1].Perm.Key >= 0 {
		t.Errorf("Private keys not negative got: %d %d", segs[0].Perm.Key, segs[1].Perm.Key)
	}
	if segs[0].Perm.Key == segs[1].Perm.Key {
		t.Errorf("Private keys not unique got: %d", segs[0].Perm.Key)
	}
}

// Remove by non owner fails; removal with attachments defers.
func TestRemove(t *testing.T) {
	setup()
	as := mm.NewAddressSpace()
	id := ShmGet(owner, 7, 8192, IPCCreat|0o666)
	vaddr, _ := ShmAt(other, as, id, 0)

	if r := ShmCtl(other, id, IPCRmid, nil); r != -defs.EPERM {
		t.Errorf("Non owner remove not correct got: %d expected: %d", r, -defs.EPERM)
	}
	if r := ShmCtl(owner, id, IPCRmid, nil); r != 0 {
		t.Errorf("Remove not correct got: %d expected: %d", r, 0)
	}

	// Hidden from lookup while the attachment lives.
	if r := ShmGet(owner, 7, 8192, 0o600); r != -defs.ENOENT {
		t.Errorf("Deleted key lookup not correct got: %d expected: %d", r, -defs.ENOENT)
	}
	if _, errno := ShmAt(owner, as, id, 0); errno != -defs.ENOENT {
		t.Errorf("Deleted attach not correct got: %d expected: %d", errno, -defs.ENOENT)
	}
	if mm.FreePageCount() == 128 {
		t.Error("Pages released while still attached")
	}

	// The last detach reclaims pages and bookkeeping together.
	if r := ShmDt(other, as, vaddr); r != 0 {
		t.Errorf("Detach not correct got: %d expected: %d", r, 0)
	}
	if mm.FreePageCount() != 128 {
		t.Errorf("Pages not released got: %d expected: %d", mm.FreePageCount(), 128)
	}
	if len(Segments()) != 0 {
		t.Errorf("Segment count not correct got: %d expected: %d", len(Segments()), 0)
	}
}

// Error returns for bad arguments.
func TestErrors(t *testing.T) {
	setup()
	as := mm.NewAddressSpace()

	if _, errno := ShmAt(owner, as, -1, 0); errno != -defs.EINVAL {
		t.Errorf("Negative id not correct got: %d expected: %d", errno, -defs.EINVAL)
	}
	if _, errno := ShmAt(owner, as, 99, 0); errno != -defs.ENOENT {
		t.Errorf("Missing id not correct got: %d expected: %d", errno, -defs.ENOENT)
	}
	if r := ShmDt(owner, as, 0x50000000); r != -defs.ENOENT {
		t.Errorf("Unmapped detach not correct got: %d expected: %d", r, -defs.ENOENT)
	}
	if r := ShmCtl(owner, -1, IPCRmid, nil); r != -defs.EINVAL {
		t.Errorf("Negative id ctl not correct got: %d expected: %d", r, -defs.EINVAL)
	}
	if r := ShmCtl(owner, 99, IPCRmid, nil); r != -defs.ENOENT {
		t.Errorf("Missing id ctl not correct got: %d expected: %d", r, -defs.ENOENT)
	}
	id := ShmGet(owner, 7, 4096, IPCCreat|0o600)
	if r := ShmCtl(owner, id, 77, nil); r != -defs.EINVAL {
		t.Errorf("Bad command not correct got: %d expected: %d", r, -defs.EINVAL)
	}

	// Allocation failure surfaces as ENOENT and leaves no segment.
	if r := ShmGet(owner, 9, 2*1024*1024, IPCCreat|0o600); r != -defs.ENOENT {
		t.Errorf("Exhausted create not correct got: %d expected: %d", r, -defs.ENOENT)
	}
	if len(Segments()) != 1 {
		t.Errorf("Segment count not correct got: %d expected: %d", len(Segments()), 1)
	}
}

// Two attachments see the same pages.
func TestSharing(t *testing.T) {
	setup()
	as1 := mm.NewAddressSpace()
	as2 := mm.NewAddressSpace()
	id := ShmGet(owner, 5, 4096, IPCCreat|0o666)

	va1, _ := ShmAt(owner, as1, id, 0)
	va2, _ := ShmAt(other, as2, id, 0)

	as1.WriteBytes(va1+100, []byte("shared"))
	buf := make([]byte, 6)
	as2.ReadBytes(va2+100, buf)
	if string(buf) != "shared" {
		t.Errorf("Shared contents not correct got: %q expected: %q", buf, "shared")
	}
	if Segments()[0].Nattch != 2 {
		t.Errorf("Attach count not correct got: %d expected: %d", Segments()[0].Nattch, 2)
	}
}

// IPC_STAT copies the segment record out.
func TestStat(t *testing.T) {
	setup()
	id := ShmGet(owner, 11, 5000, IPCCreat|0o600)
	var info SegInfo
	if r := ShmCtl(owner, id, IPCStat, &info); r != 0 {
		t.Fatalf("Stat failed: %d", r)
	}
	if info.ID != id || info.Perm.Key != 11 || info.Segsz != 5000 {
		t.Errorf("Stat not correct got: %+v", info)
	}
	if info.Cpid != owner.Pid || info.Perm.CUID != owner.UID {
		t.Errorf("Creator not correct got: %+v", info)
	}
	if r := ShmCtl(other, id, IPCStat, &info); r != -defs.EACCES {
		t.Errorf("Stat permission not correct got: %d expected: %d", r, -defs.EACCES)
	}
	if r := ShmCtl(owner, id, IPCStat, nil); r != -defs.EINVAL {
		t.Errorf("Nil buffer not correct got: %d expected: %d", r, -defs.EINVAL)
	}
}

// The /proc formatter pages with offset and size.
func TestProcRead(t *testing.T) {
	setup()
	ShmGet(owner, 42, 4096, IPCCreat|0o600)

	buf := make([]byte, 4096)
	n := ProcRead(0, buf)
	text := string(buf[:n])
	if !strings.HasPrefix(text, procHeader) {
		t.Errorf("Header not correct got: %q", text)
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Line count not correct got: %d expected: %d", len(lines), 2)
	}
	fields := strings.Fields(lines[1])
	if len(fields) != 14 {
		t.Errorf("Field count not correct got: %d expected: %d", len(fields), 14)
	}
	if fields[0] != "42" || fields[1] != "1" || fields[2] != "600" || fields[3] != "4096" {
		t.Errorf("Fields not correct got: %v", fields[:4])
	}

	// Offset paging returns the matching slice.
	small := make([]byte, 8)
	n = ProcRead(4, small)
	if n != 8 || string(small) != text[4:12] {
		t.Errorf("Offset read not correct got: %q expected: %q", small[:n], text[4:12])
	}
	if n = ProcRead(int64(len(text)), buf); n != 0 {
		t.Errorf("End of file read not correct got: %d expected: %d", n, 0)
	}
	if n = ProcRead(-1, buf); n != 0 {
		t.Errorf("Negative offset read not correct got: %d expected: %d", n, 0)
	}
}
