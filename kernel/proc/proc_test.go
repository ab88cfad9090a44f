/*
 * MentOS - Task and scheduler collaborator tests
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

package proc

import (
	"testing"

	"github.com/rcornwell/mentos/emu/x87"
	"github.com/rcornwell/mentos/kernel/defs"
	"github.com/rcornwell/mentos/kernel/fpu"
	"github.com/rcornwell/mentos/kernel/ipc"
	"github.com/rcornwell/mentos/kernel/mm"
	"github.com/rcornwell/mentos/kernel/trap"
)

func setup() *x87.Device {
	mm.InitializeArena(128)
	ipc.Initialize()
	Initialize()
	trap.Reset()
	dev := x87.New()
	dev.Trap = func() { trap.Raise(defs.TrapNoDev) }
	fpu.Initialize(dev)
	InstallTraps()
	return dev
}

func TestTaskTable(t *testing.T) {
	setup()
	a := New("one", 100, 100)
	b := New("two", 101, 101)
	if a.Pid == b.Pid {
		t.Errorf("Pids not unique got: %d and %d", a.Pid, b.Pid)
	}
	if Lookup(a.Pid) != a || Lookup(b.Pid) != b {
		t.Error("Lookup failed")
	}
	if Lookup(99) != nil {
		t.Error("Lookup of missing pid should be nil")
	}
	SetCurrent(a)
	if Current() != a {
		t.Error("Current not correct")
	}
	if len(Tasks()) != 2 {
		t.Errorf("Task count not correct got: %d expected: %d", len(Tasks()), 2)
	}
}

func TestSignals(t *testing.T) {
	setup()
	a := New("one", 100, 100)
	Deliver(a, defs.SIGTERM)
	Deliver(a, defs.SIGSTOP)
	if !a.Stopped() {
		t.Error("Task should be stopped after SIGSTOP")
	}
	sigs := a.TakeSignals()
	if len(sigs) != 2 || sigs[0] != defs.SIGTERM || sigs[1] != defs.SIGSTOP {
		t.Errorf("Signals not correct got: %v expected: [15 19]", sigs)
	}
	if len(a.TakeSignals()) != 0 {
		t.Error("Signals should drain")
	}
}

// Arithmetic traps deliver SIGFPE to the current task.
func TestArithmeticTraps(t *testing.T) {
	setup()
	a := New("one", 100, 100)
	SetCurrent(a)
	trap.Raise(defs.TrapDivide)
	trap.Raise(defs.TrapFloat)
	sigs := a.TakeSignals()
	if len(sigs) != 2 || sigs[0] != defs.SIGFPE || sigs[1] != defs.SIGFPE {
		t.Errorf("Signals not correct got: %v expected: [8 8]", sigs)
	}
}

// Only tasks that execute floating point instructions pay for the
// owner switch.
func TestLazyFpuSwitch(t *testing.T) {
	dev := setup()
	a := New("integer", 100, 100)
	b := New("float", 100, 100)

	// Task A runs and never touches the FPU.
	SetCurrent(a)

	// Task B runs a floating point instruction.
	SetCurrent(b)
	dev.Execute(func(regs *fpu.SaveArea) { regs[8] = 0x42 })
	if fpu.Owner() != b.Pid {
		t.Errorf("Owner not correct got: %d expected: %d", fpu.Owner(), b.Pid)
	}
	saves, restores, inits := dev.Stats()
	if saves != 0 || restores != 0 || inits != 1 {
		t.Errorf("Transfer counts not correct got: %d %d %d expected: 0 0 1",
			saves, restores, inits)
	}
	for i, v := range a.FPU.Area {
		if v != 0 {
			t.Fatalf("Task A save area byte %d not zero: %02x", i, v)
		}
	}

	// Back to A, still integer only: no transfers happen.
	SetCurrent(a)
	SetCurrent(b)
	dev.Execute(func(regs *fpu.SaveArea) { regs[9] = 0x43 })
	saves, restores, _ = dev.Stats()
	if saves != 0 || restores != 0 {
		t.Errorf("Transfer counts not correct got: %d %d expected: 0 0", saves, restores)
	}
}

// Exit detaches shared memory, drops FPU ownership and releases the
// task.
func TestExit(t *testing.T) {
	dev := setup()
	a := New("one", 100, 100)
	SetCurrent(a)

	id := ipc.ShmGet(a.Cred(), 42, 4096, ipc.IPCCreat|0o600)
	if id < 0 {
		t.Fatalf("ShmGet failed: %d", id)
	}
	if _, errno := a.Shmat(id, 0); errno != 0 {
		t.Fatalf("Shmat failed: %d", errno)
	}
	if len(a.Attachments()) != 1 {
		t.Fatalf("Attachment count not correct got: %d expected: %d", len(a.Attachments()), 1)
	}

	// Mark the segment for removal while attached and make the
	// task the FPU owner.
	if r := ipc.ShmCtl(a.Cred(), id, ipc.IPCRmid, nil); r != 0 {
		t.Fatalf("ShmCtl failed: %d", r)
	}
	dev.Execute(func(regs *fpu.SaveArea) { regs[0] = 1 })
	if fpu.Owner() != a.Pid {
		t.Fatalf("Owner not correct got: %d expected: %d", fpu.Owner(), a.Pid)
	}

	Exit(a)

	if mm.FreePageCount() != 128 {
		t.Errorf("Pages not released got: %d expected: %d", mm.FreePageCount(), 128)
	}
	if len(ipc.Segments()) != 0 {
		t.Errorf("Segment count not correct got: %d expected: %d", len(ipc.Segments()), 0)
	}
	if fpu.Owner() != defs.NoPid {
		t.Errorf("FPU owner not cleared got: %d", fpu.Owner())
	}
	if Current() != nil {
		t.Error("Current task not cleared")
	}
	if Lookup(a.Pid) != nil {
		t.Error("Task still in table")
	}
}

// Detach forgets the bookkeeping triple.
func TestShmdtBookkeeping(t *testing.T) {
	setup()
	a := New("one", 100, 100)
	id := ipc.ShmGet(a.Cred(), 5, 4096, ipc.IPCCreat|0o600)
	vaddr, _ := a.Shmat(id, 0)
	if r := a.Shmdt(vaddr); r != 0 {
		t.Fatalf("Shmdt failed: %d", r)
	}
	if len(a.Attachments()) != 0 {
		t.Errorf("Attachment count not correct got: %d expected: %d", len(a.Attachments()), 0)
	}
	if r := a.Shmdt(vaddr); r != -defs.ENOENT {
		t.Errorf("Double detach not correct got: %d expected: %d", r, -defs.ENOENT)
	}
}
