/*
 * MentOS - Task table and signals
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

/* The cooperative single processor scheduler collaborator. Tasks run
   until they trap or call into the kernel; the core only needs the
   current task, signal delivery, and orderly teardown. */

package proc

import (
	"sync"

	"github.com/rcornwell/mentos/kernel/defs"
	"github.com/rcornwell/mentos/kernel/fpu"
	"github.com/rcornwell/mentos/kernel/ipc"
	"github.com/rcornwell/mentos/kernel/mm"
	"github.com/rcornwell/mentos/kernel/trap"
	"github.com/rcornwell/mentos/kernel/tty"
)

// Attachment records one shared memory mapping held by a task.
type Attachment struct {
	Vaddr uint32
	ShmID int32
}

// Task is one process as the core sees it.
type Task struct {
	Pid  defs.Pid
	UID  uint32
	GID  uint32
	Name string

	AS  *mm.AddressSpace
	FPU fpu.State

	term        *tty.Discipline
	attachments []Attachment
	pending     []int // Signals delivered and not yet consumed
	stopped     bool
}

var sched struct {
	lock    sync.Mutex
	tasks   map[defs.Pid]*Task
	current *Task
	nextPid defs.Pid
}

// Initialize clears the task table.
func Initialize() {
	sched.lock.Lock()
	sched.tasks = make(map[defs.Pid]*Task)
	sched.current = nil
	sched.nextPid = 1
	sched.lock.Unlock()
}

// New creates a task with a fresh address space.
func New(name string, uid, gid uint32) *Task {
	sched.lock.Lock()
	t := &Task{
		Pid:  sched.nextPid,
		UID:  uid,
		GID:  gid,
		Name: name,
		AS:   mm.NewAddressSpace(),
	}
	sched.nextPid++
	sched.tasks[t.Pid] = t
	sched.lock.Unlock()
	return t
}

// SetTTY binds the task's terminal discipline.
func (t *Task) SetTTY(ld *tty.Discipline) {
	t.term = ld
}

// TTY returns the task's terminal discipline, nil if none.
func (t *Task) TTY() *tty.Discipline {
	return t.term
}

// Cred returns the task's IPC credentials.
func (t *Task) Cred() ipc.Cred {
	return ipc.Cred{Pid: t.Pid, UID: t.UID, GID: t.GID}
}

// Current returns the running task.
func Current() *Task {
	sched.lock.Lock()
	defer sched.lock.Unlock()
	return sched.current
}

// SetCurrent switches the running task. The FPU trap is armed so the
// incoming task faults on its first floating point instruction.
func SetCurrent(t *Task) {
	sched.lock.Lock()
	prev := sched.current
	sched.current = t
	sched.lock.Unlock()
	if prev != t {
		fpu.Switched()
	}
}

// Lookup finds a task by pid.
func Lookup(pid defs.Pid) *Task {
	sched.lock.Lock()
	defer sched.lock.Unlock()
	return sched.tasks[pid]
}

// Deliver posts a signal to a task. SIGSTOP also marks the task
// stopped.
func Deliver(t *Task, sig int) {
	sched.lock.Lock()
	t.pending = append(t.pending, sig)
	if sig == defs.SIGSTOP {
		t.stopped = true
	}
	sched.lock.Unlock()
}

// TakeSignals drains and returns the task's pending signals.
func (t *Task) TakeSignals() []int {
	sched.lock.Lock()
	defer sched.lock.Unlock()
	out := t.pending
	t.pending = nil
	return out
}

// Stopped reports whether the task got a SIGSTOP.
func (t *Task) Stopped() bool {
	sched.lock.Lock()
	defer sched.lock.Unlock()
	return t.stopped
}

// Shmat attaches a segment and records the mapping for teardown.
func (t *Task) Shmat(id int32, flags int) (uint32, int) {
	vaddr, errno := ipc.ShmAt(t.Cred(), t.AS, id, flags)
	if errno != 0 {
		return 0, errno
	}
	t.attachments = append(t.attachments, Attachment{Vaddr: vaddr, ShmID: id})
	return vaddr, 0
}

// Shmdt detaches the mapping at vaddr and forgets it.
func (t *Task) Shmdt(vaddr uint32) int {
	r := ipc.ShmDt(t.Cred(), t.AS, vaddr)
	if r != 0 {
		return r
	}
	for i, a := range t.attachments {
		if a.Vaddr == vaddr {
			t.attachments = append(t.attachments[:i], t.attachments[i+1:]...)
			break
		}
	}
	return 0
}

// Attachments returns the task's live shm mappings.
func (t *Task) Attachments() []Attachment {
	return t.attachments
}

// Exit tears a task down: every shm attachment is detached, FPU
// ownership dropped, the address space freed, and the task removed
// from the table.
func Exit(t *Task) {
	for len(t.attachments) > 0 {
		t.Shmdt(t.attachments[0].Vaddr)
	}
	fpu.TaskExit(&t.FPU)
	t.AS.Free()

	sched.lock.Lock()
	delete(sched.tasks, t.Pid)
	if sched.current == t {
		sched.current = nil
	}
	sched.lock.Unlock()
}

// Tasks returns every live task, for inspection.
func Tasks() []*Task {
	sched.lock.Lock()
	defer sched.lock.Unlock()
	out := make([]*Task, 0, len(sched.tasks))
	for _, t := range sched.tasks {
		out = append(out, t)
	}
	return out
}

// InstallTraps wires the arithmetic traps and the device not
// available trap to the current task.
func InstallTraps() {
	fpe := func() {
		if cur := Current(); cur != nil {
			Deliver(cur, defs.SIGFPE)
		}
	}
	trap.Register(defs.TrapDivide, fpe)
	trap.Register(defs.TrapOverfl, fpe)
	trap.Register(defs.TrapFloat, fpe)
	trap.Register(defs.TrapNoDev, func() {
		if cur := Current(); cur != nil {
			fpu.HandleTrap(&cur.FPU, cur.Pid)
		}
	})
}
