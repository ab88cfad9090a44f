/*
 * MentOS - Lazy FPU context switching
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

/* Only one task at a time has its floating point state resident in
   the hardware. A context switch leaves the outgoing state in place
   and arms the device not available trap; the first floating point
   instruction of the incoming task pays for the owner switch. Tasks
   that never touch the FPU never get saved or restored. */

package fpu

import (
	"github.com/rcornwell/mentos/kernel/defs"
)

// SaveArea matches the 512 byte FXSAVE layout. The hardware requires
// 16 byte alignment; transfers go through the protocol's aligned
// scratch buffer so per task storage need not be aligned.
type SaveArea [512]byte

// Hardware abstracts the FPU instructions and the control bits that
// arm the device not available trap.
type Hardware interface {
	SetTrap()          // Set CR0.TS
	ClearTrap()        // Clear CR0.TS, enable SSE in CR0/CR4
	Save(*SaveArea)    // FXSAVE
	Restore(*SaveArea) // FXRSTOR
	Init()             // FNINIT
}

// State is the per task floating point context.
type State struct {
	Area        SaveArea
	initialized bool
}

// Initialized reports whether the task has ever used the FPU.
func (st *State) Initialized() bool {
	return st.initialized
}

// Protocol state, mutated with interrupts disabled.
var fpuState struct {
	hw       Hardware
	owner    *State
	ownerPid defs.Pid
	scratch  SaveArea
}

// Initialize installs the hardware and clears ownership.
func Initialize(hw Hardware) {
	fpuState.hw = hw
	fpuState.owner = nil
	fpuState.ownerPid = defs.NoPid
	hw.SetTrap()
}

// Owner returns the pid whose state is resident, or NoPid.
func Owner() defs.Pid {
	return fpuState.ownerPid
}

// Switched arms the trap for the incoming task. The outgoing task's
// state stays resident untouched.
func Switched() {
	fpuState.hw.SetTrap()
}

// HandleTrap services the device not available trap for the current
// task.
func HandleTrap(cur *State, pid defs.Pid) {
	hw := fpuState.hw
	hw.ClearTrap()

	// Spurious trap, state already resident.
	if fpuState.owner == cur {
		return
	}

	// Evict the previous owner through the aligned scratch area.
	if fpuState.owner != nil {
		hw.Save(&fpuState.scratch)
		fpuState.owner.Area = fpuState.scratch
		fpuState.owner = nil
		fpuState.ownerPid = defs.NoPid
	}

	if !cur.initialized {
		hw.Init()
		cur.initialized = true
		fpuState.owner = cur
		fpuState.ownerPid = pid
		return
	}

	fpuState.scratch = cur.Area
	hw.Restore(&fpuState.scratch)
	fpuState.owner = cur
	fpuState.ownerPid = pid
}

// TaskExit drops ownership held by a dying task. Its save area is
// freed with the task.
func TaskExit(st *State) {
	if fpuState.owner == st {
		fpuState.owner = nil
		fpuState.ownerPid = defs.NoPid
	}
}
