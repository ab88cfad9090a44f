/*
 * MentOS - Simulated x87/SSE unit
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

package x87

import (
	"github.com/rcornwell/mentos/kernel/fpu"
)

// Device models the machine's one floating point unit: a 512 byte
// register file in FXSAVE layout plus the CR0.TS trap bit.
type Device struct {
	regs     fpu.SaveArea
	ts       bool // CR0.TS, trap on next FP instruction
	sse      bool // SSE enabled in CR0/CR4
	saves    int
	restores int
	inits    int

	// Trap is raised when an instruction executes with TS set.
	Trap func()
}

// New returns a unit with the trap armed.
func New() *Device {
	return &Device{ts: true}
}

// SetTrap sets CR0.TS.
func (d *Device) SetTrap() {
	d.ts = true
}

// ClearTrap clears CR0.TS and enables SSE.
func (d *Device) ClearTrap() {
	d.ts = false
	d.sse = true
}

// Save copies the register file out, FXSAVE.
func (d *Device) Save(area *fpu.SaveArea) {
	*area = d.regs
	d.saves++
}

// Restore loads the register file, FXRSTOR.
func (d *Device) Restore(area *fpu.SaveArea) {
	d.regs = *area
	d.restores++
}

// Init resets the unit, FNINIT. The control word comes up as 0x037F.
func (d *Device) Init() {
	d.regs = fpu.SaveArea{}
	d.regs[0] = 0x7F
	d.regs[1] = 0x03
	d.inits++
}

// Execute runs one floating point instruction against the register
// file. With TS set the device not available trap fires first, then
// the instruction is retried.
func (d *Device) Execute(op func(regs *fpu.SaveArea)) {
	if d.ts {
		if d.Trap == nil {
			panic("x87: trap with no handler")
		}
		d.Trap()
		if d.ts {
			panic("x87: trap handler left TS set")
		}
	}
	op(&d.regs)
}

// Regs exposes the register file for assertions.
func (d *Device) Regs() *fpu.SaveArea {
	return &d.regs
}

// Stats returns the save, restore and init counts.
func (d *Device) Stats() (saves, restores, inits int) {
	return d.saves, d.restores, d.inits
}

// TrapArmed reports the CR0.TS state.
func (d *Device) TrapArmed() bool {
	return d.ts
}

// SSEEnabled reports whether SSE has been enabled.
func (d *Device) SSEEnabled() bool {
	return d.sse
}
