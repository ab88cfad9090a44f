/*
 * MentOS - Shared kernel definitions
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

package defs

// Error numbers returned by kernel operations. Syscall style entry
// points return them negated.
const (
	EPERM  = 1  // Operation not permitted
	ENOENT = 2  // No such file, segment or mapping
	EINTR  = 4  // Interrupted call
	ENOMEM = 12 // Out of memory
	EACCES = 13 // Permission denied
	EEXIST = 17 // Object already exists
	EINVAL = 22 // Invalid argument
)

// Signal numbers delivered by the core.
const (
	SIGFPE  = 8  // Floating point exception
	SIGTERM = 15 // Termination request
	SIGSTOP = 19 // Stop process
)

// Page geometry of the simulated machine.
const (
	PageShift = 12
	PageSize  = 1 << PageShift
)

// Pid identifies a task over its lifetime.
type Pid int32

// NoPid marks the absence of a task.
const NoPid Pid = -1

// Trap vectors handled by the core.
const (
	TrapDivide  = 0  // #DE divide error
	TrapOverfl  = 4  // #OF overflow
	TrapNoDev   = 7  // #NM device not available
	TrapFloat   = 16 // #MF x87 floating point error
	IRQKeyboard = 33 // Keyboard interrupt vector (IRQ 1)
)

// PagesFor returns the number of pages needed to back size bytes.
func PagesFor(size uint32) uint32 {
	return (size + PageSize - 1) >> PageShift
}

// OrderFor returns the smallest buddy order whose block covers size
// bytes.
func OrderFor(size uint32) uint {
	pages := PagesFor(size)
	order := uint(0)
	for (uint32(1) << order) < pages {
		order++
	}
	return order
}
