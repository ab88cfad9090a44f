/*
 * MentOS - Kernel /proc entries
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

package procfs

import (
	"github.com/rcornwell/mentos/kernel/defs"
	"github.com/rcornwell/mentos/kernel/ipc"
	"github.com/rcornwell/mentos/kernel/proc"
	"github.com/rcornwell/mentos/kernel/tty"
)

// Paths served for the core.
const (
	VideoPath = "/proc/video"
	ShmPath   = "/proc/ipc/shm"
)

// MountKernelFiles registers the video terminal and the shared
// memory table.
func MountKernelFiles() {
	Register(VideoPath, Ops{
		Read: func(_ int64, buf []byte) int {
			ld := currentTTY()
			if ld == nil {
				return -defs.ENOENT
			}
			return ld.Read(buf)
		},
		Write: func(buf []byte) int {
			ld := currentTTY()
			if ld == nil {
				return -defs.ENOENT
			}
			return ld.Write(buf)
		},
		Ioctl: func(cmd uint32, arg any) int {
			ld := currentTTY()
			if ld == nil {
				return -defs.ENOENT
			}
			flags, ok := arg.(*tty.Flags)
			if !ok {
				return -defs.EINVAL
			}
			return ld.Ioctl(cmd, flags)
		},
	})

	Register(ShmPath, Ops{
		Read: func(offset int64, buf []byte) int {
			return ipc.ProcRead(offset, buf)
		},
	})
}

func currentTTY() *tty.Discipline {
	t := proc.Current()
	if t == nil {
		return nil
	}
	return t.TTY()
}
