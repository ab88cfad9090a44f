/*
 * MentOS - /proc file registry
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
	"sync"

	"github.com/rcornwell/mentos/kernel/defs"
)

// Ops are the file operations a registered /proc entry supports.
// Unset operations report no such entry.
type Ops struct {
	Read  func(offset int64, buf []byte) int
	Write func(buf []byte) int
	Ioctl func(cmd uint32, arg any) int
}

var registry struct {
	lock  sync.Mutex
	files map[string]Ops
}

// Initialize empties the registry.
func Initialize() {
	registry.lock.Lock()
	registry.files = make(map[string]Ops)
	registry.lock.Unlock()
}

// Register installs the operations for a path.
func Register(path string, ops Ops) {
	registry.lock.Lock()
	registry.files[path] = ops
	registry.lock.Unlock()
}

func find(path string) (Ops, bool) {
	registry.lock.Lock()
	defer registry.lock.Unlock()
	ops, ok := registry.files[path]
	return ops, ok
}

// Read calls the path's read operation.
func Read(path string, offset int64, buf []byte) int {
	ops, ok := find(path)
	if !ok || ops.Read == nil {
		return -defs.ENOENT
	}
	return ops.Read(offset, buf)
}

// Write calls the path's write operation.
func Write(path string, buf []byte) int {
	ops, ok := find(path)
	if !ok || ops.Write == nil {
		return -defs.ENOENT
	}
	return ops.Write(buf)
}

// Ioctl calls the path's ioctl operation.
func Ioctl(path string, cmd uint32, arg any) int {
	ops, ok := find(path)
	if !ok || ops.Ioctl == nil {
		return -defs.ENOENT
	}
	return ops.Ioctl(cmd, arg)
}
