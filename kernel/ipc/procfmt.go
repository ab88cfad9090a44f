/*
 * MentOS - Shared memory /proc formatter
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
	"fmt"
	"strings"
)

const procHeader = "key id perms segsz uid gid cuid cgid atime dtime ctime cpid lpid nattch\n"

// formatTable renders the whole table, one header line then one line
// per live segment.
func formatTable() string {
	var sb strings.Builder
	sb.WriteString(procHeader)
	shm.lock.Lock()
	for _, seg := range shm.segments {
		if seg.deleted {
			continue
		}
		fmt.Fprintf(&sb, "%d %d %o %d %d %d %d %d %d %d %d %d %d %d\n",
			seg.perm.Key, seg.id, seg.perm.Mode, seg.segsz,
			seg.perm.UID, seg.perm.GID, seg.perm.CUID, seg.perm.CGID,
			seg.atime, seg.dtime, seg.ctime,
			seg.cpid, seg.lpid, seg.nattch)
	}
	shm.lock.Unlock()
	return sb.String()
}

// ProcRead copies the slice of the rendered table selected by the
// caller's offset and buffer size. Returns the byte count copied,
// zero at or past end of file.
func ProcRead(offset int64, buf []byte) int {
	text := formatTable()
	if offset < 0 || offset >= int64(len(text)) {
		return 0
	}
	return copy(buf, text[offset:])
}
