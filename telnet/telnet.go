/*
 * MentOS - Telnet option negotiation
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

package telnet

import (
	"net"
)

// Telnet protocol bytes.
const (
	tnSE   byte = 240 // Subnegotiation end
	tnSB   byte = 250 // Subnegotiation begin
	tnWILL byte = 251
	tnWONT byte = 252
	tnDO   byte = 253
	tnDONT byte = 254
	tnIAC  byte = 255 // Protocol delim

	tnOptionBinary byte = 0
	tnOptionEcho   byte = 1
	tnOptionSGA    byte = 3
)

// Input scanner states.
const (
	tnStateData = 1 + iota // Normal data
	tnStateIAC             // IAC seen
	tnStateOpt             // WILL/WONT/DO/DONT seen
	tnStateSB              // Subnegotiation
	tnStateSBIAC           // IAC inside subnegotiation
)

type tnState struct {
	conn  net.Conn
	state int
}

func newState(conn net.Conn) *tnState {
	return &tnState{conn: conn, state: tnStateData}
}

// sendGreeting asks the client for character mode with local echo
// off; the line discipline does the echoing.
func (state *tnState) sendGreeting() {
	_, _ = state.conn.Write([]byte{
		tnIAC, tnWILL, tnOptionEcho,
		tnIAC, tnWILL, tnOptionSGA,
		tnIAC, tnDO, tnOptionBinary,
	})
}

// process scans one byte, returning the input character when the
// byte is terminal data rather than protocol.
func (state *tnState) process(input byte) (byte, bool) {
	switch state.state {
	case tnStateData:
		if input == tnIAC {
			state.state = tnStateIAC
			return 0, false
		}
		// Telnet end of line pads newline with NUL.
		if input == 0 {
			return 0, false
		}
		return input, true

	case tnStateIAC:
		switch input {
		case tnIAC:
			state.state = tnStateData
			return input, true
		case tnWILL, tnWONT, tnDO, tnDONT:
			state.state = tnStateOpt
		case tnSB:
			state.state = tnStateSB
		default:
			state.state = tnStateData
		}

	case tnStateOpt:
		state.state = tnStateData

	case tnStateSB:
		if input == tnIAC {
			state.state = tnStateSBIAC
		}

	case tnStateSBIAC:
		if input == tnSE {
			state.state = tnStateData
		} else {
			state.state = tnStateSB
		}
	}
	return 0, false
}
