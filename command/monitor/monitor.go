/*
 * MentOS - Operator monitor
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

package monitor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rcornwell/mentos/emu/i8042"
	"github.com/rcornwell/mentos/kernel/defs"
	"github.com/rcornwell/mentos/kernel/keyboard"
	"github.com/rcornwell/mentos/kernel/keymap"
	"github.com/rcornwell/mentos/kernel/proc"
	"github.com/rcornwell/mentos/kernel/procfs"
)

// Context carries the handles the monitor commands act on.
type Context struct {
	Kbd *i8042.Controller
}

type cmdDef struct {
	name string
	help string
	fn   func(ctx *Context, args []string) (bool, error)
}

var commands []cmdDef

func init() {
	commands = []cmdDef{
		{"help", "List commands", cmdHelp},
		{"show", "Show shm, tasks, mods, leds or layout", cmdShow},
		{"type", "Type text on the simulated keyboard", cmdType},
		{"key", "Press a named key (enter, up, f1, ...)", cmdKey},
		{"layout", "Switch keyboard layout, us or it", cmdLayout},
		{"signal", "Deliver a signal: signal <pid> <num>", cmdSignal},
		{"read", "Read cooked bytes from the current task's terminal", cmdRead},
		{"quit", "Leave the monitor", cmdQuit},
		{"exit", "Leave the monitor", cmdQuit},
	}
}

// ProcessCommand runs one monitor line. The boolean asks the caller
// to quit.
func ProcessCommand(line string, ctx *Context) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name := strings.ToLower(fields[0])
	for i := range commands {
		if commands[i].name == name {
			return commands[i].fn(ctx, fields[1:])
		}
	}
	return false, errors.New("unknown command: " + name)
}

// CompleteCmd returns the commands matching a prefix.
func CompleteCmd(line string) []string {
	var out []string
	for i := range commands {
		if strings.HasPrefix(commands[i].name, strings.ToLower(line)) {
			out = append(out, commands[i].name)
		}
	}
	return out
}

func cmdHelp(_ *Context, _ []string) (bool, error) {
	for i := range commands {
		fmt.Printf("%-8s %s\n", commands[i].name, commands[i].help)
	}
	return false, nil
}

func cmdQuit(_ *Context, _ []string) (bool, error) {
	return true, nil
}

func cmdShow(_ *Context, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("show what?")
	}
	switch strings.ToLower(args[0]) {
	case "shm":
		buf := make([]byte, 4096)
		off := int64(0)
		for {
			n := procfs.Read(procfs.ShmPath, off, buf)
			if n <= 0 {
				break
			}
			fmt.Print(string(buf[:n]))
			off += int64(n)
		}
	case "tasks":
		for _, t := range proc.Tasks() {
			state := "run"
			if t.Stopped() {
				state = "stop"
			}
			fmt.Printf("%3d %-4s uid=%d gid=%d shm=%d %s\n",
				t.Pid, state, t.UID, t.GID, len(t.Attachments()), t.Name)
		}
	case "mods":
		fmt.Printf("modifiers: %09b\n", keyboard.Modifiers())
	case "leds":
		fmt.Printf("leds: %03b\n", keyboard.Leds())
	case "layout":
		fmt.Println("layout:", keyboard.Layout().Name())
	default:
		return false, errors.New("show shm, tasks, mods, leds or layout")
	}
	return false, nil
}

func cmdType(ctx *Context, args []string) (bool, error) {
	if len(args) == 0 {
		return false, errors.New("nothing to type")
	}
	ctx.Kbd.TypeString(keyboard.Layout(), strings.Join(args, " "))
	return false, nil
}

// Named keys for the key command.
var namedKeys = map[string]uint16{
	"enter":     keymap.ScanEnter,
	"tab":       keymap.ScanTab,
	"backspace": keymap.ScanBackspace,
	"space":     keymap.ScanSpace,
	"escape":    keymap.ScanEscape,
	"up":        keymap.ScanUp,
	"down":      keymap.ScanDown,
	"left":      keymap.ScanLeft,
	"right":     keymap.ScanRight,
	"home":      keymap.ScanHome,
	"end":       keymap.ScanEnd,
	"pgup":      keymap.ScanPageUp,
	"pgdn":      keymap.ScanPageDown,
	"insert":    keymap.ScanInsert,
	"delete":    keymap.ScanDelete,
	"capslock":  keymap.ScanCapsLock,
	"numlock":   keymap.ScanNumLock,
}

func cmdKey(ctx *Context, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("key <name>")
	}
	name := strings.ToLower(args[0])
	if scan, ok := namedKeys[name]; ok {
		ctx.Kbd.Tap(scan)
		return false, nil
	}
	if len(name) >= 2 && name[0] == 'f' {
		n, err := strconv.Atoi(name[1:])
		if err == nil && n >= 1 && n <= 12 {
			if n <= 10 {
				ctx.Kbd.Tap(keymap.ScanF1 + uint16(n-1))
			} else {
				ctx.Kbd.Tap(keymap.ScanF11 + uint16(n-11))
			}
			return false, nil
		}
	}
	return false, errors.New("unknown key: " + args[0])
}

func cmdLayout(_ *Context, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("layout us or it")
	}
	layout, ok := keymap.ParseLayout(args[0])
	if !ok {
		return false, errors.New("unknown layout: " + args[0])
	}
	keyboard.SetLayout(layout)
	return false, nil
}

func cmdSignal(_ *Context, args []string) (bool, error) {
	if len(args) != 2 {
		return false, errors.New("signal <pid> <num>")
	}
	pid, err := strconv.Atoi(args[0])
	if err != nil {
		return false, errors.New("bad pid: " + args[0])
	}
	sig, err := strconv.Atoi(args[1])
	if err != nil {
		return false, errors.New("bad signal: " + args[1])
	}
	t := proc.Lookup(defs.Pid(pid))
	if t == nil {
		return false, errors.New("no such task: " + args[0])
	}
	proc.Deliver(t, sig)
	return false, nil
}

func cmdRead(_ *Context, args []string) (bool, error) {
	count := 16
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return false, errors.New("bad count: " + args[0])
		}
		count = n
	}
	buf := make([]byte, 1)
	got := 0
	for tries := 0; got < count && tries < count*8; tries++ {
		r := procfs.Read(procfs.VideoPath, 0, buf)
		if r == -defs.ENOENT {
			return false, errors.New("no current task terminal")
		}
		if r == 1 {
			fmt.Printf("%02x ", buf[0])
			got++
		}
		if r == 0 && keyboardDrained() {
			break
		}
	}
	if got > 0 {
		fmt.Println()
	}
	return false, nil
}

func keyboardDrained() bool {
	t := proc.Current()
	return keyboard.Buffer().Empty() && (t == nil || t.TTY() == nil || t.TTY().Pending() == 0)
}
