/*
 * MentOS - Kernel core simulator
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

package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/mentos/command/monitor"
	"github.com/rcornwell/mentos/command/reader"
	config "github.com/rcornwell/mentos/config/configparser"
	"github.com/rcornwell/mentos/emu/i8042"
	"github.com/rcornwell/mentos/emu/x87"
	"github.com/rcornwell/mentos/kernel/defs"
	"github.com/rcornwell/mentos/kernel/fpu"
	"github.com/rcornwell/mentos/kernel/ipc"
	"github.com/rcornwell/mentos/kernel/keyboard"
	"github.com/rcornwell/mentos/kernel/keymap"
	"github.com/rcornwell/mentos/kernel/mm"
	"github.com/rcornwell/mentos/kernel/proc"
	"github.com/rcornwell/mentos/kernel/procfs"
	"github.com/rcornwell/mentos/kernel/trap"
	"github.com/rcornwell/mentos/kernel/tty"
	"github.com/rcornwell/mentos/telnet"
	logger "github.com/rcornwell/mentos/util/logger"

	_ "github.com/rcornwell/mentos/util/debug"
)

var Logger *slog.Logger

// Boot settings, overridable from the configuration file.
var settings = struct {
	layout   keymap.Layout
	memory   uint32 // Arena size in bytes
	ttyFlags tty.Flags
	port     string
}{
	layout:   keymap.US,
	memory:   16 * 1024 * 1024,
	ttyFlags: tty.ICANON | tty.ECHO | tty.ECHOE | tty.ISIG,
	port:     "2323",
}

// registerComponents hooks the boot settings into the configuration
// parser.
func registerComponents() {
	config.RegisterComponent("KEYBOARD", func(options []config.Option) error {
		if v, ok := config.Find(options, "LAYOUT"); ok {
			layout, valid := keymap.ParseLayout(v)
			if !valid {
				return errors.New("unknown layout: " + v)
			}
			settings.layout = layout
		}
		return nil
	})
	config.RegisterComponent("MEMORY", func(options []config.Option) error {
		if len(options) != 1 {
			return errors.New("MEMORY takes one size")
		}
		size, err := config.ParseSize(options[0].Name)
		if err != nil {
			return err
		}
		settings.memory = size
		return nil
	})
	config.RegisterComponent("TTY", func(options []config.Option) error {
		var flags tty.Flags
		for _, o := range options {
			switch strings.ToUpper(o.Name) {
			case "ICANON":
				flags |= tty.ICANON
			case "ECHO":
				flags |= tty.ECHO
			case "ECHOE":
				flags |= tty.ECHOE
			case "ISIG":
				flags |= tty.ISIG
			case "RAW":
				flags = 0
			default:
				return errors.New("unknown tty flag: " + o.Name)
			}
		}
		settings.ttyFlags = flags
		return nil
	})
	config.RegisterComponent("CONSOLE", func(options []config.Option) error {
		if v, ok := config.Find(options, "PORT"); ok {
			settings.port = v
		}
		return nil
	})
}

func main() {
	optConfig := getopt.StringLong("config", 'c', "mentos.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optPort := getopt.StringLong("port", 'p', "", "Console port")
	optDebug := getopt.BoolLong("debug", 'd', "Mirror all log output to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, *optDebug))
	slog.SetDefault(Logger)

	Logger.Info("MentOS core started")

	registerComponents()
	if _, err := os.Stat(*optConfig); err == nil {
		if err := config.LoadConfigFile(*optConfig); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}
	if *optPort != "" {
		settings.port = *optPort
	}

	// Bring the simulated machine up.
	mm.InitializeArena(settings.memory >> defs.PageShift)
	trap.Reset()
	pic := trap.NewPic()
	ipc.Initialize()
	proc.Initialize()
	procfs.Initialize()

	controller := i8042.New()
	controller.Interrupt = func() { trap.Raise(defs.IRQKeyboard) }
	keyboard.Initialize(controller, pic, settings.layout)
	trap.Register(defs.IRQKeyboard, keyboard.HandleInterrupt)

	fpuDev := x87.New()
	fpuDev.Trap = func() { trap.Raise(defs.TrapNoDev) }
	fpu.Initialize(fpuDev)

	display := tty.NewDisplay()
	display.Attach(os.Stdout)

	// First user task owning the console.
	task := proc.New("init", 0, 0)
	ld := tty.New(keyboard.Buffer(), settings.ttyFlags, display,
		func(sig int) { proc.Deliver(task, sig) })
	task.SetTTY(ld)
	proc.SetCurrent(task)
	proc.InstallTraps()

	procfs.MountKernelFiles()

	if err := telnet.Start(settings.port, controller, display); err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	// Run the monitor until it quits.
	done := make(chan struct{})
	go func() {
		reader.ConsoleReader(&monitor.Context{Kbd: controller})
		close(done)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		Logger.Info("Got quit signal")
	case <-done:
	}

	Logger.Info("Shutting down server...")
	telnet.Stop()
	Logger.Info("Servers stopped.")
}
