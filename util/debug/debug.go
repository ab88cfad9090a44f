/*
 * MentOS - Subsystem debug tracing
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

package debug

import (
	"errors"
	"fmt"
	"os"
	"strings"

	config "github.com/rcornwell/mentos/config/configparser"
)

var logFile *os.File

// Per subsystem option setters, registered at init time. The setter
// returns false for an unknown option name.
var modules = map[string]func(opt string) bool{}

// Generic debug message.
func Debugf(module string, mask int, level int, format string, a ...interface{}) {
	if logFile != nil && (mask&level) != 0 {
		fmt.Fprintf(logFile, module+": "+format+"\n", a...)
	}
}

// RegisterModule makes a subsystem's debug options settable from the
// configuration file.
func RegisterModule(name string, set func(opt string) bool) {
	modules[strings.ToUpper(name)] = set
}

// register configuration keywords on initialize.
func init() {
	config.RegisterFile("DEBUGFILE", create)
	config.RegisterComponent("LOG", setOptions)
}

// Create the debug output file.
func create(fileName string) error {
	if logFile != nil {
		return fmt.Errorf("can't have more than one debug file, previous: %s", logFile.Name())
	}

	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("unable to create debug file: %s", fileName)
	}

	logFile = file
	return nil
}

// Handle a LOG <module> <option>... line.
func setOptions(options []config.Option) error {
	if len(options) < 2 {
		return errors.New("LOG needs a module and at least one option")
	}
	set, ok := modules[strings.ToUpper(options[0].Name)]
	if !ok {
		return errors.New("no debug options for module: " + options[0].Name)
	}
	for _, opt := range options[1:] {
		if !set(strings.ToUpper(opt.Name)) {
			return errors.New(options[0].Name + " debug option invalid: " + opt.Name)
		}
	}
	return nil
}
