/*
 * MentOS - Boot configuration parser
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

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <component> *(<whitespace> <option>)
 * <component> ::= <string>
 * <option> ::= <string> | <string> '=' <value>
 * <value> ::= <string> | <number><K|M>
 *
 * Components register a create function from init() or boot code;
 * the matching function runs once per configuration line.
 */

package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Option is one name or name=value setting on a component line.
type Option struct {
	Name  string
	Value string
}

// Find returns the named option's value and whether it was given.
func Find(options []Option, name string) (string, bool) {
	name = strings.ToUpper(name)
	for _, o := range options {
		if strings.ToUpper(o.Name) == name {
			return o.Value, true
		}
	}
	return "", false
}

type componentDef struct {
	create func(options []Option) error
	isFile bool // Single file name argument, taken verbatim
}

var components = map[string]componentDef{}

var lineNumber int

// RegisterComponent installs the handler for a component keyword.
func RegisterComponent(name string, fn func(options []Option) error) {
	components[strings.ToUpper(name)] = componentDef{create: fn}
}

// RegisterFile installs a handler whose single argument is a file
// name, kept verbatim rather than split into options.
func RegisterFile(name string, fn func(fileName string) error) {
	components[strings.ToUpper(name)] = componentDef{
		create: func(options []Option) error {
			if len(options) != 1 || options[0].Value != "" {
				return errors.New("expected one file name")
			}
			return fn(options[0].Name)
		},
		isFile: true,
	}
}

// Clear forgets every registered component.
func Clear() {
	components = map[string]componentDef{}
}

// LoadConfigFile parses a configuration file, running each line's
// component handler.
func LoadConfigFile(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	lineNumber = 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNumber++
		if err := processLine(scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}
	return scanner.Err()
}

// ProcessLine handles a single configuration line.
func ProcessLine(line string) error {
	return processLine(line)
}

func processLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	name := strings.ToUpper(fields[0])
	comp, ok := components[name]
	if !ok {
		return errors.New("unknown component: " + fields[0])
	}

	if comp.isFile {
		if len(fields) != 2 {
			return errors.New(name + " takes one file name")
		}
		return comp.create([]Option{{Name: fields[1]}})
	}

	options := make([]Option, 0, len(fields)-1)
	for _, f := range fields[1:] {
		if n, v, found := strings.Cut(f, "="); found {
			options = append(options, Option{Name: n, Value: v})
		} else {
			options = append(options, Option{Name: f})
		}
	}
	return comp.create(options)
}

// ParseSize converts a size string with an optional K or M suffix to
// bytes.
func ParseSize(value string) (uint32, error) {
	if value == "" {
		return 0, errors.New("empty size")
	}
	mult := uint32(1)
	switch value[len(value)-1] {
	case 'k', 'K':
		mult = 1024
		value = value[:len(value)-1]
	case 'm', 'M':
		mult = 1024 * 1024
		value = value[:len(value)-1]
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad size %q", value)
	}
	return uint32(n) * mult, nil
}
