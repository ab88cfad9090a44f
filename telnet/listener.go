/*
 * MentOS - Telnet console server
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

/* Remote consoles connect here. Keystrokes from a connection are
   encoded to scancodes and injected through the keyboard controller
   model; everything the kernel writes to the video display is
   mirrored back to every connection. */

package telnet

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/rcornwell/mentos/emu/i8042"
	"github.com/rcornwell/mentos/kernel/keyboard"
	"github.com/rcornwell/mentos/kernel/tty"
)

type Server struct {
	wg         sync.WaitGroup
	listener   net.Listener
	shutdown   chan struct{}
	connection chan net.Conn
	port       string
	kbd        *i8042.Controller
	display    *tty.Display
}

var server *Server

// Start the console server on a port.
func Start(port string, kbd *i8042.Controller, display *tty.Display) error {
	s, err := newServer(port, kbd, display)
	if err != nil {
		return err
	}
	server = s

	host, lport, err := net.SplitHostPort(s.listener.Addr().String())
	if err != nil {
		panic(err)
	}
	if host == "::" {
		host = "localhost"
	}
	slog.Info("Console server started on " + host + ":" + lport)

	s.wg.Add(2)
	go s.acceptConnections()
	go s.handleConnections()
	return nil
}

// Stop the running server.
func Stop() {
	s := server
	if s == nil {
		return
	}
	_, portNum, err := net.SplitHostPort(s.listener.Addr().String())
	if err != nil {
		panic(err)
	}

	slog.Info("Shutdown port: " + portNum)

	close(s.shutdown)
	s.listener.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for connections to finish on port: " + portNum)
	}
	server = nil
}

// Open new listener.
func newServer(port string, kbd *i8042.Controller, display *tty.Display) (*Server, error) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	return &Server{
		listener:   listener,
		shutdown:   make(chan struct{}),
		connection: make(chan net.Conn),
		port:       port,
		kbd:        kbd,
		display:    display,
	}, nil
}

// Accept a connection.
func (s *Server) acceptConnections() {
	defer s.wg.Done()

	for {
		select {
		case <-s.shutdown:
			return
		default:
			conn, err := s.listener.Accept()
			if err != nil {
				continue
			}
			s.connection <- conn
		}
	}
}

// Start processing for a new connection.
func (s *Server) handleConnections() {
	defer s.wg.Done()

	for {
		select {
		case <-s.shutdown:
			return
		case conn := <-s.connection:
			go s.handleClient(conn)
		}
	}
}

// Run one console connection until it closes.
func (s *Server) handleClient(conn net.Conn) {
	defer conn.Close()

	state := newState(conn)
	state.sendGreeting()
	s.display.Attach(conn)
	defer s.display.Detach(conn)

	buffer := make([]byte, 1024)
	for {
		num, err := conn.Read(buffer)
		if err != nil {
			return
		}
		for _, by := range buffer[:num] {
			if ch, ok := state.process(by); ok {
				s.kbd.TypeString(keyboard.Layout(), string(ch))
			}
		}
	}
}
