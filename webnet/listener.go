/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package webnet implements the non-blocking listener, poll(2)-based
// readiness poller, and single-threaded event loop that drive every
// connection in the server.
package webnet

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// Listener owns one non-blocking, SO_REUSEADDR IPv4 listening socket.
type Listener struct {
	fd   int
	bind string
}

// Open creates, binds, and starts listening on host:port. host may be a
// dotted IPv4 address, "0.0.0.0", "localhost", or any name resolvable via
// the system resolver (the first IPv4 address is used).
func Open(host string, port int) (*Listener, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("socket() failed: %w", err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("setsockopt(SO_REUSEADDR) failed: %w", err)
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("fcntl(O_NONBLOCK) failed: %w", err)
	}

	addr, err := resolveIPv4(host)
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], addr.To4())

	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("bind() failed: %w", err)
	}
	if err := unix.Listen(fd, 128); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("listen() failed: %w", err)
	}

	return &Listener{fd: fd, bind: fmt.Sprintf("%s:%d", host, port)}, nil
}

func resolveIPv4(host string) (net.IP, error) {
	switch host {
	case "0.0.0.0":
		return net.IPv4zero, nil
	case "localhost":
		return net.IPv4(127, 0, 0, 1), nil
	}
	if ip := net.ParseIP(host).To4(); ip != nil {
		return ip, nil
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return nil, fmt.Errorf("getaddrinfo(%q) failed: %w", host, err)
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
	}
	return nil, fmt.Errorf("no IPv4 address found for %q", host)
}

// Fd returns the listening socket's file descriptor.
func (l *Listener) Fd() int { return l.fd }

// Bind returns the "host:port" string the listener was opened with.
func (l *Listener) Bind() string { return l.bind }

// Accept accepts one pending connection, returning the new non-blocking
// socket fd. ok is false once the accept queue is drained (EAGAIN).
func (l *Listener) Accept() (fd int, ok bool) {
	cfd, _, err := unix.Accept(l.fd)
	if err != nil {
		return -1, false
	}
	_ = unix.SetNonblock(cfd, true)
	return cfd, true
}

// Close closes the listening socket.
func (l *Listener) Close() error {
	return unix.Close(l.fd)
}
