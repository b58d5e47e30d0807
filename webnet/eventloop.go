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

package webnet

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/nabbar/webserv/vhost"
	"github.com/nabbar/webserv/webconn"
	wsconfig "github.com/nabbar/webserv/wsconfig"
	"github.com/nabbar/webserv/wslog"
)

const (
	evPollIn  = int16(unix.POLLIN)
	evPollOut = int16(unix.POLLOUT)
	evPollErr = int16(unix.POLLERR | unix.POLLHUP | unix.POLLNVAL)
)

// sockRecver/sockSender adapt a raw fd to webconn's Recver/Sender
// interfaces via unix.Read/Write, translating EAGAIN and EOF.
type sockRecver struct{ fd int }

func (s sockRecver) Recv(buf []byte) (n int, closed bool, wouldBlock bool) {
	got, err := unix.Read(s.fd, buf)
	if got > 0 {
		return got, false, false
	}
	if got == 0 && err == nil {
		return 0, true, false
	}
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return 0, false, true
	}
	return 0, true, false
}

type sockSender struct{ fd int }

func (s sockSender) Send(buf []byte) (n int, wouldBlock bool, err error) {
	wrote, werr := unix.Write(s.fd, buf)
	if werr == unix.EAGAIN || werr == unix.EWOULDBLOCK {
		return wrote, true, nil
	}
	return wrote, false, werr
}

// EventLoop is the single-threaded, readiness-driven connection multiplexer:
// one Listener per configured (host,port) pair, one webconn.Connection per
// accepted socket, all polled together every iteration.
type EventLoop struct {
	listeners []*Listener
	conns     map[int]*webconn.Connection
	router    *vhost.Router
	poller    Poller
	log       wslog.Logger
}

// NewEventLoop returns an EventLoop that will route requests via router and
// log through log (wslog.Discard() is used if log is nil).
func NewEventLoop(router *vhost.Router, log wslog.Logger) *EventLoop {
	if log == nil {
		log = wslog.Discard()
	}
	return &EventLoop{
		conns:  make(map[int]*webconn.Connection),
		router: router,
		log:    log,
	}
}

// InitFromConfig opens one listener per unique (host,port) pair declared
// across cfg's servers. If any listener fails to open, every listener
// already opened in this call is closed and the error is returned —
// initialization is all-or-nothing.
func (e *EventLoop) InitFromConfig(cfg *wsconfig.Config) error {
	type hostPort struct {
		host string
		port int
	}
	seen := make(map[hostPort]bool)

	var opened []*Listener
	for i := range cfg.Servers {
		s := &cfg.Servers[i]
		key := hostPort{s.Host, s.Port}
		if seen[key] {
			continue
		}
		seen[key] = true

		l, err := Open(s.Host, s.Port)
		if err != nil {
			for _, o := range opened {
				_ = o.Close()
			}
			return fmt.Errorf("initializing listener %s:%d: %w", s.Host, s.Port, err)
		}
		opened = append(opened, l)
	}

	e.listeners = opened
	return nil
}

func (e *EventLoop) isListener(fd int) (*Listener, bool) {
	for _, l := range e.listeners {
		if l.Fd() == fd {
			return l, true
		}
	}
	return nil, false
}

// rebuildPollSet clears and re-registers every listener and connection fd,
// mirroring the original's "recompute interest set every iteration" design
// rather than incrementally patching it.
func (e *EventLoop) rebuildPollSet() {
	e.poller.Clear()
	for _, l := range e.listeners {
		e.poller.Add(l.Fd(), evPollIn)
	}
	for fd, c := range e.conns {
		e.poller.Add(fd, c.WantEvents())
	}
}

// acceptReady accepts every pending connection on lfd until the accept
// queue is drained (EAGAIN), registering each as a new webconn.Connection.
func (e *EventLoop) acceptReady(lfd int) {
	l, ok := e.isListener(lfd)
	if !ok {
		return
	}
	for {
		fd, ok := l.Accept()
		if !ok {
			return
		}
		e.conns[fd] = webconn.New(fd, hostOf(l.Bind()), portOf(l.Bind()), remoteAddrOf(fd), e.router, e.log)
	}
}

// gcClosed reaps every connection marked Closed, in a collect-then-erase
// two-pass sweep so the map isn't mutated while ranged over.
func (e *EventLoop) gcClosed() {
	var dead []int
	for fd, c := range e.conns {
		if c.Closed() {
			dead = append(dead, fd)
		}
	}
	for _, fd := range dead {
		_ = unix.Close(fd)
		delete(e.conns, fd)
	}
}

// Run drives the event loop forever: rebuild the poll set, wait up to one
// second for readiness, dispatch every ready fd, then reap closed
// connections before looping again.
func (e *EventLoop) Run() error {
	for {
		e.rebuildPollSet()

		events, err := e.poller.Wait(1000)
		if err != nil && err != unix.EINTR {
			return fmt.Errorf("poll() failed: %w", err)
		}

		for _, ev := range events {
			if _, isL := e.isListener(ev.Fd); isL {
				if ev.Revents&(evPollIn|evPollErr) != 0 {
					e.acceptReady(ev.Fd)
				}
				continue
			}

			c, ok := e.conns[ev.Fd]
			if !ok {
				continue
			}

			switch {
			case ev.Revents&evPollOut != 0:
				c.OnWritable(sockSender{fd: ev.Fd})
			case ev.Revents&evPollIn != 0:
				c.OnReadable(sockRecver{fd: ev.Fd})
			case ev.Revents&evPollErr != 0:
				if c.WantEvents()&evPollOut != 0 {
					c.OnWritable(sockSender{fd: ev.Fd})
				} else {
					c.OnReadable(sockRecver{fd: ev.Fd})
				}
			}
		}

		e.gcClosed()
	}
}

func hostOf(bind string) string {
	for i := len(bind) - 1; i >= 0; i-- {
		if bind[i] == ':' {
			return bind[:i]
		}
	}
	return bind
}

// portOf extracts the port from a "host:port" string as produced by
// Listener.Bind.
func portOf(bind string) int {
	port := 0
	for i := len(bind) - 1; i >= 0; i-- {
		if bind[i] == ':' {
			for _, ch := range bind[i+1:] {
				port = port*10 + int(ch-'0')
			}
			break
		}
	}
	return port
}

func remoteAddrOf(fd int) string {
	sa, err := unix.Getpeername(fd)
	if err != nil {
		return fmt.Sprintf("fd-%d", fd)
	}
	if sa4, ok := sa.(*unix.SockaddrInet4); ok {
		return fmt.Sprintf("%d.%d.%d.%d:%d", sa4.Addr[0], sa4.Addr[1], sa4.Addr[2], sa4.Addr[3], sa4.Port)
	}
	return fmt.Sprintf("fd-%d", fd)
}
