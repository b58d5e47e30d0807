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

import "golang.org/x/sys/unix"

// PollEvent reports the interest mask and the mask that actually fired for
// one file descriptor after a Poller.Wait call.
type PollEvent struct {
	Fd      int
	Events  int16
	Revents int16
}

type pollItem struct {
	fd     int
	events int16
}

// Poller is a thin wrapper over poll(2). The interest set is rebuilt from
// scratch every iteration by the event loop; Poller itself just holds
// whatever Add calls were made since the last Clear.
type Poller struct {
	items []pollItem
}

// Clear empties the interest set.
func (p *Poller) Clear() { p.items = p.items[:0] }

// Add registers fd with events, replacing any existing entry for fd.
func (p *Poller) Add(fd int, events int16) {
	for i := range p.items {
		if p.items[i].fd == fd {
			p.items[i].events = events
			return
		}
	}
	p.items = append(p.items, pollItem{fd: fd, events: events})
}

// Wait blocks for up to timeoutMs milliseconds for any registered fd to
// become ready, returning the fds whose revents is non-zero.
func (p *Poller) Wait(timeoutMs int) ([]PollEvent, error) {
	pfds := make([]unix.PollFd, len(p.items))
	for i, it := range p.items {
		pfds[i] = unix.PollFd{Fd: int32(it.fd), Events: it.events}
	}

	n, err := unix.Poll(pfds, timeoutMs)
	if n <= 0 {
		return nil, err
	}

	out := make([]PollEvent, 0, n)
	for _, pfd := range pfds {
		if pfd.Revents != 0 {
			out = append(out, PollEvent{Fd: int(pfd.Fd), Events: pfd.Events, Revents: pfd.Revents})
		}
	}
	return out, nil
}
