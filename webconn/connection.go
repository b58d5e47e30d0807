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

// Package webconn implements the per-connection state machine: reading
// bytes off a non-blocking socket into the HTTP/1.1 parser, dispatching a
// completed request through routing and the handler pipeline, and draining
// the resulting response bytes back out, all without blocking the event
// loop thread.
package webconn

import (
	"strconv"
	"strings"
	"time"

	"github.com/nabbar/webserv/cgihandler"
	"github.com/nabbar/webserv/deletehandler"
	"github.com/nabbar/webserv/httpparser"
	"github.com/nabbar/webserv/response"
	"github.com/nabbar/webserv/statichandler"
	"github.com/nabbar/webserv/uploadhandler"
	"github.com/nabbar/webserv/vhost"
	"github.com/nabbar/webserv/wslog"
)

// maxKeepAliveRequests caps how many requests may be served on one
// connection before it is forced to close, mirroring the original's
// MAX_KEEPALIVE cutoff.
const maxKeepAliveRequests = 100

// recvChunk is the size of each read(2) call off the socket.
const recvChunk = 65536

// Recver abstracts the non-blocking socket read the event loop performs on
// our behalf, so Connection can be unit-tested without real file descriptors.
type Recver interface {
	Recv(buf []byte) (n int, closed bool, wouldBlock bool)
}

// Sender abstracts the non-blocking socket write the event loop performs.
type Sender interface {
	Send(buf []byte) (n int, wouldBlock bool, err error)
}

// Connection is the state for one accepted TCP connection: an input byte
// buffer feeding an incremental parser, an output byte buffer draining to
// the socket, and the book-keeping needed to decide whether to serve
// another request or close once output drains.
type Connection struct {
	Fd           int
	ListenerHost string
	ListenerPort int
	RemoteAddr   string

	router *vhost.Router
	log    wslog.Logger

	parser *httpparser.Parser

	out         []byte
	closeAfter  bool
	reqsOnConn  int
	reqStart    int64
	closed      bool
}

// New builds a Connection bound to fd, serving requests arriving on
// (listenerHost, listenerPort) via router.
func New(fd int, listenerHost string, listenerPort int, remoteAddr string, router *vhost.Router, log wslog.Logger) *Connection {
	if log == nil {
		log = wslog.Discard()
	}
	return &Connection{
		Fd:           fd,
		ListenerHost: listenerHost,
		ListenerPort: listenerPort,
		RemoteAddr:   remoteAddr,
		router:       router,
		log:          log,
		parser:       httpparser.NewParser(),
	}
}

// WantEvents reports the poll(2) event mask this connection currently
// wants: read interest until output starts building, write interest while
// there are unsent response bytes.
func (c *Connection) WantEvents() int16 {
	const pollin, pollout = 0x001, 0x004
	var ev int16
	if len(c.out) == 0 {
		ev |= pollin
	} else {
		ev |= pollout
	}
	return ev
}

// Closed reports whether the connection should be torn down by the caller.
func (c *Connection) Closed() bool { return c.closed }

// OnReadable drains the socket into the parser, dispatching every request
// that completes parsing, until the socket would block, hits EOF, or a
// parse error forces the connection closed.
func (c *Connection) OnReadable(r Recver) {
	buf := make([]byte, recvChunk)
	for {
		n, closed, wouldBlock := r.Recv(buf)
		if n > 0 {
			c.parser.Feed(buf[:n])
		}
		if n > 0 {
			c.drainParsed()
		}
		if c.closeAfter {
			return
		}
		if wouldBlock {
			return
		}
		if closed {
			c.closed = true
			return
		}
		if n == 0 {
			return
		}
	}
}

func (c *Connection) drainParsed() {
	for {
		var req httpparser.Request
		result := c.parser.Parse(&req)

		switch result {
		case httpparser.NeedMore:
			return
		case httpparser.OK:
			c.handle(&req)
			c.parser.Reset()
			c.reqsOnConn++
			if c.reqsOnConn >= maxKeepAliveRequests {
				c.closeAfter = true
			}
			if c.closeAfter {
				return
			}
		case httpparser.BadRequest:
			c.writeSimple(400, "Bad Request", true)
			return
		case httpparser.NotImplemented:
			c.writeSimple(501, "Not Implemented", true)
			return
		case httpparser.LengthRequired:
			c.writeSimple(411, "Length Required", true)
			return
		case httpparser.EntityTooLarge:
			c.writeSimple(413, "Request Entity Too Large", true)
			return
		}
	}
}

func (c *Connection) writeSimple(code int, reason string, closeConn bool) {
	ctype, body := errorPageBody(c.defaultServer(), code, reason)
	hdr := response.BuildHeaders(code, reason, ctype, len(body), !closeConn, "", "", "")
	c.out = append(c.out, hdr...)
	c.out = append(c.out, body...)
	if closeConn {
		c.closeAfter = true
	}
}

// handle resolves and dispatches one completed request through the routing
// and handler pipeline, appending the rendered response to the output buffer.
func (c *Connection) handle(req *httpparser.Request) {
	start := time.Now()

	// HTTP/1.1 defaults to keep-alive unless closed explicitly; HTTP/1.0
	// defaults to close unless keep-alive is requested explicitly.
	conn := strings.ToLower(req.Header("connection"))
	var keepAlive bool
	if req.Version == "HTTP/1.1" {
		keepAlive = conn != "close"
	} else {
		keepAlive = conn == "keep-alive"
	}
	if !keepAlive {
		c.closeAfter = true
	}

	if req.Version == "HTTP/1.1" && !req.HasHeader("host") {
		ctype, body := errorPageBody(c.defaultServer(), 400, "Bad Request")
		c.respondAndLog(req, start, 400, "Bad Request", ctype, body, "", "")
		return
	}

	match := c.router.Resolve(c.ListenerHost, c.ListenerPort, req.Header("host"), req.RawTarget)
	if match.Server == nil {
		ctype, body := errorPageBody(nil, 500, "Internal Server Error")
		c.respondAndLog(req, start, 500, "Internal Server Error", ctype, body, "", "")
		return
	}

	if !vhost.IsImplemented(req.Method) {
		ctype, body := errorPageBody(match.Server, 501, "Not Implemented")
		c.respondAndLog(req, start, 501, "Not Implemented", ctype, body, "", "")
		return
	}
	if !vhost.IsAllowed(match.Location, req.Method) {
		allow := vhost.BuildAllowHeader(match.Location)
		ctype, body := errorPageBody(match.Server, 405, "Method Not Allowed")
		c.respondAndLog(req, start, 405, "Method Not Allowed", ctype, body, "", "Allow: "+allow+"\r\n")
		return
	}

	if match.Location != nil && match.Location.ReturnCode != 0 {
		body := []byte{}
		c.respondAndLog(req, start, match.Location.ReturnCode, reasonForRedirect(match.Location.ReturnCode), "text/plain; charset=utf-8", body, match.Location.ReturnURL, "")
		return
	}

	if cgiRes, ok := cgihandler.Handle(match.Server, match.Location, req); ok {
		extra := renderCgiHeaders(cgiRes.Headers)
		ctype := cgiRes.Headers["content-type"]
		clStr, hasCL := cgiRes.Headers["content-length"]
		body := cgiRes.Body
		if req.Method == "HEAD" {
			body = nil
		}
		if hasCL {
			clen := len(cgiRes.Body)
			if n, err := strconv.Atoi(clStr); err == nil {
				clen = n
			}
			c.respondWithLength(req, start, cgiRes.Status, cgiRes.Reason, ctype, body, "", extra, clen)
		} else {
			// No Content-Length from the script: frame the response as
			// chunked rather than buffering to compute a length up front.
			c.respondChunkedAndLog(req, start, cgiRes.Status, cgiRes.Reason, ctype, body, extra)
		}
		return
	}

	switch req.Method {
	case "POST":
		res := uploadhandler.Handle(match.Server, match.Location, req.Body)
		c.respondAndLog(req, start, res.Status, res.Reason, "text/plain; charset=utf-8", res.Body, res.Location, "")
	case "DELETE":
		res := deletehandler.Handle(match.Server, match.Location, req.RawTarget)
		c.respondAndLog(req, start, res.Status, res.Reason, "text/plain; charset=utf-8", res.Body, "", "")
	default:
		res := statichandler.HandleGET(match.Server, match.Location, req)
		c.respondAndLog(req, start, res.Status, res.Reason, res.ContentType, res.Body, res.Location, res.ExtraHeaders)
	}
}

func reasonForRedirect(code int) string {
	switch code {
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 303:
		return "See Other"
	case 307:
		return "Temporary Redirect"
	case 308:
		return "Permanent Redirect"
	}
	return "Redirect"
}

func renderCgiHeaders(h map[string]string) string {
	out := ""
	for k, v := range h {
		// content-type and content-length are rendered by the response
		// builder itself (or omitted for the chunked path); passing them
		// through here as well would duplicate the header.
		if k == "content-type" || k == "content-length" {
			continue
		}
		out += k + ": " + v + "\r\n"
	}
	return out
}

func (c *Connection) respondAndLog(req *httpparser.Request, start time.Time, status int, reason, ctype string, body []byte, location, extra string) {
	c.respondWithLength(req, start, status, reason, ctype, body, location, extra, len(body))
}

// respondWithLength renders body with an explicit Content-Length, used by
// the CGI path to honor a length the script itself declared rather than
// always recomputing it from len(body).
func (c *Connection) respondWithLength(req *httpparser.Request, start time.Time, status int, reason, ctype string, body []byte, location, extra string, clen int) {
	hdr := response.BuildHeaders(status, reason, ctype, clen, !c.closeAfter, location, "", extra)
	c.out = append(c.out, hdr...)
	c.out = append(c.out, body...)

	c.log.Access(c.RemoteAddr, req.Method, req.RawTarget, req.Version, status, int64(len(body)), time.Since(start))
}

// respondChunkedAndLog frames body as a single chunked-transfer-encoded
// response, for the case where the upstream (CGI) source gave no
// Content-Length.
func (c *Connection) respondChunkedAndLog(req *httpparser.Request, start time.Time, status int, reason, ctype string, body []byte, extra string) {
	hdr := response.BuildChunkedHeaders(status, reason, ctype, !c.closeAfter, extra)
	c.out = append(c.out, hdr...)

	var b strings.Builder
	response.AppendChunked(&b, body)
	c.out = append(c.out, b.String()...)

	c.log.Access(c.RemoteAddr, req.Method, req.RawTarget, req.Version, status, int64(len(body)), time.Since(start))
}

// OnWritable drains the output buffer to the socket, returning once it
// would block or the buffer has fully drained. When drained and the
// connection was marked to close, Closed becomes true.
func (c *Connection) OnWritable(s Sender) {
	for len(c.out) > 0 {
		n, wouldBlock, err := s.Send(c.out)
		if n > 0 {
			c.out = c.out[n:]
		}
		if err != nil {
			c.closed = true
			return
		}
		if wouldBlock {
			return
		}
	}
	if c.closeAfter {
		c.closed = true
	}
}
