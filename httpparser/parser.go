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

package httpparser

import (
	"strconv"
	"strings"

	"github.com/nabbar/webserv/chunked"
)

// Result classifies the outcome of one Parse call. NeedMore is the only
// non-terminal result; every other result is final and must be turned into
// a response by the caller.
type Result uint8

const (
	NeedMore Result = iota
	OK
	BadRequest
	NotImplemented
	LengthRequired
	EntityTooLarge
)

type state uint8

const (
	stReqLine state = iota
	stHeaders
	stBodyIdentity
	stBodyChunked
	stDone
)

const (
	maxRequestLine = 8192
	maxHeaderBytes = 65536
	maxBodyBytes   = 10 * 1024 * 1024
)

// Parser is an incremental HTTP/1.1 request parser fed bytes as they arrive.
// Reset makes it safe to reuse across keep-alive requests on one connection.
type Parser struct {
	buf      []byte
	st       state
	req      Request
	needBody int
	chunk    chunked.Decoder
}

// NewParser returns a parser ready to consume the first request line.
func NewParser() *Parser {
	p := &Parser{req: newRequest()}
	return p
}

// Feed appends newly-received socket bytes to the parser's internal buffer.
func (p *Parser) Feed(data []byte) {
	p.buf = append(p.buf, data...)
}

// Reset prepares the parser for the next request on a keep-alive connection.
// Any bytes already buffered (a pipelined next request) are preserved.
func (p *Parser) Reset() {
	p.req = newRequest()
	p.st = stReqLine
	p.needBody = 0
	p.chunk = chunked.Decoder{}
}

func trim(s string) string {
	return strings.Trim(s, " \t\r")
}

func (p *Parser) parseRequestLine(line string) bool {
	a := 0
	b := strings.IndexByte(line, ' ')
	if b < 0 {
		return false
	}
	p.req.Method = line[a:b]

	a = b + 1
	b = strings.IndexByte(line[a:], ' ')
	if b < 0 {
		return false
	}
	b += a

	target := line[a:b]
	p.req.RawTarget = target
	p.req.Target = target

	p.req.Version = line[b+1:]
	if p.req.Version != "HTTP/1.1" && p.req.Version != "HTTP/1.0" {
		return false
	}

	switch p.req.Method {
	case "GET", "POST", "DELETE", "HEAD", "PUT":
	default:
		return false
	}
	return true
}

func (p *Parser) parseHeaders(block string) bool {
	pos := 0
	for pos < len(block) {
		end := strings.Index(block[pos:], "\r\n")
		if end < 0 {
			end = len(block)
		} else {
			end += pos
		}
		line := block[pos:end]
		pos = end + 2

		if line == "" {
			continue
		}

		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return false
		}

		k := strings.ToLower(trim(line[:colon]))
		v := trim(line[colon+1:])
		p.req.Headers[k] = v
	}
	return true
}

// Parse advances the state machine as far as the currently-buffered bytes
// allow. On OK, out receives the completed request.
func (p *Parser) Parse(out *Request) Result {
	if p.st == stReqLine {
		eol := indexCRLF(p.buf)
		if eol < 0 {
			if len(p.buf) > maxRequestLine {
				return BadRequest
			}
			return NeedMore
		}
		line := string(p.buf[:eol])
		if len(line) > maxRequestLine {
			return BadRequest
		}
		if !p.parseRequestLine(line) {
			return BadRequest
		}
		p.buf = p.buf[eol+2:]
		p.st = stHeaders
	}

	if p.st == stHeaders {
		endHeaders := indexDoubleCRLF(p.buf)
		if endHeaders < 0 {
			if len(p.buf) > maxHeaderBytes {
				return BadRequest
			}
			return NeedMore
		}
		headerBlock := string(p.buf[:endHeaders])
		if !p.parseHeaders(headerBlock) {
			return BadRequest
		}
		p.buf = p.buf[endHeaders+4:]

		te := p.req.Header("transfer-encoding")
		cl := p.req.Header("content-length")

		switch {
		case te != "":
			if te != "chunked" {
				return NotImplemented
			}
			p.st = stBodyChunked

		case cl != "":
			v, err := strconv.ParseUint(cl, 10, 64)
			if err != nil {
				return BadRequest
			}
			p.needBody = int(v)
			if p.needBody > maxBodyBytes {
				return EntityTooLarge
			}
			if p.needBody == 0 {
				p.st = stDone
				*out = p.req
				return OK
			}
			p.st = stBodyIdentity

		default:
			if p.req.Method == "POST" {
				return LengthRequired
			}
			p.st = stDone
			*out = p.req
			return OK
		}
	}

	if p.st == stBodyIdentity {
		if len(p.buf) < p.needBody {
			return NeedMore
		}
		p.req.Body = append([]byte(nil), p.buf[:p.needBody]...)
		p.buf = p.buf[p.needBody:]
		p.st = stDone
		*out = p.req
		return OK
	}

	if p.st == stBodyChunked {
		consumed, finished := p.chunk.Feed(p.buf, 0, &p.req.Body)
		p.buf = p.buf[consumed:]

		if !finished {
			return NeedMore
		}
		if p.chunk.Bad() {
			return BadRequest
		}
		if len(p.req.Body) > maxBodyBytes {
			return EntityTooLarge
		}
		p.st = stDone
		*out = p.req
		return OK
	}

	if p.st == stDone {
		*out = p.req
		return OK
	}

	return NeedMore
}

func indexCRLF(b []byte) int {
	return strings.Index(string(b), "\r\n")
}

func indexDoubleCRLF(b []byte) int {
	return strings.Index(string(b), "\r\n\r\n")
}
