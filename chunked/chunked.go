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

// Package chunked decodes an HTTP/1.1 chunked transfer-encoded request body
// incrementally from a byte buffer that may contain a partial stream.
package chunked

type state uint8

const (
	stateSize state = iota
	stateData
	stateCRLFAfterData
	stateCRLFAfterSize
	stateDone
	stateBad
)

// Decoder is a streaming chunked-body decoder. It is reused across Feed
// calls as more bytes arrive on the socket; a zero Decoder is ready to use.
type Decoder struct {
	st   state
	need int
}

// Done reports whether the decoder reached a terminal state (complete or bad).
func (d *Decoder) Done() bool { return d.st == stateDone || d.st == stateBad }

// Bad reports whether the stream was malformed.
func (d *Decoder) Bad() bool { return d.st == stateBad }

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// parseSizeLine scans in[off:] for a CRLF-terminated chunk-size line,
// ignoring any ';'-introduced chunk-extension. It returns the parsed size,
// the offset just past the line's CRLF, whether enough data was present,
// and whether the digits before ';'/CRLF were valid hex.
func parseSizeLine(in []byte, off int) (size, next int, found, valid bool) {
	lineEnd := -1
	for i := off; i+1 < len(in); i++ {
		if in[i] == '\r' && in[i+1] == '\n' {
			lineEnd = i
			break
		}
	}
	if lineEnd < 0 {
		return 0, off, false, false
	}

	j := off
	for ; j < lineEnd && in[j] != ';'; j++ {
		v := hexDigit(in[j])
		if v < 0 {
			return 0, lineEnd + 2, true, false
		}
		size = size<<4 + v
	}
	return size, lineEnd + 2, true, true
}

// Feed consumes bytes from in starting at consumed, appending decoded
// payload bytes to out, and returns the new consumed offset and whether the
// decoder reached a terminal state (Done() / Bad() distinguish success from
// a malformed stream; either way the caller must stop calling Feed).
func (d *Decoder) Feed(in []byte, consumed int, out *[]byte) (newConsumed int, finished bool) {
	off := consumed

	for off <= len(in) {
		switch d.st {
		case stateSize:
			sz, next, found, valid := parseSizeLine(in, off)
			if !found {
				return off, false
			}
			if !valid {
				d.st = stateBad
				return next, true
			}
			off = next
			d.need = sz
			if d.need == 0 {
				d.st = stateCRLFAfterSize
			} else {
				d.st = stateData
			}

		case stateData:
			left := len(in) - off
			if left == 0 {
				return off, false
			}
			take := d.need
			if take > left {
				take = left
			}
			*out = append(*out, in[off:off+take]...)
			off += take
			d.need -= take
			if d.need == 0 {
				d.st = stateCRLFAfterData
			}

		case stateCRLFAfterData:
			if len(in)-off < 2 {
				return off, false
			}
			if !(in[off] == '\r' && in[off+1] == '\n') {
				d.st = stateBad
				return off, true
			}
			off += 2
			d.st = stateSize

		case stateCRLFAfterSize:
			if len(in)-off < 2 {
				return off, false
			}
			if !(in[off] == '\r' && in[off+1] == '\n') {
				d.st = stateBad
				return off, true
			}
			off += 2
			d.st = stateDone
			return off, true

		case stateDone, stateBad:
			return off, true
		}
	}

	return off, false
}
