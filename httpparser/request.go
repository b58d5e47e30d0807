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

// Package httpparser implements the incremental HTTP/1.1 request parser:
// a state machine fed bytes as they arrive off a non-blocking socket.
package httpparser

import "strings"

// Request is a fully parsed HTTP request. Headers keys are lower-cased and
// trimmed at parse time; duplicate headers keep the last value.
type Request struct {
	Method     string
	RawTarget  string
	Target     string
	Version    string
	Headers    map[string]string
	Body       []byte
}

func newRequest() Request {
	return Request{Headers: make(map[string]string)}
}

// Header returns the (already lower-cased) header value, or "" if absent.
func (r *Request) Header(key string) string {
	return r.Headers[strings.ToLower(key)]
}

// HasHeader reports whether the header was present on the request.
func (r *Request) HasHeader(key string) bool {
	_, ok := r.Headers[strings.ToLower(key)]
	return ok
}

// TargetPath returns Target with any "?query" suffix stripped.
func (r *Request) TargetPath() string {
	if i := strings.IndexByte(r.Target, '?'); i >= 0 {
		return r.Target[:i]
	}
	return r.Target
}

// Query returns everything after the first '?' in Target, or "".
func (r *Request) Query() string {
	if i := strings.IndexByte(r.Target, '?'); i >= 0 {
		return r.Target[i+1:]
	}
	return ""
}
