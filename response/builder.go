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

// Package response renders HTTP/1.1 status lines, headers, and chunked
// framing into the byte buffer handed to the connection's output side.
package response

import (
	"strconv"
	"strings"
	"time"
)

const imfFixdate = "Mon, 02 Jan 2006 15:04:05 GMT"

// HTTPDateNow formats the current time as an RFC 7231 IMF-fixdate string.
func HTTPDateNow() string {
	return time.Now().UTC().Format(imfFixdate)
}

// BuildHeaders renders a full status line plus header block, ending in the
// blank line that separates headers from body. The response is always
// labeled HTTP/1.1 regardless of the request's declared version.
func BuildHeaders(code int, reason, ctype string, clen int, keepAlive bool, location, dateStr, extra string) string {
	var b strings.Builder

	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(code))
	b.WriteByte(' ')
	b.WriteString(reason)
	b.WriteString("\r\n")

	b.WriteString("Server: webserv-dev\r\n")

	b.WriteString("Date: ")
	if dateStr == "" {
		b.WriteString(HTTPDateNow())
	} else {
		b.WriteString(dateStr)
	}
	b.WriteString("\r\n")

	b.WriteString("Content-Type: ")
	b.WriteString(ctype)
	b.WriteString("\r\n")

	b.WriteString("Content-Length: ")
	b.WriteString(strconv.Itoa(clen))
	b.WriteString("\r\n")

	b.WriteString("Connection: ")
	if keepAlive {
		b.WriteString("keep-alive\r\n")
		b.WriteString("Keep-Alive: timeout=5, max=100\r\n")
	} else {
		b.WriteString("close\r\n")
	}

	if location != "" {
		b.WriteString("Location: ")
		b.WriteString(location)
		b.WriteString("\r\n")
	}
	if extra != "" {
		b.WriteString(extra)
	}

	b.WriteString("\r\n")
	return b.String()
}

// AppendChunked appends body framed as a single chunk followed by the
// terminating zero-length chunk, per HTTP/1.1 chunked transfer-encoding.
func AppendChunked(out *strings.Builder, body []byte) {
	out.WriteString(strconv.FormatInt(int64(len(body)), 16))
	out.WriteString("\r\n")
	out.Write(body)
	out.WriteString("\r\n0\r\n\r\n")
}

// BuildChunkedHeaders renders headers for a body sent with
// Transfer-Encoding: chunked instead of a Content-Length.
func BuildChunkedHeaders(code int, reason, ctype string, keepAlive bool, extra string) string {
	var b strings.Builder

	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(code))
	b.WriteByte(' ')
	b.WriteString(reason)
	b.WriteString("\r\n")

	b.WriteString("Server: webserv-dev\r\n")
	b.WriteString("Date: ")
	b.WriteString(HTTPDateNow())
	b.WriteString("\r\n")

	b.WriteString("Content-Type: ")
	b.WriteString(ctype)
	b.WriteString("\r\n")
	b.WriteString("Transfer-Encoding: chunked\r\n")

	b.WriteString("Connection: ")
	if keepAlive {
		b.WriteString("keep-alive\r\n")
		b.WriteString("Keep-Alive: timeout=5, max=100\r\n")
	} else {
		b.WriteString("close\r\n")
	}

	if extra != "" {
		b.WriteString(extra)
	}
	b.WriteString("\r\n")
	return b.String()
}
