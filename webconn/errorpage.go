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

package webconn

import (
	"os"
	"strconv"
	"strings"

	wsconfig "github.com/nabbar/webserv/wsconfig"
)

// errorPageFSPath resolves a server's configured error_page target to a
// filesystem path. A leading "./" is stripped and treated as relative to
// the working directory; any other value is joined under srv.Root when one
// is configured.
func errorPageFSPath(root, p string) string {
	fs := p
	if strings.HasPrefix(p, "./") {
		if len(p) >= 2 {
			fs = p[2:]
		} else {
			fs = ""
		}
	}
	if root != "" && !strings.HasPrefix(p, "./") {
		fs = root + "/" + p
	}
	return fs
}

// errorPageBody looks up srv's configured error_page for code and serves it
// as text/html on success, falling back to a plain "<code> <reason>" body
// when no page is configured or the file cannot be read.
func errorPageBody(srv *wsconfig.Server, code int, reason string) (ctype string, body []byte) {
	fallback := []byte(strconv.Itoa(code) + " " + reason + "\n")

	if srv == nil {
		return "text/plain; charset=utf-8", fallback
	}
	p, ok := srv.ErrorPages[code]
	if !ok {
		return "text/plain; charset=utf-8", fallback
	}

	data, err := os.ReadFile(errorPageFSPath(srv.Root, p))
	if err != nil {
		return "text/plain; charset=utf-8", fallback
	}
	return "text/html; charset=utf-8", data
}

// defaultServer resolves the server that would handle a request on this
// connection's (host, port) absent any Host header, for use by error paths
// that fire before routing has a resolved server to hand to errorPageBody.
func (c *Connection) defaultServer() *wsconfig.Server {
	if c.router == nil {
		return nil
	}
	return c.router.Resolve(c.ListenerHost, c.ListenerPort, "", "").Server
}
