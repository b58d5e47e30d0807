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

// Package deletehandler removes a regular file named by a DELETE request's
// target, after a traversal pre-check and a path-safety boundary check. In
// the original C++ this logic lived inline in the connection state machine.
package deletehandler

import (
	"os"
	"strings"

	"github.com/nabbar/webserv/pathsafety"
	wsconfig "github.com/nabbar/webserv/wsconfig"
)

// Result is the outcome of one DELETE attempt.
type Result struct {
	Status int
	Reason string
	Body   []byte
}

func pathOnly(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}

func serverRoot(srv *wsconfig.Server) string {
	if srv.Root == "" {
		return "."
	}
	return srv.Root
}

func mapForDelete(srv *wsconfig.Server, loc *wsconfig.Location, reqPath string) (string, bool) {
	base := serverRoot(srv)
	rest := strings.TrimPrefix(reqPath, "/")

	if loc != nil {
		lpath := loc.Path
		if !strings.HasPrefix(lpath, "/") {
			lpath = "/" + lpath
		}
		if pathsafety.HasBoundaryPrefix(lpath, reqPath) {
			tail := strings.TrimPrefix(reqPath[len(lpath):], "/")
			switch {
			case loc.Alias != "":
				base = loc.Alias
			case loc.Root != "":
				base = loc.Root
			}
			rest = tail
		}
	}

	return pathsafety.MapUnder(base, rest)
}

// Handle deletes the file mapped from reqTarget, returning 204 on success,
// 403 on a traversal attempt or escape from the base directory, 404 if the
// mapped path is not a regular file, or 500 on a filesystem error.
func Handle(srv *wsconfig.Server, loc *wsconfig.Location, reqTarget string) Result {
	reqPath := pathOnly(reqTarget)

	if pathsafety.TraversalSuspect(reqPath) {
		return Result{Status: 403, Reason: "Forbidden", Body: []byte("403 Forbidden\n")}
	}

	fsPath, ok := mapForDelete(srv, loc, reqPath)
	if !ok {
		return Result{Status: 403, Reason: "Forbidden", Body: []byte("403 Forbidden\n")}
	}

	st, err := os.Stat(fsPath)
	if err != nil || !st.Mode().IsRegular() {
		return Result{Status: 404, Reason: "Not Found", Body: []byte("404 Not Found\n")}
	}

	if err := os.Remove(fsPath); err != nil {
		return Result{Status: 500, Reason: "Internal Server Error", Body: []byte("500 Internal Server Error\n")}
	}

	return Result{Status: 204, Reason: "No Content"}
}
