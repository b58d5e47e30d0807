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

package statichandler

import (
	"strings"

	"github.com/nabbar/webserv/pathsafety"
	wsconfig "github.com/nabbar/webserv/wsconfig"
)

// mapToFsPath resolves reqPath to a filesystem path (relative to the process
// working directory unless the base is absolute), honoring the matched location's alias/root override
// and falling back to the server root. ok is false when the mapped path
// would escape its base directory.
func mapToFsPath(srv *wsconfig.Server, loc *wsconfig.Location, reqPath string) (fsPath string, ok bool) {
	base := ""
	rest := reqPath

	if loc != nil {
		lpath := loc.Path
		if !strings.HasPrefix(lpath, "/") {
			lpath = "/" + lpath
		}

		if pathsafety.HasBoundaryPrefix(lpath, rest) {
			tail := rest[len(lpath):]
			tail = strings.TrimPrefix(tail, "/")

			switch {
			case loc.Alias != "":
				base = loc.Alias
			case loc.Root != "":
				base = loc.Root
			default:
				base = serverRoot(srv)
			}
			rest = tail
		} else {
			base = serverRoot(srv)
			rest = strings.TrimPrefix(rest, "/")
		}
	} else {
		base = serverRoot(srv)
		rest = strings.TrimPrefix(rest, "/")
	}

	return pathsafety.MapUnder(base, rest)
}

func serverRoot(srv *wsconfig.Server) string {
	if srv.Root == "" {
		return "."
	}
	return srv.Root
}
