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

// Package cgihandler invokes a CGI/1.1 script for requests whose target
// matches a location's cgi_ext, via os/exec rather than raw fork/exec/pipe.
package cgihandler

import (
	"bytes"
	"os/exec"
	"strconv"
	"strings"

	"github.com/nabbar/webserv/httpparser"
	"github.com/nabbar/webserv/pathsafety"
	wsconfig "github.com/nabbar/webserv/wsconfig"
)

// Result is the parsed CGI response: headers (lower-cased keys) plus body.
type Result struct {
	Status  int
	Reason  string
	Headers map[string]string
	Body    []byte
}

// Applicable reports whether loc declares both cgi_ext and cgi_bin and path
// ends with that extension — the same gate the original C++ applies before
// attempting to fork a CGI process.
func Applicable(loc *wsconfig.Location, path string) bool {
	if loc == nil || loc.CgiExt == "" || loc.CgiBin == "" {
		return false
	}
	return strings.HasSuffix(path, loc.CgiExt)
}

func mapToFsRel(srv *wsconfig.Server, loc *wsconfig.Location, reqPath string) (string, bool) {
	rest := strings.TrimPrefix(reqPath, "/")
	base := ""

	if loc != nil && loc.Alias != "" {
		lpath := loc.Path
		if !strings.HasPrefix(lpath, "/") {
			lpath = "/" + lpath
		}
		if pathsafety.HasBoundaryPrefix(lpath, reqPath) {
			tail := strings.TrimPrefix(reqPath[len(lpath):], "/")
			base = loc.Alias
			rest = tail
		} else {
			base = rootOf(srv)
		}
	} else if loc != nil && loc.Root != "" {
		base = loc.Root
	} else {
		base = rootOf(srv)
	}

	return pathsafety.MapUnder(base, rest)
}

func rootOf(srv *wsconfig.Server) string {
	if srv.Root == "" {
		return "."
	}
	return srv.Root
}

// Handle runs the CGI script matched by loc for req, reporting ok=false if
// the location/extension gate does not apply (the caller should then fall
// through to static handling).
func Handle(srv *wsconfig.Server, loc *wsconfig.Location, req *httpparser.Request) (Result, bool) {
	path := req.TargetPath()
	if !Applicable(loc, path) {
		return Result{}, false
	}

	fsRel, ok := mapToFsRel(srv, loc, path)
	if !ok {
		return Result{Status: 403, Reason: "Forbidden", Body: []byte("403 Forbidden\n")}, true
	}

	cmd := exec.Command(loc.CgiBin, fsRel)
	cmd.Env = buildEnv(req, path, fsRel)
	cmd.Stdin = bytes.NewReader(req.Body)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	// Preserve the original's quirk: exec failure yields empty stdout, which
	// parses as an empty 200 OK rather than surfacing an error to the client.
	_ = cmd.Run()

	return parseCgiResponse(stdout.Bytes()), true
}

func buildEnv(req *httpparser.Request, scriptName, scriptFilename string) []string {
	version := req.Version
	if version == "" {
		version = "HTTP/1.1"
	}

	env := []string{
		"GATEWAY_INTERFACE=CGI/1.1",
		"SERVER_SOFTWARE=webserv-dev",
		"SERVER_PROTOCOL=" + version,
		"REQUEST_METHOD=" + req.Method,
		"SCRIPT_NAME=" + scriptName,
		"SCRIPT_FILENAME=" + scriptFilename,
		"QUERY_STRING=" + req.Query(),
	}
	if cl := req.Header("content-length"); cl != "" {
		env = append(env, "CONTENT_LENGTH="+cl)
	}
	if ct := req.Header("content-type"); ct != "" {
		env = append(env, "CONTENT_TYPE="+ct)
	}
	if h := req.Header("host"); h != "" {
		env = append(env, "HTTP_HOST="+h)
	}
	return env
}

// parseCgiResponse splits CGI output into headers and body on the first
// CRLFCRLF, falling back to LFLF, then to treating everything as headers.
func parseCgiResponse(out []byte) Result {
	sep := bytes.Index(out, []byte("\r\n\r\n"))
	off := 4
	if sep < 0 {
		sep = bytes.Index(out, []byte("\n\n"))
		off = 2
	}

	var hdrBlock, body []byte
	if sep < 0 {
		hdrBlock = out
	} else {
		hdrBlock = out[:sep]
		body = out[sep+off:]
	}

	res := Result{Status: 200, Reason: "OK", Headers: make(map[string]string)}

	pos := 0
	for pos < len(hdrBlock) {
		e := bytes.Index(hdrBlock[pos:], []byte("\r\n"))
		lineEndLen := 2
		if e < 0 {
			e = bytes.IndexByte(hdrBlock[pos:], '\n')
			lineEndLen = 1
		}
		var line []byte
		if e < 0 {
			line = hdrBlock[pos:]
			pos = len(hdrBlock)
		} else {
			line = hdrBlock[pos : pos+e]
			pos += e + lineEndLen
		}
		if len(line) == 0 {
			continue
		}

		c := bytes.IndexByte(line, ':')
		if c < 0 {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(string(line[:c])))
		v := strings.TrimLeft(string(line[c+1:]), " \t")

		if k == "status" {
			code := 200
			reason := "OK"
			if v != "" {
				if sp := strings.IndexByte(v, ' '); sp >= 0 {
					if n, err := strconv.Atoi(v[:sp]); err == nil {
						code = n
					}
					reason = v[sp+1:]
				} else if n, err := strconv.Atoi(v); err == nil {
					code = n
				}
			}
			res.Status = code
			res.Reason = reason
		} else {
			res.Headers[k] = v
		}
	}

	if _, ok := res.Headers["content-type"]; !ok {
		res.Headers["content-type"] = "text/html; charset=utf-8"
	}
	res.Body = body
	return res
}
