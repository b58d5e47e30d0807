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

// Package statichandler serves files and directories out of a server or
// location root: conditional GET, index resolution, autoindex, and the
// trailing-slash redirect, all routed through pathsafety's traversal guard.
package statichandler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nabbar/webserv/httpparser"
	"github.com/nabbar/webserv/pathsafety"
	wsconfig "github.com/nabbar/webserv/wsconfig"
)

// Result is the fully-formed answer to one GET/HEAD request, ready to be
// handed to the response package for framing.
type Result struct {
	Status        int
	Reason        string
	Body          []byte
	ContentType   string
	ContentLength int
	Location      string
	ExtraHeaders  string
}

func reasonFor(code int) string {
	switch code {
	case 200:
		return "OK"
	case 301:
		return "Moved Permanently"
	case 304:
		return "Not Modified"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 500:
		return "Internal Server Error"
	}
	return "OK"
}

func plainText(code int, body string) Result {
	return Result{
		Status:        code,
		Reason:        reasonFor(code),
		Body:          []byte(body),
		ContentType:   "text/plain; charset=utf-8",
		ContentLength: len(body),
	}
}

func pathOnly(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}

func makeWeakETag(size int64, mtime int64) string {
	return fmt.Sprintf("\"W/%d-%d\"", size, mtime)
}

func etagMatches(inm, etagQuotedW string) bool {
	if inm == etagQuotedW {
		return true
	}
	if len(etagQuotedW) >= 4 && strings.HasPrefix(etagQuotedW, "\"W/") {
		core := etagQuotedW[3 : len(etagQuotedW)-1]
		if inm == "W/\""+core+"\"" {
			return true
		}
	}
	return false
}

// HandleGET serves a GET or HEAD request. It always returns a result (never
// an error); failures map to 403/404/500 responses per the spec.
func HandleGET(srv *wsconfig.Server, loc *wsconfig.Location, req *httpparser.Request) Result {
	raw := req.RawTarget
	if raw == "" {
		raw = req.Target
	}
	reqPath := pathOnly(raw)

	if pathsafety.TraversalSuspect(reqPath) {
		return plainText(403, "403 Forbidden\n")
	}
	if reqPath == "" {
		reqPath = "/"
	}

	fsPath, ok := mapToFsPath(srv, loc, reqPath)
	if !ok {
		return plainText(403, "403 Forbidden\n")
	}

	wantDir := strings.HasSuffix(reqPath, "/")

	if st, err := os.Stat(fsPath); err == nil && st.Mode().IsRegular() && !wantDir {
		return serveFile(fsPath, st.Size(), st.ModTime().Unix(), req)
	}

	st, err := os.Stat(fsPath)
	if (err == nil && st.IsDir()) || wantDir {
		return serveDir(fsPath, reqPath, loc, req)
	}

	return plainText(404, "404 Not Found\n")
}

func serveFile(fsPath string, size, mtime int64, req *httpparser.Request) Result {
	etag := makeWeakETag(size, mtime)
	lastMod := httpDate(unixTime(mtime))

	if inm := req.Header("if-none-match"); inm != "" && etagMatches(inm, etag) {
		return notModified(fsPath, etag, lastMod)
	}
	if ims := req.Header("if-modified-since"); ims != "" {
		if imsT, ok := parseHTTPDate(ims); ok && !unixTime(mtime).After(imsT) {
			return notModified(fsPath, etag, lastMod)
		}
	}

	body, err := os.ReadFile(fsPath)
	if err != nil {
		return plainText(500, "500 Internal Server Error\n")
	}

	res := Result{
		Status:        200,
		Reason:        reasonFor(200),
		Body:          body,
		ContentType:   mimeByExt(fsPath),
		ContentLength: len(body),
		ExtraHeaders:  "ETag: " + etag + "\r\nLast-Modified: " + lastMod + "\r\n",
	}
	if req.Method == "HEAD" {
		res.Body = nil
		res.ContentLength = 0
	}
	return res
}

func notModified(fsPath, etag, lastMod string) Result {
	return Result{
		Status:       304,
		Reason:       reasonFor(304),
		ContentType:  mimeByExt(fsPath),
		ExtraHeaders: "ETag: " + etag + "\r\nLast-Modified: " + lastMod + "\r\n",
	}
}

func serveDir(fsPath, reqPath string, loc *wsconfig.Location, req *httpparser.Request) Result {
	if loc != nil {
		for _, idx := range loc.Index {
			cand := filepath.Join(fsPath, idx)
			st, err := os.Stat(cand)
			if err != nil || !st.Mode().IsRegular() {
				continue
			}
			body, rerr := os.ReadFile(cand)
			if rerr != nil {
				return plainText(500, "500 Internal Server Error\n")
			}

			etag := makeWeakETag(st.Size(), st.ModTime().Unix())
			lastMod := httpDate(st.ModTime())

			if inm := req.Header("if-none-match"); inm != "" && etagMatches(inm, etag) {
				return notModified(cand, etag, lastMod)
			}
			if ims := req.Header("if-modified-since"); ims != "" {
				if imsT, ok := parseHTTPDate(ims); ok && !st.ModTime().After(imsT) {
					return notModified(cand, etag, lastMod)
				}
			}

			res := Result{
				Status:        200,
				Reason:        reasonFor(200),
				Body:          body,
				ContentType:   mimeByExt(cand),
				ContentLength: len(body),
				ExtraHeaders:  "ETag: " + etag + "\r\nLast-Modified: " + lastMod + "\r\n",
			}
			if req.Method == "HEAD" {
				res.Body = nil
				res.ContentLength = 0
			}
			return res
		}
	}

	if !strings.HasSuffix(reqPath, "/") {
		return Result{
			Status:   301,
			Reason:   reasonFor(301),
			Location: reqPath + "/",
			ContentType: "text/plain; charset=utf-8",
		}
	}

	if loc != nil && loc.Autoindex {
		html := dirListingHTML(reqPath, fsPath)
		return Result{
			Status:        200,
			Reason:        reasonFor(200),
			Body:          []byte(html),
			ContentType:   "text/html; charset=utf-8",
			ContentLength: len(html),
		}
	}

	return plainText(403, "403 Forbidden\n")
}

// dirListingHTML renders an autoindex page. Unlike the original C++, which
// omits a parent-directory entry entirely, this emits a leading "../" link on
// every listing except the one for "/", so a browsing user can navigate back up.
func dirListingHTML(reqPath, fsDir string) string {
	var b strings.Builder
	b.WriteString("<!doctype html><html><head><meta charset=\"utf-8\"><title>Index of ")
	b.WriteString(reqPath)
	b.WriteString("</title></head><body><h1>Index of ")
	b.WriteString(reqPath)
	b.WriteString("</h1><ul>")
	if reqPath != "/" {
		b.WriteString("<li><a href=\"../\">../</a></li>")
	}

	entries, err := os.ReadDir(fsDir)
	if err == nil {
		for _, e := range entries {
			name := e.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			b.WriteString("<li><a href=\"")
			b.WriteString(name)
			b.WriteString("\">")
			b.WriteString(name)
			b.WriteString("</a></li>")
		}
	}

	b.WriteString("</ul></body></html>")
	return b.String()
}
