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

// Package uploadhandler accepts a POST body and stores it under a location's
// upload_store directory, subject to the size-limit cascade and the shared
// path-safety boundary check. In the original C++ this logic lived inline in
// the connection state machine; here it is its own package.
package uploadhandler

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	filePerm "github.com/nabbar/webserv/file/perm"
	"github.com/nabbar/webserv/pathsafety"
	wssize "github.com/nabbar/webserv/size"
	wsconfig "github.com/nabbar/webserv/wsconfig"
)

// dirMode and fileMode are parsed through file/perm rather than written as
// bare os.FileMode literals, so they share the same octal-string parsing the
// config front-end would use for a future upload_dir_mode/upload_file_mode
// directive.
var (
	dirMode, _  = filePerm.Parse("0755")
	fileMode, _ = filePerm.Parse("0644")
)

// DefaultMaxBodySize applies when neither the location nor the server
// configures client_max_body_size.
const DefaultMaxBodySize wssize.Size = 10 << 20

// Result is the outcome of one upload attempt.
type Result struct {
	Status   int
	Reason   string
	Body     []byte
	Location string
}

// MaxBodySize resolves the size-limit cascade: location, then server, then
// the built-in default.
func MaxBodySize(srv *wsconfig.Server, loc *wsconfig.Location) wssize.Size {
	if loc != nil && loc.ClientMaxBodySize > 0 {
		return loc.ClientMaxBodySize
	}
	if srv != nil && srv.ClientMaxBodySize > 0 {
		return srv.ClientMaxBodySize
	}
	return DefaultMaxBodySize
}

// Enabled reports whether loc allows uploads at all.
func Enabled(loc *wsconfig.Location) bool {
	return loc != nil && loc.UploadEnable
}

func uploadDir(srv *wsconfig.Server, loc *wsconfig.Location) string {
	base := loc.Root
	if base == "" {
		if srv.Root != "" {
			base = srv.Root
		} else {
			base = "."
		}
	}
	store := loc.UploadStore
	if store == "" {
		store = "uploads"
	}
	mapped, ok := pathsafety.MapUnder(base, store)
	if !ok {
		return filepath.Join(base, "uploads")
	}
	return mapped
}

func ensureDirRecursive(dir string) error {
	return os.MkdirAll(dir, dirMode.FileMode())
}

func genUploadName() string {
	return fmt.Sprintf("up_%d_%d_%d", time.Now().Unix(), os.Getpid(), rand.Int())
}

// Handle writes body into loc's upload directory and returns a 201 response
// referencing the stored file, or a 4xx/5xx failure result.
func Handle(srv *wsconfig.Server, loc *wsconfig.Location, body []byte) Result {
	if !Enabled(loc) {
		return Result{Status: 403, Reason: "Forbidden", Body: []byte("403 Forbidden\n")}
	}

	if wssize.Size(len(body)) > MaxBodySize(srv, loc) {
		return Result{Status: 413, Reason: "Request Entity Too Large", Body: []byte("413 Request Entity Too Large\n")}
	}

	dir := uploadDir(srv, loc)
	if err := ensureDirRecursive(dir); err != nil {
		return Result{Status: 500, Reason: "Internal Server Error", Body: []byte("500 Internal Server Error\n")}
	}

	name := genUploadName()
	fsPath := filepath.Join(dir, name)
	if err := os.WriteFile(fsPath, body, fileMode.FileMode()); err != nil {
		return Result{Status: 500, Reason: "Internal Server Error", Body: []byte("500 Internal Server Error\n")}
	}

	return Result{
		Status:   201,
		Reason:   "Created",
		Body:     []byte("201 Created\n"),
		Location: "/uploads/" + name,
	}
}
