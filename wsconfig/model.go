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

// Package wsconfig parses the nginx-style server configuration grammar into
// the Config/Server/Location tree consumed by the router and handlers.
package wsconfig

import wssize "github.com/nabbar/webserv/size"

// Location describes one "location { ... }" block nested under a server.
type Location struct {
	Path               string
	AllowMethods       []string
	Root               string
	Alias              string
	Index              []string
	Autoindex          bool
	UploadEnable       bool
	UploadStore        string
	ReturnCode         int
	ReturnURL          string
	CgiExt             string
	CgiBin             string
	ClientMaxBodySize  wssize.Size
}

// Server describes one "server { ... }" block.
type Server struct {
	Host              string
	Port              int
	ServerNames       []string
	Root              string
	ErrorPages        map[int]string
	ClientMaxBodySize wssize.Size
	Locations         []Location
}

// Config is the full parsed configuration: an ordered list of server blocks.
type Config struct {
	Servers []Server
}

// DefaultAllowMethods is applied to a location when it declares none.
var DefaultAllowMethods = []string{"GET", "POST", "DELETE"}

func newServer() Server {
	return Server{
		Port:              80,
		ErrorPages:        make(map[int]string),
		ClientMaxBodySize: 1 << 20,
	}
}
