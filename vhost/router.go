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

// Package vhost picks a virtual server and a location block for an incoming
// request: two-tier resolution by listener (host,port) + Host header, then
// by longest matching location prefix.
package vhost

import (
	"strings"

	wsconfig "github.com/nabbar/webserv/wsconfig"
)

// Router resolves requests against a parsed configuration.
type Router struct {
	cfg *wsconfig.Config
}

// New returns a Router bound to cfg. The config is not copied; callers must
// not mutate it concurrently with Resolve.
func New(cfg *wsconfig.Config) *Router {
	return &Router{cfg: cfg}
}

// Match is the result of resolving one request: the chosen server, and the
// chosen location within it (nil if no location prefix matched).
type Match struct {
	Server   *wsconfig.Server
	Location *wsconfig.Location
}

func hostFromHeader(hostHeader string) string {
	if hostHeader == "" {
		return ""
	}
	if i := strings.LastIndexByte(hostHeader, ':'); i >= 0 {
		return hostHeader[:i]
	}
	return hostHeader
}

// pickServer selects the server listening on (listenerHost, listenerPort)
// whose server_name matches the Host header, else the first server declared
// for that (host,port) pair, else the first server overall.
func (r *Router) pickServer(listenerHost string, listenerPort int, hostHeader string) *wsconfig.Server {
	var firstForPair *wsconfig.Server
	hh := hostFromHeader(hostHeader)

	for i := range r.cfg.Servers {
		s := &r.cfg.Servers[i]
		if s.Host != listenerHost || s.Port != listenerPort {
			continue
		}
		if firstForPair == nil {
			firstForPair = s
		}
		if hh == "" {
			continue
		}
		for _, name := range s.ServerNames {
			if name == hh {
				return s
			}
		}
	}

	if firstForPair != nil {
		return firstForPair
	}
	if len(r.cfg.Servers) == 0 {
		return nil
	}
	return &r.cfg.Servers[0]
}

func pathOnly(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}

// pickLocation returns the location whose path is the longest prefix of
// path. No boundary check (whether the next path byte is '/') is made here;
// statichandler's mapping applies pathsafety.HasBoundaryPrefix downstream.
func (r *Router) pickLocation(srv *wsconfig.Server, path string) *wsconfig.Location {
	var best *wsconfig.Location
	bestLen := 0
	for i := range srv.Locations {
		loc := &srv.Locations[i]
		p := loc.Path
		if len(p) <= len(path) && path[:len(p)] == p {
			if len(p) > bestLen {
				best = loc
				bestLen = len(p)
			}
		}
	}
	return best
}

// Resolve picks the server and location for one request.
func (r *Router) Resolve(listenerHost string, listenerPort int, hostHeader, requestTarget string) Match {
	var m Match
	m.Server = r.pickServer(listenerHost, listenerPort, hostHeader)
	if m.Server != nil {
		m.Location = r.pickLocation(m.Server, pathOnly(requestTarget))
	}
	return m
}
