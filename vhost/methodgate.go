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

package vhost

import wsconfig "github.com/nabbar/webserv/wsconfig"

// IsImplemented reports whether the server understands the method at all,
// independent of whether any location allows it.
func IsImplemented(method string) bool {
	switch method {
	case "GET", "POST", "DELETE", "HEAD":
		return true
	}
	return false
}

func locationAllows(loc *wsconfig.Location, method string) bool {
	if loc == nil {
		return false
	}
	for _, m := range loc.AllowMethods {
		if m == method {
			return true
		}
	}
	return false
}

// IsAllowed reports whether method is permitted on loc. HEAD is allowed
// whenever GET is. A nil location (no location matched) falls back to the
// default GET/POST/DELETE set.
func IsAllowed(loc *wsconfig.Location, method string) bool {
	if loc == nil {
		return method == "GET" || method == "HEAD" || method == "POST" || method == "DELETE"
	}
	if method == "HEAD" {
		return locationAllows(loc, "GET")
	}
	return locationAllows(loc, method)
}

// BuildAllowHeader renders the Allow header value for a 405 response, in a
// fixed GET, POST, DELETE, HEAD order, with HEAD only present alongside GET.
func BuildAllowHeader(loc *wsconfig.Location) string {
	if loc == nil {
		return "GET, POST, DELETE, HEAD"
	}

	hasGet := locationAllows(loc, "GET")
	hasPost := locationAllows(loc, "POST")
	hasDel := locationAllows(loc, "DELETE")

	var parts []string
	if hasGet {
		parts = append(parts, "GET")
	}
	if hasPost {
		parts = append(parts, "POST")
	}
	if hasDel {
		parts = append(parts, "DELETE")
	}
	if hasGet {
		parts = append(parts, "HEAD")
	}

	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
