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

// Package pathsafety implements the filesystem-mapping guard shared by every
// handler that turns an HTTP path into a path on disk: join, normalize,
// prefix-containment and lenient traversal detection.
package pathsafety

import "strings"

// Join concatenates a and b with exactly one '/' separator. An empty side
// returns the other untouched.
func Join(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if strings.HasSuffix(a, "/") {
		return a + b
	}
	return a + "/" + b
}

// Normalize collapses a UNIX-style path: empty and "." segments are dropped,
// ".." pops the last kept segment (never below the root), and the result is
// rejoined with a leading '/'.
func Normalize(p string) string {
	parts := strings.Split(p, "/")
	stack := make([]string, 0, len(parts))

	for _, s := range parts {
		switch s {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, s)
		}
	}

	return "/" + strings.Join(stack, "/")
}

// hasPrefix reports whether b starts with a and the next byte (if any) is '/'.
func hasPrefix(a, b string) bool {
	if len(b) < len(a) {
		return false
	}
	if b[:len(a)] != a {
		return false
	}
	if len(b) == len(a) {
		return true
	}
	return b[len(a)] == '/'
}

// StartsWithPath reports whether abs equals base or starts with base
// followed by '/'. Both inputs must already be normalized and absolute.
// A base of "/" therefore matches only "/" itself.
func StartsWithPath(base, abs string) bool {
	return hasPrefix(base, abs)
}

// HasBoundaryPrefix reports whether s is exactly prefix, or starts with
// prefix followed by '/'. Used to match a request path against a location's
// path without matching "/apiX" against a "/api" location.
func HasBoundaryPrefix(prefix, s string) bool {
	return hasPrefix(prefix, s)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}
	return -1
}

// urlDecodeLenient percent-decodes s, leaving any malformed %-escape
// untouched instead of failing — matching the sandbox check, not an RFC decoder.
func urlDecodeLenient(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, lo := hexVal(s[i+1]), hexVal(s[i+2])
			if hi >= 0 && lo >= 0 {
				out = append(out, byte(hi<<4|lo))
				i += 2
				continue
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}

// TraversalSuspect lenient-decodes rawPath and reports true if any decoded
// segment equals ".." or the substring ".." occurs anywhere in the decoded form.
func TraversalSuspect(rawPath string) bool {
	dec := urlDecodeLenient(rawPath)
	if strings.Contains(dec, "..") {
		return true
	}

	i := 0
	for i <= len(dec) {
		j := strings.IndexByte(dec[i:], '/')
		var seg string
		if j == -1 {
			seg = dec[i:]
		} else {
			seg = dec[i : i+j]
		}
		if seg == ".." {
			return true
		}
		if j == -1 {
			break
		}
		i += j + 1
	}
	return false
}

// MapUnder joins rest onto base, normalizes both, and reports whether the
// resulting path passes StartsWithPath against the normalized base. The
// mapped path keeps its leading '/' when base is absolute and is relative
// (no leading '/') otherwise. Every filesystem mapping in this module goes
// through this check before touching disk.
func MapUnder(base, rest string) (mapped string, ok bool) {
	joined := Join(base, rest)
	norm := Normalize("/" + joined)
	normBase := Normalize("/" + base)

	if !StartsWithPath(normBase, norm) {
		return "", false
	}

	if strings.HasPrefix(norm, "/") && !strings.HasPrefix(base, "/") {
		return norm[1:], true
	}
	return norm, true
}
