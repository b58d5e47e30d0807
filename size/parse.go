/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package size

import (
	"fmt"
	"strconv"
	"strings"
)

var suffixes = map[string]Size{
	"b":  SizeUnit,
	"k":  SizeKilo,
	"kb": SizeKilo,
	"m":  SizeMega,
	"mb": SizeMega,
	"g":  SizeGiga,
	"gb": SizeGiga,
	"t":  SizeTera,
	"tb": SizeTera,
	"p":  SizePeta,
	"pb": SizePeta,
	"e":  SizeExa,
	"eb": SizeExa,
}

// Parse accepts a plain decimal byte count or a decimal number immediately
// followed by a one- or two-letter unit suffix (B, K/KB, M/MB, G/GB, T/TB,
// P/PB, E/EB; case-insensitive). It never accepts a bare suffix with no digits.
func Parse(s string) (Size, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0, fmt.Errorf("size: empty value")
	}

	i := len(s)
	for i > 0 && !(s[i-1] >= '0' && s[i-1] <= '9') {
		i--
	}
	numPart, sufPart := s[:i], s[i:]
	if numPart == "" {
		return 0, fmt.Errorf("size: missing numeric part in %q", s)
	}

	mult := float64(1)
	if sufPart != "" {
		m, ok := suffixes[strings.ToLower(sufPart)]
		if !ok {
			return 0, fmt.Errorf("size: unknown unit %q", sufPart)
		}
		mult = float64(m)
	}

	n, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("size: invalid number %q: %w", numPart, err)
	}

	return ParseFloat64(n * mult), nil
}
