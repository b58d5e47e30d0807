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

import "math"

func (s Size) Uint64() uint64 { return uint64(s) }

func (s Size) Uint32() uint32 {
	if uint64(s) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(s)
}

func (s Size) Uint() uint {
	if uint64(s) > math.MaxUint {
		return math.MaxUint
	}
	return uint(s)
}

func (s Size) Int64() int64 {
	if uint64(s) > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(s)
}

func (s Size) Int32() int32 {
	if uint64(s) > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(s)
}

func (s Size) Int() int {
	if uint64(s) > math.MaxInt {
		return math.MaxInt
	}
	return int(s)
}

func (s Size) Float64() float64 { return float64(s) }

// ParseInt64 converts a signed count to a Size, taking the absolute value.
func ParseInt64(n int64) Size {
	if n < 0 {
		if n == math.MinInt64 {
			return Size(math.MaxUint64)
		}
		n = -n
	}
	return Size(n)
}

// SizeFromInt64 is an alias of ParseInt64.
func SizeFromInt64(n int64) Size { return ParseInt64(n) }

// ParseUint64 converts an unsigned count to a Size.
func ParseUint64(n uint64) Size { return Size(n) }

// ParseFloat64 converts a float count to a Size, flooring fractional values
// and taking the absolute value; it saturates at MaxUint64.
func ParseFloat64(f float64) Size {
	if f < 0 {
		f = -f
	}
	if f >= math.MaxUint64 {
		return Size(math.MaxUint64)
	}
	return Size(math.Floor(f))
}

// SizeFromFloat64 is an alias of ParseFloat64.
func SizeFromFloat64(f float64) Size { return ParseFloat64(f) }
