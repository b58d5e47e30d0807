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
	"math"
)

// Mul multiplies in place, rounding fractional results up and saturating at MaxUint64.
func (s *Size) Mul(factor float64) {
	_ = s.MulErr(factor)
}

func (s *Size) MulErr(factor float64) error {
	if factor <= 0 {
		*s = 0
		return nil
	}

	r := math.Ceil(float64(*s) * factor)
	if r >= math.MaxUint64 {
		*s = Size(math.MaxUint64)
		return fmt.Errorf("size: multiplication overflow")
	}

	*s = Size(r)
	return nil
}

// Div divides in place, rounding fractional results up. A zero or negative
// divisor leaves the value unchanged (DivErr reports it).
func (s *Size) Div(divisor float64) {
	_ = s.DivErr(divisor)
}

func (s *Size) DivErr(divisor float64) error {
	if divisor <= 0 {
		return fmt.Errorf("size: invalid diviser %v", divisor)
	}

	*s = Size(math.Ceil(float64(*s) / divisor))
	return nil
}

// Add adds in place, saturating at MaxUint64 on overflow.
func (s *Size) Add(n uint64) {
	_ = s.AddErr(n)
}

func (s *Size) AddErr(n uint64) error {
	cur := uint64(*s)
	sum := cur + n
	if sum < cur {
		*s = Size(math.MaxUint64)
		return fmt.Errorf("size: addition overflow")
	}
	*s = Size(sum)
	return nil
}

// Sub subtracts in place, saturating at zero on underflow.
func (s *Size) Sub(n uint64) {
	_ = s.SubErr(n)
}

func (s *Size) SubErr(n uint64) error {
	cur := uint64(*s)
	if n > cur {
		*s = 0
		return fmt.Errorf("size: invalid substractor %d on %d", n, cur)
	}
	*s = Size(cur - n)
	return nil
}
