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

import "fmt"

var units = []struct {
	size   Size
	suffix string
}{
	{SizeExa, "EB"},
	{SizePeta, "PB"},
	{SizeTera, "TB"},
	{SizeGiga, "GB"},
	{SizeMega, "MB"},
	{SizeKilo, "KB"},
}

// String renders the size with two decimals in the largest unit not greater
// than it, e.g. "5.00 KB" or "1.50 KB", falling back to a plain byte count.
func (s Size) String() string {
	for _, u := range units {
		if s >= u.size {
			return fmt.Sprintf("%.2f %s", float64(s)/float64(u.size), u.suffix)
		}
	}
	return fmt.Sprintf("%d B", uint64(s))
}
