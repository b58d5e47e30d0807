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

package statichandler

import "time"

const imfFixdate = "Mon, 02 Jan 2006 15:04:05 GMT"

// httpDate formats t as an RFC 7231 IMF-fixdate string.
func httpDate(t time.Time) string {
	return t.UTC().Format(imfFixdate)
}

// unixTime converts a Unix timestamp (as captured from os.FileInfo.ModTime)
// back to a time.Time for comparison against a parsed If-Modified-Since header.
func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// parseHTTPDate parses an IMF-fixdate string, reporting ok=false if s does
// not match the expected form (mirrors the original's strptime-based parser,
// which also rejects anything shorter than the full fixed-width format).
func parseHTTPDate(s string) (time.Time, bool) {
	if len(s) < 29 {
		return time.Time{}, false
	}
	t, err := time.Parse(imfFixdate, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
