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

package wsconfig

type tokenType uint8

const (
	tLBrace tokenType = iota
	tRBrace
	tSemi
	tString
	tIdentifier
	tEOF
)

type token struct {
	typ  tokenType
	text string
	line int
	col  int
}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isIdent(c byte) bool {
	return isIdentStart(c) || c == '.' || c == '/' || c == '-' || c == ':'
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.src) {
		c := l.peek()
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			l.advance()
			continue
		}
		if c == '#' {
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

// next returns the next token in the stream. It never fails on lexing alone:
// an unrecognized single character is returned as a one-character identifier.
func (l *lexer) next() token {
	l.skipWhitespaceAndComments()
	if l.pos >= len(l.src) {
		return token{typ: tEOF, line: l.line, col: l.col}
	}

	ln, col := l.line, l.col
	c := l.peek()

	switch c {
	case '{':
		l.advance()
		return token{typ: tLBrace, text: "{", line: ln, col: col}
	case '}':
		l.advance()
		return token{typ: tRBrace, text: "}", line: ln, col: col}
	case ';':
		l.advance()
		return token{typ: tSemi, text: ";", line: ln, col: col}
	case '"':
		l.advance()
		var sb []byte
		for l.pos < len(l.src) && l.peek() != '"' {
			ch := l.advance()
			if ch == '\\' && l.pos < len(l.src) {
				ch = l.advance()
			}
			sb = append(sb, ch)
		}
		if l.pos < len(l.src) {
			l.advance()
		}
		return token{typ: tString, text: string(sb), line: ln, col: col}
	}

	if isIdent(c) {
		start := l.pos
		for l.pos < len(l.src) && isIdent(l.peek()) {
			l.advance()
		}
		return token{typ: tIdentifier, text: l.src[start:l.pos], line: ln, col: col}
	}

	l.advance()
	return token{typ: tIdentifier, text: string(c), line: ln, col: col}
}
