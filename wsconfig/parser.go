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

import (
	"strings"

	"github.com/nabbar/webserv/errors"
	wssize "github.com/nabbar/webserv/size"
)

// ParseError reports the line/column of a malformed configuration directive.
type ParseError struct {
	Line, Col int
	Err       errors.Error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

type parser struct {
	lex *lexer
	tok token
}

// Parse reads the full "server { ... }" grammar and returns the assembled
// Config, or a *ParseError pinpointing the first malformed directive.
func Parse(src string) (*Config, error) {
	p := &parser{lex: newLexer(src)}
	p.advance()

	cfg := &Config{}
	for p.tok.typ != tEOF {
		if p.tok.typ == tIdentifier && p.tok.text == "server" {
			srv, err := p.parseServerBody()
			if err != nil {
				return nil, err
			}
			cfg.Servers = append(cfg.Servers, *srv)
			continue
		}
		return nil, p.fail(ErrorUnexpectedToken)
	}
	return cfg, nil
}

func (p *parser) advance() {
	p.tok = p.lex.next()
}

func (p *parser) fail(code errors.CodeError) error {
	return &ParseError{Line: p.tok.line, Col: p.tok.col, Err: code.Error()}
}

func (p *parser) expect(t tokenType) (token, error) {
	if p.tok.typ != t {
		return token{}, p.fail(ErrorUnexpectedToken)
	}
	tk := p.tok
	p.advance()
	return tk, nil
}

func toBool(s string) bool {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func (p *parser) parseServerBody() (*Server, error) {
	p.advance() // consume "server"
	if _, err := p.expect(tLBrace); err != nil {
		return nil, err
	}

	srv := newServer()

	for p.tok.typ == tIdentifier {
		directive := p.tok.text
		p.advance()

		switch directive {
		case "listen":
			val, err := p.readValue()
			if err != nil {
				return nil, err
			}
			host, port, err := splitHostPort(val, 80)
			if err != nil {
				return nil, p.fail(ErrorInvalidPort)
			}
			srv.Host = host
			srv.Port = port

		case "server_name":
			for p.tok.typ == tIdentifier || p.tok.typ == tString {
				srv.ServerNames = append(srv.ServerNames, p.tok.text)
				p.advance()
			}
			if _, err := p.expect(tSemi); err != nil {
				return nil, err
			}

		case "root":
			val, err := p.readValue()
			if err != nil {
				return nil, err
			}
			srv.Root = val

		case "index":
			for p.tok.typ == tIdentifier || p.tok.typ == tString {
				p.advance()
			}
			if _, err := p.expect(tSemi); err != nil {
				return nil, err
			}

		case "error_page":
			code, err := p.readValue()
			if err != nil {
				return nil, err
			}
			path, err := p.readValue()
			if err != nil {
				return nil, err
			}
			if n, ok := parseIntLiteral(code); ok {
				srv.ErrorPages[n] = path
			}

		case "client_max_body_size":
			val, err := p.readValue()
			if err != nil {
				return nil, err
			}
			sz, serr := wssize.Parse(val)
			if serr != nil {
				return nil, p.fail(ErrorInvalidSize)
			}
			srv.ClientMaxBodySize = sz

		case "location":
			loc, err := p.parseLocation()
			if err != nil {
				return nil, err
			}
			srv.Locations = append(srv.Locations, *loc)

		default:
			return nil, p.fail(ErrorUnexpectedToken)
		}
	}

	if _, err := p.expect(tRBrace); err != nil {
		return nil, err
	}

	if srv.Host == "" {
		return nil, p.fail(ErrorEmptyHost)
	}
	if srv.Port <= 0 {
		return nil, p.fail(ErrorInvalidPort)
	}
	if srv.Root == "" {
		srv.Root = "."
	}
	return &srv, nil
}

func (p *parser) parseLocation() (*Location, error) {
	if p.tok.typ != tIdentifier && p.tok.typ != tString {
		return nil, p.fail(ErrorUnexpectedToken)
	}
	pathVal := p.tok.text
	p.advance()
	if !strings.HasPrefix(pathVal, "/") {
		return nil, p.fail(ErrorInvalidLocationPath)
	}
	if _, err := p.expect(tLBrace); err != nil {
		return nil, err
	}

	loc := Location{Path: pathVal}

	for p.tok.typ == tIdentifier {
		directive := p.tok.text
		p.advance()

		switch directive {
		case "allow_methods":
			for p.tok.typ == tIdentifier || p.tok.typ == tString {
				loc.AllowMethods = append(loc.AllowMethods, p.tok.text)
				p.advance()
			}
			if _, err := p.expect(tSemi); err != nil {
				return nil, err
			}

		case "root":
			val, err := p.readValue()
			if err != nil {
				return nil, err
			}
			loc.Root = val

		case "alias":
			val, err := p.readValue()
			if err != nil {
				return nil, err
			}
			loc.Alias = val

		case "index":
			for p.tok.typ == tIdentifier || p.tok.typ == tString {
				loc.Index = append(loc.Index, p.tok.text)
				p.advance()
			}
			if _, err := p.expect(tSemi); err != nil {
				return nil, err
			}

		case "autoindex":
			val, err := p.readValue()
			if err != nil {
				return nil, err
			}
			loc.Autoindex = toBool(val)

		case "upload_enable":
			val, err := p.readValue()
			if err != nil {
				return nil, err
			}
			loc.UploadEnable = toBool(val)

		case "upload_store":
			val, err := p.readValue()
			if err != nil {
				return nil, err
			}
			loc.UploadStore = val

		case "return":
			code, err := p.readValue()
			if err != nil {
				return nil, err
			}
			url, err := p.readValue()
			if err != nil {
				return nil, err
			}
			if n, ok := parseIntLiteral(code); ok {
				loc.ReturnCode = n
			}
			loc.ReturnURL = url

		case "cgi_ext":
			val, err := p.readValue()
			if err != nil {
				return nil, err
			}
			loc.CgiExt = val

		case "cgi_bin":
			val, err := p.readValue()
			if err != nil {
				return nil, err
			}
			loc.CgiBin = val

		case "client_max_body_size":
			val, err := p.readValue()
			if err != nil {
				return nil, err
			}
			sz, serr := wssize.Parse(val)
			if serr != nil {
				return nil, p.fail(ErrorInvalidSize)
			}
			loc.ClientMaxBodySize = sz

		default:
			return nil, p.fail(ErrorUnexpectedToken)
		}
	}

	if _, err := p.expect(tRBrace); err != nil {
		return nil, err
	}

	if len(loc.AllowMethods) == 0 {
		loc.AllowMethods = append([]string(nil), DefaultAllowMethods...)
	}
	return &loc, nil
}

// readValue reads one identifier/string token followed by a terminating ';'.
func (p *parser) readValue() (string, error) {
	if p.tok.typ != tIdentifier && p.tok.typ != tString {
		return "", p.fail(ErrorUnexpectedToken)
	}
	val := p.tok.text
	p.advance()
	if _, err := p.expect(tSemi); err != nil {
		return "", err
	}
	return val, nil
}

func splitHostPort(s string, defaultPort int) (string, int, error) {
	idx := strings.LastIndexByte(s, ':')
	if idx < 0 {
		return s, defaultPort, nil
	}
	host := s[:idx]
	n, ok := parseIntLiteral(s[idx+1:])
	if !ok {
		return "", 0, &ParseError{Err: ErrorInvalidPort.Error()}
	}
	return host, n, nil
}

func parseIntLiteral(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
