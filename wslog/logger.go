/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package wslog

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	libcns "github.com/nabbar/webserv/console"
)

// Access-log severity bands, registered as console.ColorType IDs above the
// package's own ColorPrint/ColorPrompt so Access lines colorize the same
// way CLI output does, through the shared thread-safe color registry.
const (
	colorAccess2xx libcns.ColorType = iota + 100
	colorAccess3xx
	colorAccess4xx
	colorAccess5xx
)

func init() {
	libcns.SetColor(colorAccess2xx, int(color.FgGreen))
	libcns.SetColor(colorAccess3xx, int(color.FgCyan))
	libcns.SetColor(colorAccess4xx, int(color.FgYellow))
	libcns.SetColor(colorAccess5xx, int(color.FgRed))
}

// Logger is the contract every package in this module logs through. It is
// always held by reference, constructed once in cmd/webserv and passed down
// to the event loop, router and handlers.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})

	// Access logs one completed HTTP exchange, mirroring a combined-log-format line.
	Access(remoteAddr, method, target, proto string, status int, size int64, latency time.Duration)

	SetLevel(lvl Level)
}

type logger struct {
	l *logrus.Logger
	c bool // colorize output when stderr is a terminal
}

// New builds a Logger writing to w at the given level. When w is an *os.File
// and fatih/color has color enabled, Access lines are colorized by status band.
func New(w io.Writer, lvl Level) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl.Logrus())
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	_, isTerm := w.(*os.File)
	return &logger{l: l, c: isTerm && color.NoColor == false}
}

func (o *logger) SetLevel(lvl Level) {
	o.l.SetLevel(lvl.Logrus())
}

func (o *logger) Debugf(format string, args ...interface{}) { o.l.Debugf(format, args...) }
func (o *logger) Infof(format string, args ...interface{})  { o.l.Infof(format, args...) }
func (o *logger) Warnf(format string, args ...interface{})  { o.l.Warnf(format, args...) }
func (o *logger) Errorf(format string, args ...interface{}) { o.l.Errorf(format, args...) }
func (o *logger) Fatalf(format string, args ...interface{}) { o.l.Errorf(format, args...) }

func (o *logger) Access(remoteAddr, method, target, proto string, status int, size int64, latency time.Duration) {
	line := fmt.Sprintf("%s \"%s %s %s\" %d %d %s", remoteAddr, method, target, proto, status, size, latency)
	if o.c {
		line = colorForStatus(status).Sprintf("%s", line)
	}
	o.l.Info(line)
}

func colorForStatus(status int) libcns.ColorType {
	switch {
	case status >= 500:
		return colorAccess5xx
	case status >= 400:
		return colorAccess4xx
	case status >= 300:
		return colorAccess3xx
	default:
		return colorAccess2xx
	}
}

// Discard is a Logger that drops everything, used in tests that don't care about output.
func Discard() Logger {
	return New(io.Discard, InfoLevel)
}
