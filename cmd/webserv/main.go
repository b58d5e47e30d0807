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

// Command webserv starts the single-threaded HTTP/1.1 origin server
// described by a configuration file given as its sole positional argument.
package main

import (
	"fmt"
	"os"

	"github.com/nabbar/webserv/vhost"
	"github.com/nabbar/webserv/webnet"
	wsconfig "github.com/nabbar/webserv/wsconfig"
	"github.com/nabbar/webserv/wslog"
	spfcbr "github.com/spf13/cobra"
)

const (
	exitOK            = 0
	exitConfigMissing = 1
	exitConfigParse   = 2
	exitInitFailure   = 3
)

const defaultConfigPath = "examples/basic.conf"

// The teacher's cobra/ wrapper package (github.com/nabbar/webserv/cobra)
// is not used here: its interface leans on libvpr.Viper and libver.Version,
// both of which arrived in this tree as test-only packages with no
// buildable implementation, so the wrapper itself cannot compile. This
// command drives spf13/cobra directly instead, the same dependency the
// wrapper is built on.
func main() {
	var logLevel string

	cmd := &spfcbr.Command{
		Use:   "webserv [config-path]",
		Short: "single-threaded HTTP/1.1 origin server",
		Args:  spfcbr.MaximumNArgs(1),
		RunE: func(_ *spfcbr.Command, args []string) error {
			path := defaultConfigPath
			if len(args) > 0 {
				path = args[0]
			}
			os.Exit(run(path, logLevel))
			return nil
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error, fatal")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitInitFailure)
	}
}

func run(path, logLevel string) int {
	log := wslog.New(os.Stderr, wslog.ParseLevel(logLevel))

	src, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("config file %q: %v", path, err)
		return exitConfigMissing
	}

	cfg, perr := wsconfig.Parse(string(src))
	if perr != nil {
		log.Errorf("parsing %q: %v", path, perr)
		return exitConfigParse
	}

	router := vhost.New(cfg)
	loop := webnet.NewEventLoop(router, log)

	if err := loop.InitFromConfig(cfg); err != nil {
		log.Errorf("initializing listeners: %v", err)
		return exitInitFailure
	}

	log.Infof("webserv listening, %d server block(s) configured", len(cfg.Servers))
	if err := loop.Run(); err != nil {
		log.Errorf("event loop stopped: %v", err)
		return exitInitFailure
	}
	return exitOK
}
