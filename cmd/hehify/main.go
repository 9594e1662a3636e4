// Copyright 2025 The hehify Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the hehify command.

hehify rewrites Russian text by swapping syllables of words for marker
syllables ("ха", "хех", "хи", ...) while keeping each word's casing,
syllable count and general shape.

# Usage

Transform arguments or stdin, line by line:

	hehify Привет, как дела?
	echo "Привет, как дела?" | hehify --rate 1 --level 0.5

Try settings interactively, with the syllable breakdown of every word:

	hehify repl --syllables

Serve msgpack IPC on stdin/stdout, or JSON over HTTP:

	hehify serve
	hehify http --addr :8080

# Configuration

Settings come from a TOML file created with defaults on first run
(see `hehify config path`). Flags override the file for one run:

	--rate   probability that a word is rewritten
	--level  fraction of a word's syllables that are replaced
	--seed   make output reproducible
	-d       debug logging to stderr
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const (
	Version = "0.3.0"
	AppName = "hehify"
	gh      = "https://github.com/bastiangx/hehify"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
