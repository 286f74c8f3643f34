// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command pulsenet simulates a pulse network and computes the first trigger
// at which its sink receives a low pulse.
//
// Usage:
//
//	pulsenet [flags] FILE
//	pulsenet gen [flags] PERIOD...
//
// FILE is either a list of module declarations, one per line:
//
//	broadcaster -> a, b
//	%a -> c
//	%b -> c
//	&c -> rx
//
// or, with a .hcl extension or --format=hcl, the equivalent module blocks.
// Use - to read from standard input.
//
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/db47h/pulsenet/internal/cli"
	"github.com/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err == nil {
		return
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "pulsenet:", exitErr.Message)
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, "pulsenet:", err)
	os.Exit(1)
}
