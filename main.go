// courseserv - a line-protocol TCP server for course enrollment.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"courseserv/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "courseserv: %v\n", err)
		os.Exit(1)
	}
}
