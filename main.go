// botlink - UDP link monitor for a remote-controlled robot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"botlink/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "botlink: %v\n", err)
		os.Exit(1)
	}
}
