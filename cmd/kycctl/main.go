// Command kycctl edits the KYC entity desk from a terminal. It reads and
// writes the same store as the server, so both see each other's changes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kycdesk/internal/platform/clipboard"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(&app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdin:  os.Stdin,
		clip:   clipboard.NewTerminal(os.Stdout),
	})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
