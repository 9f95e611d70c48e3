// Package main is the entry point for the mason package manager.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.masonbuild.dev/mason/cmd/mason/commands"
	"go.masonbuild.dev/mason/internal/app"
	"go.masonbuild.dev/mason/internal/core/domain"
	_ "go.masonbuild.dev/mason/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrUnresolvedWorkspace) {
			// The failure report was already logged in full.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
