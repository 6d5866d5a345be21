package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/actions"
)

// Version information, set at build time via -ldflags
var (
	Version   = "v0.0.1"
	CommitSHA = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := createRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		actions.SetFailed(os.Stdout, err.Error())
		os.Exit(1)
	}
}
