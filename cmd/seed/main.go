package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pedrohgl18/elox/internal/seeder"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seeder.NewApp().RunContext(ctx, os.Args); err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
