package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/hayeah/ttbuild"
)

func main() {
	app, err := ttbuild.InitBuildCLI()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing tt-build: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx); err != nil {
		app.Logger.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
