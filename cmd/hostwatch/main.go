package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/projectdiscovery/gologger"

	"github.com/projectdiscovery/hostwatch/internal/runner"
)

func main() {
	options := runner.ParseOptions()

	r, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("could not create runner: %s\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		gologger.Info().Msgf("interrupt received, stopping monitor")
		cancel()
	}()

	if err := r.Run(ctx); err != nil {
		gologger.Fatal().Msgf("could not run monitor: %s\n", err)
	}
}
