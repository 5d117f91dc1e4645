package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/distillr/internal/buildinfo"
	"github.com/dmitrijs2005/distillr/internal/client/cli"
	"github.com/dmitrijs2005/distillr/internal/client/config"
	"github.com/dmitrijs2005/distillr/internal/flagx"
	"github.com/dmitrijs2005/distillr/internal/logging"
	"github.com/rs/zerolog"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	log := logging.NewConsoleLogger(os.Stderr, zerolog.WarnLevel)

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	app.Run(ctx, flagx.Positional(os.Args[1:], config.ValueFlags))
}
