// Package main is the entry point for the lazycommit application.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/chmouel/lazycommit/internal/bootstrap"
	"github.com/chmouel/lazycommit/internal/buildinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := bootstrap.Run(ctx, os.Args)
	stop()
	os.Exit(code)
}
