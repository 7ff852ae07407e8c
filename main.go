package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mynab/budget-import/cmd/classify"
	"mynab/budget-import/cmd/ingest"
	"mynab/budget-import/cmd/institutions"
	"mynab/budget-import/cmd/migrate"
	"mynab/budget-import/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(institutions.Cmd)
	root.Cmd.AddCommand(migrate.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
