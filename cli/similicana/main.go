package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	similicanacmder "github.com/papercomputeco/similicana/cmd/similicana"
	"github.com/papercomputeco/similicana/pkg/cliui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := similicanacmder.NewSimilicanaCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cliui.ErrReported) && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "%s %v\n", cliui.FailMark, err)
		}
		stop()
		os.Exit(1)
	}
}
