package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/raocow/internal/shared"
	"github.com/desertthunder/raocow/internal/ui"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	err := runner.app().Run(context.Background(), os.Args)
	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close database", "err", cerr)
	}
	if err == nil {
		return
	}

	if shared.IsExpected(err) {
		fmt.Fprintln(os.Stderr, ui.Styles().Failure("%v", err))
	} else {
		logger.Error("application error", "err", err)
	}
	os.Exit(exitCode(err))
}
