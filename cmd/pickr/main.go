package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/alexcabrera/pickr/internal/version"
)

func main() {
	ctx := context.Background()
	cmd := newRootCmd()

	// A cancelled picker exits 1 without a message.
	errorHandler := func(w io.Writer, styles fang.Styles, err error) {
		if errors.Is(err, errCancelled) {
			return
		}
		fang.DefaultErrorHandler(w, styles, err)
	}

	if err := fang.Execute(ctx, cmd,
		fang.WithVersion(version.Version),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		os.Exit(1)
	}
}
