package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// Interrupted builds already logged that the output was left alone.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "qrsite: %v\n", err)
		}
		os.Exit(1)
	}
}
