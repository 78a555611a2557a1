package main

import (
	"fmt"
	"os"

	apierrors "lakbaycli/internal/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if apierrors.KindOf(err) != "" {
			fmt.Fprintln(os.Stderr, "Error:", apierrors.NoticeOf(err))
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
