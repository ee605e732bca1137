package main

import (
	"fmt"
	"os"

	"predictd/internal/inference"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "predictd:", err)
		if inference.IsStartupFailure(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
