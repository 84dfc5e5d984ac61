// prism - Dominant colour and palette extraction
//
// prism finds the dominant colours of an image and derives a primary,
// secondary, complementary and accent palette from them.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/prism/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
