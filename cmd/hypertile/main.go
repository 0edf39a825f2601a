// Command hypertile renders hyperbolic tilings to PNG or SVG files, prints
// regular tiling geometry, and serves frames over HTTP.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
