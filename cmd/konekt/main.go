// Package main is the single-binary entrypoint for Konekt.
package main

import "github.com/konekt-network/konekt/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
