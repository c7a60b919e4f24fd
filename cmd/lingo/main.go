// Package main is the single-binary entrypoint for lingo.
package main

import "github.com/lingo-quest/lingo/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
