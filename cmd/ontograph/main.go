// Package main provides the entry point for the ontograph CLI.
package main

import "github.com/raphaelgruber/ontograph/internal/cli"

func main() {
	cli.Execute()
}
