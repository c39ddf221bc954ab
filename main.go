// Package main is the entry point for the Leela CLI.
package main

import "leela.dev/pkg/leela/cmd"

func main() {
	cmd.Execute()
}
