// Package main is the entry point for the cobfus CLI.
package main

import "cobfus.dev/pkg/cobfus/cmd"

func main() {
	cmd.Execute()
}
