// Package main provides the relations CLI.
package main

import "github.com/mesh-intelligence/relations/internal/cli"

func main() {
	cli.Execute()
}
