// Command nixinfo inspects NIX containers stored in SQLite files.
package main

import (
	"github.com/robert-malhotra/go-nix/cmd/nixinfo/cmd"
)

func main() {
	cmd.Execute()
}
