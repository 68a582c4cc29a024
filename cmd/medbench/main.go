// cmd/medbench/main.go
package main

import (
	cmd "github.com/livemedbench/medbench/internal/cli"
)

// main starts the medbench CLI application by delegating to the
// cobra root command defined in the medbench package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
