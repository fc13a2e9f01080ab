// The main package for the pickupwatch executable.
package main

import (
	"github.com/pickupwatch/pickupwatch/cmd"
)

// main defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
