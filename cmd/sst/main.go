// Command sst runs a program under a least-privilege Landlock sandbox.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sst: error: %v\n", err)
		os.Exit(1)
	}
}
