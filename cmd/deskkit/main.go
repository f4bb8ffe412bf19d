package main

import (
	"fmt"
	"os"

	"github.com/sokinpui/deskkit"
)

func main() {
	if err := deskkit.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
