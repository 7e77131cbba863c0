// Package main provides the entry point for the fswhy disk usage explorer.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
