// Package main provides the entry point for the searchkit CLI.
package main

import (
	"os"

	"github.com/pagecms/searchkit/cmd/searchkit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
