package main

import (
	"fmt"
	"os"

	"github.com/mithrel/docqa/internal/cli"
	"github.com/mithrel/docqa/internal/client"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if client.IsUnauthorized(err) {
			fmt.Fprintln(os.Stderr, "hint: run `docqa-cli login` first")
		}
		os.Exit(1)
	}
}
