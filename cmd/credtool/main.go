package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/clouddb/internal/credtool"
)

func main() {
	app := credtool.App(os.Stdout, os.Stderr)

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
