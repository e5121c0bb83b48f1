package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alphalever/backend/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background(), os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
