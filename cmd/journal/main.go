package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/gophjournal/internal/cli"
)

func main() {
	ctx := context.Background()

	if err := cli.Execute(ctx, os.Args[1:], os.Stderr); err != nil {
		os.Exit(1)
	}
}
