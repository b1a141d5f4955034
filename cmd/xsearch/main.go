package main

import (
	"os"

	"twitter-search-builder/internal/cli"
)

func main() {
	os.Exit(cli.New().Execute(os.Args[1:]))
}
