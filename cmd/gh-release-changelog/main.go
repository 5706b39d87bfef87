package main

import (
	"os"

	"github.com/gh-release-changelog/gh-release-changelog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
