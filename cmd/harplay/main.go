package main

import (
	"os"

	"github.com/raysh454/harplay/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
