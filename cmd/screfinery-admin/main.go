package main

import (
	"os"

	"github.com/screfinery/screfinery/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
