package main

import (
	"os"

	"github.com/pombredanne/pycense/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
