package main

import (
	"os"

	"github.com/dshills/cortex/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
