package main

import (
	"os"

	"github.com/YoshitsuguKoike/billrecon/internal/interface/cli"
)

func main() {
	os.Exit(cli.Execute())
}
