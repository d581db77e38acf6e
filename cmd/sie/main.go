package main

import (
	"os"

	"github.com/robinvdvleuten/sie/cli"
)

func main() {
	result := cli.Main(os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(result.ExitCode)
}
