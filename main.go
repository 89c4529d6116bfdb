package main

import (
	"os"

	"github.com/mcoot/TribesLauncher/cmds"
)

func main() {
	os.Exit(cmds.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
