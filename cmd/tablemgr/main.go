package main

import (
	"context"
	"os"

	"github.com/Konsultn-Engineering/tablemgr/cmd/tablemgr/commands"
)

func main() {
	if err := commands.NewRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
