package main

import (
	"context"
	"fmt"
	"os"

	"github.com/peco/comterm"
	"github.com/peco/comterm/internal/util"
)

func main() {
	var st int
	defer func() { os.Exit(st) }()

	cli := comterm.NewCLI()
	if err := cli.Run(context.Background(), os.Args[1:]); err != nil {
		if util.IsIgnorableError(err) {
			return
		}
		fmt.Fprintf(os.Stderr, "comterm: %s\n", err)
		st, _ = util.GetExitStatus(err)
	}
}
