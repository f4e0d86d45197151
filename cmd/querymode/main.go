// Command querymode selects query builder modes and lists their actions and
// drill-downs.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/querymode/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
