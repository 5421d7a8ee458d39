// Command flaresentinel runs the flame/smoke detection API (`serve`) and the
// offline classifier (`classify`).
package main

import (
	"context"
	"fmt"
	"os"

	"flaresentinel/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
