package main

import (
	"os"

	"github.com/xgx-io/xgx-context/cmd/xgxctx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
