package main

import (
	"os"

	"github.com/uet-datalab/refpipe/cmd/refpipe"
)

func main() {
	if err := refpipe.Execute(); err != nil {
		os.Exit(1)
	}
}
