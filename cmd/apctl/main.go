package main

import (
	"os"

	apctlcmd "github.com/alpaca-ads/multiauth-portal/pkg/apctl/cmd"
)

func main() {
	root := apctlcmd.NewRootCommand(apctlcmd.DefaultConfig())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
