package main

import "github.com/opencode-ai/portalstyle/internal/cli"

func main() {
	if err := cli.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}
