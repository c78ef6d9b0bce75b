// Package main is the entry point for the streamz-cli application.
package main

import (
	"github.com/samber/lo"
	"github.com/streamz-cli/streamz/cmd"
	"github.com/streamz-cli/streamz/config"
	"github.com/streamz-cli/streamz/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
