package main

import (
	"log"

	"github.com/modgen/modgen/cli/cmd"
	"github.com/modgen/modgen/cli/util"
	"github.com/modgen/modgen/cli/version"
)

func main() {
	defer func() {
		// Convert a panic into an internal error report with the version info.
		if r := recover(); r != nil {
			log.Fatalf(
				"%s", util.InternalError("Unhandled internal error: %s",
					version.GetVersion, r))
		}
	}()

	cmd.InitRoot()
	cmd.Execute()
}
