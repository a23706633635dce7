package main

import (
	"fmt"

	"github.com/redox-os-tools/disk-installer/lib/constants"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/version"
)

func versionSubcommand(args []string, logger log.DebugLogger) error {
	fmt.Println(constants.ProgramName, version.Get())
	return nil
}
